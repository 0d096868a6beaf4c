// Package report renders scan results to the console and to the report file.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"

	"msgscan/internal/compare"
	"msgscan/internal/parser"
)

// Entry is the outcome for one file.
type Entry struct {
	File        string              `json:"file"`
	Status      parser.Status       `json:"status"`
	Diagnostics []parser.Diagnostic `json:"diagnostics,omitempty"`
	Mismatches  []compare.Mismatch  `json:"mismatches,omitempty"`
}

// FromResult builds an entry from a load result.
func FromResult(res *parser.LoadResult) Entry {
	return Entry{File: res.File, Status: res.Status, Diagnostics: res.Diagnostics}
}

// Failed reports whether the entry carries any problem.
func (e Entry) Failed() bool {
	return e.Status != parser.StatusOK || len(e.Diagnostics) > 0 || len(e.Mismatches) > 0
}

// Text renders diagnostics followed by mismatches, one block per line.
func (e Entry) Text() string {
	parts := make([]string, 0, len(e.Diagnostics)+len(e.Mismatches))
	for _, d := range e.Diagnostics {
		parts = append(parts, d.String())
	}
	for _, m := range e.Mismatches {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "\n")
}

// Format selects the report file encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Remove deletes a stale report file. A missing file is not an error.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove report file: %w", err)
	}
	return nil
}

// Write stores the failing entries at path. Nothing is written when every
// entry is clean, so a leftover file always means a failed scan.
func Write(path string, format Format, entries []Entry) error {
	if path == "" {
		return nil
	}

	failed := Failing(entries)
	if len(failed) == 0 {
		return nil
	}

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := EncodeJSON(&buf, failed); err != nil {
			return err
		}
	default:
		for _, e := range failed {
			buf.WriteString(e.Text())
			buf.WriteString("\n")
		}
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	log.Info().Str("path", path).Int("files", len(failed)).Msg("Report written")
	return nil
}

// EncodeJSON writes entries as an indented JSON array.
func EncodeJSON(w io.Writer, entries []Entry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if entries == nil {
		entries = []Entry{}
	}
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// Failing filters entries down to those with problems.
func Failing(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Failed() {
			out = append(out, e)
		}
	}
	return out
}

// Summary renders a table of file and diagnostic counts.
func Summary(w io.Writer, entries []Entry) {
	byStatus := make(map[parser.Status]int)
	byKind := make(map[compare.Kind]int)
	failed := 0
	for _, e := range entries {
		if e.Failed() {
			failed++
		}
		for _, d := range e.Diagnostics {
			byStatus[d.Status]++
		}
		for _, m := range e.Mismatches {
			byKind[m.Kind]++
		}
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Check", "Count"})
	t.AppendRow(table.Row{"files scanned", len(entries)})
	t.AppendRow(table.Row{"files failed", failed})

	statuses := make([]parser.Status, 0, len(byStatus))
	for s := range byStatus {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	if len(statuses) > 0 || len(byKind) > 0 {
		t.AppendSeparator()
	}
	for _, s := range statuses {
		t.AppendRow(table.Row{s.String(), byStatus[s]})
	}
	for _, k := range []compare.Kind{compare.Missing, compare.ShouldBeEmpty, compare.ShouldNotBeEmpty} {
		if n := byKind[k]; n > 0 {
			t.AppendRow(table.Row{k.String(), n})
		}
	}

	fmt.Fprintln(w, t.Render())
}
