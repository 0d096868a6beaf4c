package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/text/encoding"

	"msgscan/internal/textutil"
)

// Loader reads message files and validates every record in them.
// A Loader holds no per-file state and is safe for concurrent use.
type Loader struct {
	opts Options
	enc  encoding.Encoding
}

// NewLoader creates a Loader. Zero limits fall back to the defaults.
func NewLoader(opts Options) (*Loader, error) {
	opts = opts.withDefaults()
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &Loader{opts: opts, enc: enc}, nil
}

// Options returns the effective options.
func (l *Loader) Options() Options {
	return l.opts
}

// LoadFile reads and validates the file at path. File-level problems yield a
// single diagnostic and a non-OK status.
func (l *Loader) LoadFile(path string) *LoadResult {
	if path == "" {
		return fileFailure(StatusFileNameInvalid, path, "invalid filename")
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fileFailure(StatusFileDoesNotExist, path, fmt.Sprintf("file does not exist [%s]", path))
	case err != nil:
		return fileFailure(StatusFileUnreadable, path, fmt.Sprintf("file is unreadable [%s]: %v", path, err))
	case info.IsDir():
		return fileFailure(StatusFileUnreadable, path, fmt.Sprintf("file is unreadable [%s]: is a directory", path))
	}

	file, err := os.Open(path)
	if err != nil {
		return fileFailure(StatusFileUnreadable, path, fmt.Sprintf("file is unreadable [%s]: %v", path, err))
	}
	defer file.Close()

	lines, err := l.readLines(file)
	if err != nil {
		return fileFailure(StatusFileUnreadable, path, fmt.Sprintf("file is unreadable [%s]: %v", path, err))
	}

	return l.LoadLines(path, lines)
}

func (l *Loader) readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(decodeReader(r, l.enc))
	scanner.Buffer(make([]byte, 0, 1024*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}
	return lines, nil
}

// LoadLines validates already-read lines. name is used in diagnostics.
func (l *Loader) LoadLines(name string, lines []string) *LoadResult {
	if len(lines) == 0 {
		return fileFailure(StatusFileEmpty, name, fmt.Sprintf("file is empty [%s]", name))
	}

	result := &LoadResult{File: name, Status: StatusOK, Store: NewStore()}
	sess := &session{opts: l.opts, store: result.Store}

	for i, raw := range lines {
		line := textutil.Normalize(raw)
		if lerr := sess.consume([]rune(line)); lerr != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Status:  lerr.status,
				RawLine: line,
				Column:  lerr.column,
				Message: lerr.message,
				File:    name,
				Line:    i + 1,
			})
		}
	}

	return result
}

func fileFailure(status Status, name, message string) *LoadResult {
	return &LoadResult{
		File:        name,
		Status:      status,
		Diagnostics: []Diagnostic{fileDiagnostic(status, name, message)},
		Store:       NewStore(),
	}
}

// previewLen bounds the earlier record's text quoted in duplicate-id reports.
const previewLen = 15

// session is the per-file parse state.
type session struct {
	opts  Options
	store *Store
	// continuation is set while a record's text spans further lines.
	continuation bool
	// lastID is the record receiving continuation lines.
	lastID uint32
}

// consume processes one normalized line.
func (s *session) consume(line []rune) *lineError {
	m := matchLine(line, s.continuation)
	switch m.kind {
	case lineIgnored:
		return nil
	case lineInvalid:
		return &lineError{status: StatusInvalidFormat, column: 0, message: "invalid format"}
	case lineContinue, lineClose:
		return s.continueRecord(line, m)
	default:
		return s.startRecord(line, m)
	}
}

func (s *session) startRecord(line []rune, m lineMatch) *lineError {
	if err := checkBrackets(line, m, false); err != nil {
		return err
	}
	if err := checkGaps(line, m, s.opts.Relaxed, false); err != nil {
		return err
	}
	if err := checkTextLen(m.text, 0, s.opts.MaxTextLen, false); err != nil {
		return err
	}
	if err := checkWordLen(line, m.text, s.opts.MaxWordLen, false); err != nil {
		return err
	}

	id, ok := parseID(m.id.in(line))
	if !ok {
		return &lineError{status: StatusInvalidID, column: m.id.start, message: "invalid id"}
	}

	rec := &Record{ID: id, Sound: m.sound.in(line), Text: []string{m.text.in(line)}}
	if prev, exists := s.store.Get(id); exists && !(id == 0 && s.opts.AllowDuplicateZero) {
		return &lineError{
			status:  StatusDuplicatedID,
			column:  m.id.start,
			message: fmt.Sprintf("duplicated id (previous: {%d}%s)", id, prev.Preview(previewLen)),
		}
	}
	s.store.put(rec)
	s.lastID = id
	s.continuation = m.kind == lineOpen
	return nil
}

func (s *session) continueRecord(line []rune, m lineMatch) *lineError {
	if m.kind == lineClose {
		// The closing brace ends the record even if this line is rejected.
		s.continuation = false
		if err := checkBrackets(line, m, true); err != nil {
			return err
		}
		if err := checkGaps(line, m, s.opts.Relaxed, true); err != nil {
			return err
		}
	}

	rec, _ := s.store.Get(s.lastID)
	if err := checkTextLen(m.text, rec.TextLen(), s.opts.MaxTextLen, true); err != nil {
		return err
	}
	if err := checkWordLen(line, m.text, s.opts.MaxWordLen, true); err != nil {
		return err
	}

	rec.Text = append(rec.Text, m.text.in(line))
	return nil
}
