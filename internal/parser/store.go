package parser

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"msgscan/internal/textutil"
)

// ErrDuplicateID is returned by Store.Add when the id is already taken.
var ErrDuplicateID = errors.New("duplicated id")

// Record is one {id}{sound}{text} message entry.
type Record struct {
	ID    uint32
	Sound string
	// Text holds one entry per physical line of the text field.
	Text []string
	// Origin is a provenance tag; the loader never sets it.
	Origin uint32
}

// TextLen sums the rune length of every text line, separators excluded.
func (r *Record) TextLen() int {
	n := 0
	for _, t := range r.Text {
		n += utf8.RuneCountInString(t)
	}
	return n
}

// Joined returns the full text with lines separated by "\n".
func (r *Record) Joined() string {
	return strings.Join(r.Text, "\n")
}

// Preview renders {sound}{text} using only the first text line, shortened to
// limit runes.
func (r *Record) Preview(limit int) string {
	first := ""
	if len(r.Text) > 0 {
		first = r.Text[0]
	}
	return "{" + r.Sound + "}{" + textutil.Truncate(first, limit) + "}"
}

// String renders the record in canonical form.
func (r *Record) String() string {
	return "{" + strconv.FormatUint(uint64(r.ID), 10) + "}{" + r.Sound + "}{" + r.Joined() + "}"
}

// Store maps ids to records for a single file.
type Store struct {
	records map[uint32]*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[uint32]*Record)}
}

// Add inserts a record. Duplicate ids are rejected, never overwritten.
func (s *Store) Add(rec *Record) error {
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("add record {%d}: %w", rec.ID, ErrDuplicateID)
	}
	s.records[rec.ID] = rec
	return nil
}

// put inserts or replaces a record.
func (s *Store) put(rec *Record) {
	s.records[rec.ID] = rec
}

// Get returns the record for id.
func (s *Store) Get(id uint32) (*Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// IDs returns all ids in ascending order.
func (s *Store) IDs() []uint32 {
	ids := make([]uint32, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Records returns all records in ascending id order.
func (s *Store) Records() []*Record {
	ids := s.IDs()
	out := make([]*Record, len(ids))
	for i, id := range ids {
		out[i] = s.records[id]
	}
	return out
}

// String serializes the store, one record per line group, ascending by id.
func (s *Store) String() string {
	var b strings.Builder
	for _, rec := range s.Records() {
		b.WriteString(rec.String())
		b.WriteString("\n")
	}
	return b.String()
}
