// Package compare checks a translation file against its reference language
// file. Only id coverage and text emptiness are compared; the text itself is
// never diffed.
package compare

import (
	"fmt"

	"msgscan/internal/parser"
)

// Kind is the type of mismatch found for one id.
type Kind int

const (
	Missing Kind = iota
	ShouldBeEmpty
	ShouldNotBeEmpty
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case ShouldBeEmpty:
		return "should be empty"
	case ShouldNotBeEmpty:
		return "should not be empty"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Mismatch is one reported difference.
type Mismatch struct {
	ID   uint32 `json:"id"`
	Kind Kind   `json:"kind"`
	File string `json:"file"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("{%d} %s [%s]", m.ID, m.Kind, m.File)
}

// Compare walks every id of base in ascending order and reports how
// translation differs. file names the translation in the results.
func Compare(base, translation *parser.Store, file string) []Mismatch {
	var out []Mismatch
	for _, id := range base.IDs() {
		ref, _ := base.Get(id)
		tr, ok := translation.Get(id)
		switch {
		case !ok:
			out = append(out, Mismatch{ID: id, Kind: Missing, File: file})
		case ref.TextLen() == 0 && tr.TextLen() > 0:
			out = append(out, Mismatch{ID: id, Kind: ShouldBeEmpty, File: file})
		case ref.TextLen() > 0 && tr.TextLen() == 0:
			out = append(out, Mismatch{ID: id, Kind: ShouldNotBeEmpty, File: file})
		}
	}
	return out
}
