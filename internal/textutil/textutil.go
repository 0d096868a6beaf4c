package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Hash computes a SHA-256 hex hash of b.
func Hash(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// Truncate shortens s to at most maxLen runes. Longer strings keep
// maxLen-3 runes followed by "...".
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	keep := maxLen - 3
	if keep < 0 {
		keep = 0
	}
	return string(r[:keep]) + "..."
}

// IsWordRune reports whether r belongs to a word: letters, digits, marks,
// connector punctuation such as '_'.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || unicode.Is(unicode.Pc, r)
}

// TrimBlank strips spaces, tabs and carriage returns from both ends.
func TrimBlank(s string) string {
	return strings.Trim(s, " \t\r")
}

// Normalize replaces tabs with single spaces and drops carriage returns.
func Normalize(s string) string {
	if !strings.ContainsAny(s, "\t\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\r", "")
}
