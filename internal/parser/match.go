package parser

import (
	"strings"

	"msgscan/internal/textutil"
)

// lineKind is the classification of one physical line.
type lineKind int

const (
	lineIgnored  lineKind = iota // blank or '#' comment outside a record
	lineInvalid                  // matches no record shape
	lineRecord                   // {id}{sound}{text} on one line
	lineOpen                     // {id}{sound}{text... continued on later lines
	lineContinue                 // text line inside an open record, no closing brace
	lineClose                    // text...} closing an open record
)

// span is a half-open rune range [start, end) within a line.
type span struct {
	start, end int
}

func (s span) len() int { return s.end - s.start }

func (s span) in(line []rune) string { return string(line[s.start:s.end]) }

// lineMatch holds the field layout of a matched line. Only the spans that
// apply to kind are set.
type lineMatch struct {
	kind  lineKind
	pre   span
	id    span
	mid1  span
	sound span
	mid2  span
	text  span
	post  span
	// braces lists the rune offsets of the canonical braces.
	braces []int
}

var (
	closedShape = []rune("{}{}{}")
	openShape   = []rune("{}{}{")
)

// matchLine classifies line. With continuation set, the line belongs to an
// open record and comments are not recognised.
func matchLine(line []rune, continuation bool) lineMatch {
	if continuation {
		return matchContinuation(line)
	}
	if braces, ok := locateBraces(line, closedShape); ok {
		return recordMatch(lineRecord, line, braces)
	}
	if braces, ok := locateBraces(line, openShape); ok {
		return recordMatch(lineOpen, line, braces)
	}
	trimmed := textutil.TrimBlank(string(line))
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return lineMatch{kind: lineIgnored}
	}
	return lineMatch{kind: lineInvalid}
}

func matchContinuation(line []rune) lineMatch {
	closing := lastIndex(line, '}', len(line))
	if closing < 0 {
		return lineMatch{
			kind: lineContinue,
			text: span{0, len(line)},
		}
	}
	return lineMatch{
		kind:   lineClose,
		text:   span{0, closing},
		post:   span{closing + 1, len(line)},
		braces: []int{closing},
	}
}

func recordMatch(kind lineKind, line []rune, b []int) lineMatch {
	m := lineMatch{
		kind:   kind,
		pre:    span{0, b[0]},
		id:     span{b[0] + 1, b[1]},
		mid1:   span{b[1] + 1, b[2]},
		sound:  span{b[2] + 1, b[3]},
		mid2:   span{b[3] + 1, b[4]},
		braces: b,
	}
	if kind == lineRecord {
		m.text = span{b[4] + 1, b[5]}
		m.post = span{b[5] + 1, len(line)}
	} else {
		m.text = span{b[4] + 1, len(line)}
	}
	return m
}

// locateBraces finds the canonical brace positions for shape, choosing the
// same split a left-to-right backtracking match would: every gap before an
// opening brace is as short as possible and every field before a closing
// brace is as long as possible.
//
// For each shape position k, latest[k] is the rightmost offset that brace k
// can take while the rest of the shape still fits after it. A shape matches
// iff latest[0] exists. Opening braces then take the first '{' after the
// previous brace; closing braces take latest[k].
func locateBraces(line []rune, shape []rune) ([]int, bool) {
	n := len(shape)
	latest := make([]int, n)
	limit := len(line)
	for k := n - 1; k >= 0; k-- {
		latest[k] = lastIndex(line, shape[k], limit)
		if latest[k] < 0 {
			return nil, false
		}
		limit = latest[k]
	}

	braces := make([]int, n)
	prev := -1
	for k, ch := range shape {
		if ch == '{' {
			braces[k] = firstIndex(line, '{', prev+1)
		} else {
			braces[k] = latest[k]
		}
		prev = braces[k]
	}
	return braces, true
}

// lastIndex returns the last offset < before holding ch, or -1.
func lastIndex(line []rune, ch rune, before int) int {
	for i := before - 1; i >= 0; i-- {
		if line[i] == ch {
			return i
		}
	}
	return -1
}

// firstIndex returns the first offset >= from holding ch, or -1.
func firstIndex(line []rune, ch rune, from int) int {
	for i := from; i < len(line); i++ {
		if line[i] == ch {
			return i
		}
	}
	return -1
}
