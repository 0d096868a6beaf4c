package parser

import (
	"regexp"
	"strconv"
	"strings"

	"msgscan/internal/textutil"
)

const multilineSuffix = " (multiline)"

// lineError describes the first failing check on a line.
type lineError struct {
	status  Status
	column  int
	message string
}

func failAt(status Status, column int, message string, multi bool) *lineError {
	if multi {
		message += multilineSuffix
	}
	return &lineError{status: status, column: column, message: message}
}

// checkBrackets blanks the canonical braces and rejects any brace left over.
func checkBrackets(line []rune, m lineMatch, multi bool) *lineError {
	stripped := make([]rune, len(line))
	copy(stripped, line)
	for _, pos := range m.braces {
		stripped[pos] = ' '
	}
	for i, r := range stripped {
		if r == '{' || r == '}' {
			return failAt(StatusExtraBracket, i, "bracket not allowed here", multi)
		}
	}
	return nil
}

// gap is free text outside the canonical fields.
type gap struct {
	span  span
	where string
	outer bool
}

func (m lineMatch) gaps() []gap {
	switch m.kind {
	case lineRecord:
		return []gap{
			{m.pre, "before", true},
			{m.mid1, "between", false},
			{m.mid2, "between", false},
			{m.post, "after", true},
		}
	case lineOpen:
		return []gap{
			{m.pre, "before", true},
			{m.mid1, "between", false},
			{m.mid2, "between", false},
		}
	case lineClose:
		return []gap{{m.post, "after", true}}
	}
	return nil
}

var gapStatus = map[string]Status{
	"before":  StatusTextBeforeBracket,
	"between": StatusTextBetweenBracket,
	"after":   StatusTextAfterBracket,
}

// checkGaps allows blank gaps and, on the outermost gaps, comments.
func checkGaps(line []rune, m lineMatch, relaxed, multi bool) *lineError {
	for _, g := range m.gaps() {
		if g.span.len() == 0 {
			continue
		}
		trimmed := textutil.TrimBlank(g.span.in(line))
		if trimmed == "" || (g.outer && allowedComment(trimmed, relaxed)) {
			continue
		}
		return failAt(gapStatus[g.where], g.span.start, "text "+g.where+" brackets", multi)
	}
	return nil
}

func allowedComment(trimmed string, relaxed bool) bool {
	if strings.HasPrefix(trimmed, "#") {
		return true
	}
	return relaxed && (strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "//"))
}

// checkTextLen rejects text that pushes the record past maxLen. The caret
// lands where the overflow begins.
func checkTextLen(text span, prevLen, maxLen int, multi bool) *lineError {
	if prevLen+text.len() <= maxLen {
		return nil
	}
	return failAt(StatusTextTooLong, text.start+maxLen-prevLen, "text too long", multi)
}

// checkWordLen rejects any run of word characters longer than maxWord.
func checkWordLen(line []rune, text span, maxWord int, multi bool) *lineError {
	if text.len() <= maxWord {
		return nil
	}
	run := 0
	for i := text.start; i < text.end; i++ {
		if !textutil.IsWordRune(line[i]) {
			run = 0
			continue
		}
		run++
		if run > maxWord {
			start := i - run + 1
			return failAt(StatusTextTooLong, start+maxWord, "word too long", multi)
		}
	}
	return nil
}

var idPattern = regexp.MustCompile(`^[0-9]+$`)

// parseID accepts a plain decimal literal that fits in 32 bits.
func parseID(s string) (uint32, bool) {
	if !idPattern.MatchString(s) {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}
