package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLine_Kinds(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		continuation bool
		want         lineKind
	}{
		{"single line record", "{1}{snd}{text}", false, lineRecord},
		{"multiline start", "{1}{snd}{text", false, lineOpen},
		{"empty", "", false, lineIgnored},
		{"blank", "   ", false, lineIgnored},
		{"comment", "  # header", false, lineIgnored},
		{"garbage", "hello", false, lineInvalid},
		{"two fields only", "{1}{2}", false, lineInvalid},
		{"continuation text", "more text", true, lineContinue},
		{"continuation comment is text", "# still text", true, lineContinue},
		{"continuation blank is text", "", true, lineContinue},
		{"continuation close", "end}", true, lineClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := matchLine([]rune(tt.line), tt.continuation)
			assert.Equal(t, tt.want, m.kind)
		})
	}
}

func TestMatchLine_Fields(t *testing.T) {
	line := []rune(" {12} {snd} {hello} # c")
	m := matchLine(line, false)

	assert.Equal(t, lineRecord, m.kind)
	assert.Equal(t, " ", m.pre.in(line))
	assert.Equal(t, "12", m.id.in(line))
	assert.Equal(t, 2, m.id.start)
	assert.Equal(t, " ", m.mid1.in(line))
	assert.Equal(t, "snd", m.sound.in(line))
	assert.Equal(t, 7, m.sound.start)
	assert.Equal(t, " ", m.mid2.in(line))
	assert.Equal(t, "hello", m.text.in(line))
	assert.Equal(t, 13, m.text.start)
	assert.Equal(t, " # c", m.post.in(line))
	assert.Equal(t, []int{1, 4, 6, 10, 12, 18}, m.braces)
}

func TestLocateBraces_BacktrackingSplit(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		shape string
		want  []int
	}{
		// greedy text swallows the inner closing brace
		{"extra closing brace in text", "{1}{}{te}xt}", "{}{}{}", []int{0, 2, 3, 4, 5, 11}},
		// greedy id spans into what looks like the sound field
		{"four fields", "{1}{}{a}{b}", "{}{}{}", []int{0, 4, 5, 7, 8, 10}},
		{"opening brace in id", "{1{}{}{t}", "{}{}{}", []int{0, 3, 4, 5, 6, 8}},
		{"open shape", "{1}{s}{abc", "{}{}{", []int{0, 2, 3, 5, 6}},
		{"open shape ignores trailing close", "{1}{s}{a}", "{}{}{", []int{0, 2, 3, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := locateBraces([]rune(tt.line), []rune(tt.shape))
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocateBraces_NoMatch(t *testing.T) {
	_, ok := locateBraces([]rune("{1}{s}{abc"), closedShape)
	assert.False(t, ok)

	_, ok = locateBraces([]rune("}{}{}{"), closedShape)
	assert.False(t, ok)
}

func TestMatchContinuation_LastBraceCloses(t *testing.T) {
	line := []rune("a}b} tail")
	m := matchLine(line, true)

	assert.Equal(t, lineClose, m.kind)
	assert.Equal(t, "a}b", m.text.in(line))
	assert.Equal(t, " tail", m.post.in(line))
	assert.Equal(t, []int{3}, m.braces)
}
