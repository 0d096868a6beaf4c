package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 15, "short"},
		{"exactly fifteen", 15, "exactly fifteen"},
		{"this one is too long", 15, "this one is ..."},
		{"zażółć gęślą jaźń", 10, "zażółć ..."},
		{"abcdef", 2, "..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.max), tt.in)
	}
}

func TestIsWordRune(t *testing.T) {
	for _, r := range "aZ09_ąß" {
		assert.True(t, IsWordRune(r), string(r))
	}
	for _, r := range " .,-'!{" {
		assert.False(t, IsWordRune(r), string(r))
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, " a b", Normalize("\ta\tb\r"))
	assert.Equal(t, "plain", Normalize("plain"))
}

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(nil))
}
