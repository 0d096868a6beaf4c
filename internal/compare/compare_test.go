package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msgscan/internal/parser"
)

func store(t *testing.T, recs map[uint32]string) *parser.Store {
	t.Helper()
	s := parser.NewStore()
	for id, text := range recs {
		require.NoError(t, s.Add(&parser.Record{ID: id, Text: []string{text}}))
	}
	return s
}

func TestCompare(t *testing.T) {
	base := store(t, map[uint32]string{
		1: "Hello",
		2: "",
		3: "Bye",
		4: "",
		5: "Same",
	})
	translation := store(t, map[uint32]string{
		2: "Cześć",
		3: "",
		4: "",
		5: "Inne",
		9: "extra ids are ignored",
	})

	got := Compare(base, translation, "polish/dlg.msg")

	assert.Equal(t, []Mismatch{
		{ID: 1, Kind: Missing, File: "polish/dlg.msg"},
		{ID: 2, Kind: ShouldBeEmpty, File: "polish/dlg.msg"},
		{ID: 3, Kind: ShouldNotBeEmpty, File: "polish/dlg.msg"},
	}, got)
	assert.Equal(t, "{2} should be empty [polish/dlg.msg]", got[1].String())
}

func TestCompare_MultilineEmptiness(t *testing.T) {
	base := parser.NewStore()
	require.NoError(t, base.Add(&parser.Record{ID: 1, Text: []string{"", ""}}))
	translation := parser.NewStore()
	require.NoError(t, translation.Add(&parser.Record{ID: 1, Text: []string{"", "x"}}))

	got := Compare(base, translation, "t.msg")
	require.Len(t, got, 1)
	assert.Equal(t, ShouldBeEmpty, got[0].Kind)
}

func TestCompare_Identical(t *testing.T) {
	s := store(t, map[uint32]string{1: "a", 2: ""})
	assert.Empty(t, Compare(s, s, "t.msg"))
}
