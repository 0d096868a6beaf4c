package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("{1}{}{x}\n"), 0644))
	}
}

func rels(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Rel
	}
	return out
}

func TestWalk_DefaultInclude(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "text/english/dialog/zz.msg", "text/english/game/a.msg", "b.MSG", "readme.txt", "data/x.msg.bak")

	w, err := NewWalker(nil, nil)
	require.NoError(t, err)

	entries, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.MSG", "text/english/dialog/zz.msg", "text/english/game/a.msg"}, rels(entries))
	assert.Equal(t, filepath.ToSlash(filepath.Join(root, "b.MSG")), entries[0].Path)
}

func TestWalk_IncludeExclude(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "english/a.msg", "english/cuts/b.msg", "german/a.msg")

	w, err := NewWalker([]string{"english/**/*.msg"}, []string{"**/cuts/**"})
	require.NoError(t, err)

	entries, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"english/a.msg"}, rels(entries))
}

func TestWalk_Errors(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.msg")

	w, err := NewWalker(nil, nil)
	require.NoError(t, err)

	_, err = w.Walk(filepath.Join(root, "missing"))
	assert.Error(t, err)

	_, err = w.Walk(filepath.Join(root, "a.msg"))
	assert.ErrorContains(t, err, "not a directory")

	_, err = NewWalker([]string{"[unclosed"}, nil)
	assert.Error(t, err)
}

func TestPair(t *testing.T) {
	base := t.TempDir()
	trans := t.TempDir()
	touch(t, base, "dialog/a.msg", "game/b.msg")
	touch(t, trans, "dialog/a.msg")

	w, err := NewWalker(nil, nil)
	require.NoError(t, err)

	pairs, err := w.Pair(base, trans)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "dialog/a.msg", pairs[0].Translation.Rel)
	assert.Equal(t, filepath.ToSlash(filepath.Join(trans, "game", "b.msg")), pairs[1].Translation.Path)

	_, err = w.Pair(base, filepath.Join(trans, "nope"))
	assert.Error(t, err)
}
