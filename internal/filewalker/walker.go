package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// DefaultInclude matches message files at any depth.
var DefaultInclude = []string{"**/*.msg", "**/*.MSG"}

// Walker discovers message files below a root directory.
type Walker struct {
	include []string
	exclude []string
}

// NewWalker creates a Walker. Patterns are doublestar globs matched against
// slash-separated paths relative to the walked root. An empty include list
// falls back to DefaultInclude.
func NewWalker(include, exclude []string) (*Walker, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &Walker{include: include, exclude: exclude}, nil
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	// Path is the root-joined path, as passed on to the loader.
	Path string
	// Rel is the slash-separated path relative to the walked root.
	Rel string
}

// Walk returns every matching file under root, sorted by relative path.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !w.Match(rel) {
			return nil
		}

		entries = append(entries, FileEntry{
			Path: displayPath(path),
			Rel:  rel,
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Rel < entries[j].Rel })

	log.Debug().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// Match reports whether a slash-separated relative path is selected.
func (w *Walker) Match(rel string) bool {
	return matchAny(w.include, rel) && !matchAny(w.exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Pair links a reference file to the file at the same relative path under
// another root.
type Pair struct {
	Base        FileEntry
	Translation FileEntry
}

// Pair walks baseRoot and maps every file to its counterpart under
// translationRoot. The counterpart may not exist; the loader reports that.
func (w *Walker) Pair(baseRoot, translationRoot string) ([]Pair, error) {
	base, err := w.Walk(baseRoot)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(translationRoot); err != nil {
		return nil, fmt.Errorf("stat translation root: %w", err)
	}

	pairs := make([]Pair, 0, len(base))
	for _, b := range base {
		pairs = append(pairs, Pair{
			Base: b,
			Translation: FileEntry{
				Path: displayPath(filepath.Join(translationRoot, filepath.FromSlash(b.Rel))),
				Rel:  b.Rel,
			},
		})
	}
	return pairs, nil
}

// displayPath cleans p and drops a leading "./".
func displayPath(p string) string {
	p = filepath.ToSlash(filepath.Clean(p))
	return strings.TrimPrefix(p, "./")
}
