// Package locator provides a default tex.FileLocator: an ordered
// search path plus a per-suffix extension list, the same two-step
// "guess a format from the extension, then search directories for a
// match" shape kpathsea uses to resolve \input names against a TeX
// installation tree.
package locator

import (
	"os"
	"path/filepath"
)

// SearchPathLocator resolves a logical name by trying it verbatim,
// then with each of Extensions appended, in each of Dirs in order —
// grounded on
// original_source/kpathsea/src/lib.rs's Kpaths.find_file/
// guess_format_from_filename (guess a format from the filename's
// suffix, then search kpathsea's configured tree for the first
// matching readable file). This package has no access to a real
// kpathsea install or TeX distribution tree, so Dirs/Extensions are
// supplied by the embedder instead of being auto-discovered from
// environment variables the way kpsewhich would.
type SearchPathLocator struct {
	Dirs       []string
	Extensions []string
}

// NewSearchPathLocator returns a locator over dirs with the
// conventional plain-TeX input extensions, the default
// guess_format_from_filename would pick for a name with no suffix of
// its own.
func NewSearchPathLocator(dirs ...string) *SearchPathLocator {
	return &SearchPathLocator{
		Dirs:       dirs,
		Extensions: []string{"", ".tex", ".sty", ".cls", ".cfg", ".def"},
	}
}

// Resolve implements tex.FileLocator. cwd, if non-empty, is tried
// first (ahead of Dirs), matching kpathsea's "look next to the
// current file before the search path" convention.
func (l *SearchPathLocator) Resolve(logicalName, cwd string) (string, bool) {
	if filepath.IsAbs(logicalName) {
		if fileReadable(logicalName) {
			return logicalName, true
		}
		return "", false
	}
	dirs := l.Dirs
	if cwd != "" {
		dirs = append([]string{cwd}, dirs...)
	}
	for _, dir := range dirs {
		for _, ext := range l.Extensions {
			candidate := filepath.Join(dir, logicalName+ext)
			if fileReadable(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func fileReadable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
