package tex

import "path/filepath"

// VirtualFile is a named byte buffer the Mouth stack can read from.
// Two VirtualFiles sharing an ID are required to return identical
// contents within one interpreter run (spec §3).
type VirtualFile struct {
	ID       string
	Contents []byte
}

// FileStore caches VirtualFiles by canonicalized key, with in-memory
// overlays an embedder can install ahead of any real read (e.g. to
// feed \input a buffer that was never written to disk). It has no
// on-disk format of its own; it exists only for the lifetime of one
// interpreter run (spec §6).
type FileStore struct {
	files map[string]*VirtualFile
}

// NewFileStore returns an empty store.
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]*VirtualFile)}
}

// Canonicalize normalizes a logical file key so that "./a" and "a"
// hit the same cache entry.
func (fs *FileStore) Canonicalize(key string) string {
	return filepath.Clean(key)
}

// Get returns the cached VirtualFile for key, if any.
func (fs *FileStore) Get(key string) (*VirtualFile, bool) {
	vf, ok := fs.files[fs.Canonicalize(key)]
	return vf, ok
}

// Overlay installs (or replaces) a VirtualFile's contents directly,
// bypassing any FileLocator resolution. Used by embedders (cmd/texdump
// installs its input file this way).
func (fs *FileStore) Overlay(key string, contents []byte) *VirtualFile {
	k := fs.Canonicalize(key)
	vf := &VirtualFile{ID: k, Contents: contents}
	fs.files[k] = vf
	return vf
}

// LoadFromLocator resolves key via loc and fills the cache from the
// byte-reading function read, caching the result under key so
// subsequent lookups are stable even if the underlying file changes.
func (fs *FileStore) LoadFromLocator(key string, loc FileLocator, read func(absPath string) ([]byte, error)) (*VirtualFile, error) {
	k := fs.Canonicalize(key)
	if vf, ok := fs.files[k]; ok {
		return vf, nil
	}
	abs, ok := loc.Resolve(key, "")
	if !ok {
		return nil, newErr(FileNotFound, SourceReference{}, "cannot locate %q", key)
	}
	data, err := read(abs)
	if err != nil {
		return nil, wrapErr(FileNotFound, SourceReference{}, err, "cannot read %q", abs)
	}
	vf := &VirtualFile{ID: k, Contents: data}
	fs.files[k] = vf
	return vf, nil
}

// FileLocator is the collaborator contract from spec §6: it maps a
// logical name (as used by \input-like primitives) to an absolute
// path the embedder is responsible for being able to read. The core
// never shells out to resolve a name itself.
type FileLocator interface {
	Resolve(logicalName, cwd string) (absPath string, ok bool)
}
