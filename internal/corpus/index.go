package corpus

import (
	"errors"
	"slices"

	"github.com/sha1n/bugloc/internal/domain"
)

// ErrEmptyCorpus indicates no source file survived loading.
var ErrEmptyCorpus = errors.New("corpus contains no source files")

// Index holds the source files of one repository snapshot keyed by
// normalized path. It is never mutated after construction; a new checkout
// gets a new Index.
type Index struct {
	files map[string]domain.SourceFile
	paths []string
}

// NewIndex builds an index from files. Paths are normalized; on duplicate
// paths the first file wins.
func NewIndex(files []domain.SourceFile) *Index {
	idx := &Index{
		files: make(map[string]domain.SourceFile, len(files)),
		paths: make([]string, 0, len(files)),
	}
	for _, f := range files {
		f.Path = domain.NormalizePath(f.Path)
		if f.Path == "" {
			continue
		}
		if _, ok := idx.files[f.Path]; ok {
			continue
		}
		idx.files[f.Path] = f
		idx.paths = append(idx.paths, f.Path)
	}
	slices.Sort(idx.paths)
	return idx
}

// Get returns the file at the normalized path.
func (i *Index) Get(path string) (domain.SourceFile, bool) {
	f, ok := i.files[path]
	return f, ok
}

// Contains reports whether the snapshot has a file at path.
func (i *Index) Contains(path string) bool {
	_, ok := i.files[path]
	return ok
}

// Paths returns all paths in ascending order. Callers must not modify it.
func (i *Index) Paths() []string {
	return i.paths
}

// Texts returns the file texts in Paths order.
func (i *Index) Texts() []string {
	texts := make([]string, len(i.paths))
	for n, p := range i.paths {
		texts[n] = i.files[p].Text
	}
	return texts
}

// Len returns the number of files.
func (i *Index) Len() int {
	return len(i.paths)
}
