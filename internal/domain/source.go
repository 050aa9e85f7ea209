package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// SourceFile is a single file of a repository snapshot.
type SourceFile struct {
	// Path is the normalized, slash separated path relative to the corpus root.
	// Example: "org.eclipse.ui/src/org/eclipse/ui/Foo.java"
	Path string `json:"path"`

	// Text is the raw file content.
	Text string `json:"text"`
}

// Extension returns the file extension without the leading dot.
func (f SourceFile) Extension() string {
	return strings.TrimPrefix(path.Ext(f.Path), ".")
}

// NormalizePath converts a file path to the key format used by the corpus
// and the report archive: forward slashes, cleaned, no leading "./" or "/".
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}
