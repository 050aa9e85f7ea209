package corpus

import (
	"path"
	"strings"
)

// DefaultExcludePatterns skip dependency trees, build outputs and generated
// sources that never appear in a fixing commit.
var DefaultExcludePatterns = []string{
	// Dependencies and build outputs
	"node_modules/**", "vendor/**", "target/**", "build/**", "bin/**",
	"out/**", "dist/**", ".gradle/**", ".m2/**", ".idea/**", ".settings/**",

	// Generated sources
	"*.min.js", "*.pb.go", "*_pb2.py",

	// Archives and compiled artifacts
	"*.jar", "*.war", "*.ear", "*.zip", "*.class", "*.pyc", "*.o", "*.so",
}

// FileFilter decides which working tree files belong in the corpus.
type FileFilter struct {
	patterns    []string
	maxFileSize int64
}

// NewFileFilter creates a FileFilter with the default exclusion patterns.
func NewFileFilter(maxFileSize int64) *FileFilter {
	return NewFileFilterWithPatterns(DefaultExcludePatterns, maxFileSize)
}

// NewFileFilterWithPatterns creates a FileFilter with custom patterns.
// A pattern ending in "/**" excludes a directory name at any depth; any other
// pattern is matched against the base name.
func NewFileFilterWithPatterns(patterns []string, maxFileSize int64) *FileFilter {
	return &FileFilter{
		patterns:    patterns,
		maxFileSize: maxFileSize,
	}
}

// ShouldExclude reports whether a slash separated path relative to the
// corpus root matches an exclusion pattern.
func (f *FileFilter) ShouldExclude(relPath string) bool {
	segments := strings.Split(relPath, "/")
	base := segments[len(segments)-1]

	for _, pattern := range f.patterns {
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			for _, segment := range segments[:len(segments)-1] {
				if segment == dir {
					return true
				}
			}
			continue
		}
		if matched, _ := path.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// TooLarge reports whether a file of the given size exceeds the limit.
// A non-positive limit disables the check.
func (f *FileFilter) TooLarge(size int64) bool {
	return f.maxFileSize > 0 && size > f.maxFileSize
}

// IsBinary reports whether content looks binary: a NUL byte in the first
// 512 bytes, the same heuristic git uses.
func IsBinary(content []byte) bool {
	checkLen := min(len(content), 512)
	for i := range checkLen {
		if content[i] == 0 {
			return true
		}
	}
	return false
}
