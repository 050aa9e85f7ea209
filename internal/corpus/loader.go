package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sha1n/bugloc/internal/domain"
	"github.com/src-d/enry/v2"
)

// LoadStats counts what the loader kept and skipped.
type LoadStats struct {
	Files         int
	Excluded      int
	Vendored      int
	TooLarge      int
	Binary        int
	OtherLanguage int
	Unreadable    int
}

// Loader reads a checked-out working tree into an Index.
type Loader struct {
	filter    *FileFilter
	languages map[string]struct{}
}

// NewLoader creates a loader that keeps files whose detected language is one
// of languages (case insensitive). An empty list keeps every text file.
func NewLoader(filter *FileFilter, languages []string) *Loader {
	set := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		if l = strings.TrimSpace(l); l != "" {
			set[strings.ToLower(l)] = struct{}{}
		}
	}
	return &Loader{
		filter:    filter,
		languages: set,
	}
}

// Load walks root and returns the corpus snapshot.
// Individual unreadable files are skipped; an unreadable root or an empty
// result is an error.
func (l *Loader) Load(root string) (*Index, LoadStats, error) {
	var stats LoadStats

	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to stat corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("corpus root %s is not a directory", root)
	}

	var files []domain.SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			stats.Unreadable++
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		if l.filter.ShouldExclude(relPath) {
			stats.Excluded++
			return nil
		}
		if enry.IsVendor(relPath) {
			stats.Vendored++
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			stats.Unreadable++
			return nil
		}
		if l.filter.TooLarge(fi.Size()) {
			stats.TooLarge++
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			stats.Unreadable++
			return nil
		}
		if IsBinary(content) {
			stats.Binary++
			return nil
		}
		if !l.keepLanguage(d.Name(), content) {
			stats.OtherLanguage++
			return nil
		}

		files = append(files, domain.SourceFile{
			Path: domain.NormalizePath(relPath),
			Text: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to walk corpus root: %w", err)
	}

	index := NewIndex(files)
	stats.Files = index.Len()
	if index.Len() == 0 {
		return nil, stats, ErrEmptyCorpus
	}

	slog.Debug("Corpus loaded", "root", root, "files", stats.Files, "excluded", stats.Excluded,
		"other_language", stats.OtherLanguage)
	return index, stats, nil
}

func (l *Loader) keepLanguage(name string, content []byte) bool {
	if len(l.languages) == 0 {
		return true
	}
	_, ok := l.languages[strings.ToLower(enry.GetLanguage(name, content))]
	return ok
}
