package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sha1n/bugloc/internal/config"
	"github.com/sha1n/bugloc/internal/corpus"
	"github.com/sha1n/bugloc/internal/domain"
	"github.com/sha1n/bugloc/internal/reports"
)

// Snapshot is a loaded corpus and report archive.
type Snapshot struct {
	Corpus  *corpus.Index
	Reports []*domain.BugReport
	History *reports.History
	Commit  string
}

// SnapshotLoader loads the corpus and report archive for the settings.
type SnapshotLoader func(ctx context.Context, settings *config.Settings) (*Snapshot, error)

// NewSnapshotLoader returns a loader that prepares the checkout with git.
func NewSnapshotLoader(git *corpus.GitClient) SnapshotLoader {
	return func(ctx context.Context, settings *config.Settings) (*Snapshot, error) {
		return LoadSnapshot(ctx, settings, git)
	}
}

// LoadSnapshot prepares the checkout, then loads the corpus and the report
// archive. Any failure here aborts the run before extraction starts.
func LoadSnapshot(ctx context.Context, settings *config.Settings, git *corpus.GitClient) (*Snapshot, error) {
	commit, err := prepareCheckout(ctx, &settings.Corpus, git)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare checkout: %w", err)
	}

	loader := corpus.NewLoader(corpus.NewFileFilter(settings.Corpus.MaxFileSize), settings.Corpus.Languages)
	idx, stats, err := loader.Load(settings.Corpus.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	slog.Info("Corpus loaded",
		"dir", settings.Corpus.Dir,
		"files", humanize.Comma(int64(stats.Files)),
		"excluded", stats.Excluded,
		"vendored", stats.Vendored,
		"too_large", stats.TooLarge,
		"binary", stats.Binary,
		"other_language", stats.OtherLanguage,
		"unreadable", stats.Unreadable)

	list, archiveStats, err := reports.LoadArchive(settings.Reports.Path, reports.ArchiveOptions{
		PathPrefix: settings.Reports.PathPrefix,
		Extensions: settings.Reports.Extensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load report archive: %w", err)
	}
	slog.Info("Report archive loaded",
		"path", settings.Reports.Path,
		"reports", humanize.Comma(int64(archiveStats.Reports)),
		"malformed", archiveStats.Malformed,
		"duplicates", archiveStats.Duplicates)

	return &Snapshot{
		Corpus:  idx,
		Reports: list,
		History: reports.NewHistory(list),
		Commit:  commit,
	}, nil
}

// prepareCheckout clones or checks out the repository when asked to and
// returns the HEAD commit when the corpus lives in a git checkout.
func prepareCheckout(ctx context.Context, c *config.CorpusSettings, git *corpus.GitClient) (string, error) {
	_, statErr := os.Stat(c.RepoDir)
	needsClone := os.IsNotExist(statErr) && c.RepoURL != ""

	if c.Commit != "" || needsClone {
		slog.Info("Preparing checkout", "dir", c.RepoDir, "url", c.RepoURL, "commit", c.Commit)
		return git.Prepare(ctx, c.RepoURL, c.RepoDir, c.Commit)
	}

	if statErr == nil && git.IsGitRepository(ctx, c.RepoDir) {
		head, err := git.HeadCommit(ctx, c.RepoDir)
		if err != nil {
			slog.Warn("Failed to read HEAD commit", "dir", c.RepoDir, "error", err)
			return "", nil
		}
		return head, nil
	}
	return "", nil
}
