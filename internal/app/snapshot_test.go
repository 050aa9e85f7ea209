package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sha1n/bugloc/internal/corpus"
	"github.com/sha1n/bugloc/internal/reports"
)

func TestLoadSnapshot(t *testing.T) {
	settings := writeDataset(t, t.TempDir())
	mock := corpus.NewMockExecutor()
	mock.On("rev-parse --git-dir", []byte(".git\n"), nil)
	mock.On("rev-parse HEAD", []byte("abc123\n"), nil)

	snap, err := LoadSnapshot(context.Background(), settings, corpus.NewGitClientWithExecutor(mock))
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.Corpus.Len() != 4 {
		t.Errorf("Expected 4 corpus files, got %d", snap.Corpus.Len())
	}
	if len(snap.Reports) != 4 || snap.History.Len() != 4 {
		t.Errorf("Expected 4 reports, got %d", len(snap.Reports))
	}
	if snap.Commit != "abc123" {
		t.Errorf("Commit = %q, want abc123", snap.Commit)
	}
}

func TestLoadSnapshot_CheckoutCommit(t *testing.T) {
	settings := writeDataset(t, t.TempDir())
	settings.Corpus.Commit = "deadbeef"

	mock := corpus.NewMockExecutor()
	mock.On("rev-parse --git-dir", []byte(".git\n"), nil)
	mock.On("checkout", nil, nil)
	mock.On("rev-parse HEAD", []byte("deadbeef\n"), nil)

	snap, err := LoadSnapshot(context.Background(), settings, corpus.NewGitClientWithExecutor(mock))
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.Commit != "deadbeef" {
		t.Errorf("Commit = %q, want deadbeef", snap.Commit)
	}

	var checkedOut bool
	for _, c := range mock.Calls() {
		if len(c.Args) > 0 && c.Args[0] == "checkout" {
			checkedOut = true
			if c.Dir != settings.Corpus.RepoDir || c.Args[len(c.Args)-1] != "deadbeef" {
				t.Errorf("Unexpected checkout call: %+v", c)
			}
		}
	}
	if !checkedOut {
		t.Error("Expected a git checkout call")
	}
}

func TestLoadSnapshot_CheckoutFails(t *testing.T) {
	settings := writeDataset(t, t.TempDir())
	settings.Corpus.Commit = "deadbeef"

	mock := corpus.NewMockExecutor()
	mock.On("rev-parse --git-dir", []byte(".git\n"), nil)
	mock.On("checkout", nil, errors.New("unknown revision"))

	_, err := LoadSnapshot(context.Background(), settings, corpus.NewGitClientWithExecutor(mock))
	if err == nil || !strings.Contains(err.Error(), "failed to prepare checkout") {
		t.Errorf("Expected checkout error, got %v", err)
	}
}

func TestLoadSnapshot_ClonesMissingRepo(t *testing.T) {
	dir := t.TempDir()
	settings := writeDataset(t, dir)
	settings.Corpus.RepoDir = filepath.Join(dir, "clone")
	settings.Corpus.RepoURL = "https://example.com/repo.git"

	mock := corpus.NewMockExecutor()
	mock.On("rev-parse --git-dir", nil, errors.New("not a git repository"))
	mock.On("clone", nil, nil)
	mock.On("rev-parse HEAD", []byte("cafe\n"), nil)

	snap, err := LoadSnapshot(context.Background(), settings, corpus.NewGitClientWithExecutor(mock))
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.Commit != "cafe" {
		t.Errorf("Commit = %q, want cafe", snap.Commit)
	}
}

func TestLoadSnapshot_MissingArchive(t *testing.T) {
	settings := writeDataset(t, t.TempDir())
	settings.Reports.Path = filepath.Join(t.TempDir(), "missing.txt")

	_, err := LoadSnapshot(context.Background(), settings, corpus.NewGitClientWithExecutor(corpus.NewMockExecutor()))
	if err == nil || !strings.Contains(err.Error(), "failed to load report archive") {
		t.Errorf("Expected archive error, got %v", err)
	}
}

func TestLoadSnapshot_EmptyArchive(t *testing.T) {
	settings := writeDataset(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := writeFile(path, archiveHeader); err != nil {
		t.Fatal(err)
	}
	settings.Reports.Path = path

	_, err := LoadSnapshot(context.Background(), settings, corpus.NewGitClientWithExecutor(corpus.NewMockExecutor()))
	if !errors.Is(err, reports.ErrEmptyArchive) {
		t.Errorf("Expected ErrEmptyArchive, got %v", err)
	}
}
