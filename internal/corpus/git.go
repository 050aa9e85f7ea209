package corpus

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor abstracts command execution for testing.
type CommandExecutor interface {
	// Run executes a command and returns its standard output.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// DefaultExecutor executes commands using os/exec.
type DefaultExecutor struct{}

// Run executes a command and returns its standard output.
func (e *DefaultExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// GitClient prepares the working tree a corpus is loaded from.
type GitClient struct {
	executor CommandExecutor
}

// NewGitClient creates a new GitClient with the default command executor.
func NewGitClient() *GitClient {
	return &GitClient{
		executor: &DefaultExecutor{},
	}
}

// NewGitClientWithExecutor creates a GitClient with a custom executor (for testing).
func NewGitClientWithExecutor(executor CommandExecutor) *GitClient {
	return &GitClient{
		executor: executor,
	}
}

// Clone performs a full clone; fix commits anywhere in history must be
// reachable for checkout.
func (g *GitClient) Clone(ctx context.Context, url, destDir string) error {
	if _, err := g.executor.Run(ctx, "", "git", "clone", url, destDir); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

// Checkout moves the working tree to commit, discarding local changes.
func (g *GitClient) Checkout(ctx context.Context, repoDir, commit string) error {
	if _, err := g.executor.Run(ctx, repoDir, "git", "checkout", "--force", "--quiet", commit); err != nil {
		return fmt.Errorf("git checkout %s failed: %w", commit, err)
	}
	return nil
}

// HeadCommit returns the current HEAD commit SHA.
func (g *GitClient) HeadCommit(ctx context.Context, repoDir string) (string, error) {
	output, err := g.executor.Run(ctx, repoDir, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// IsGitRepository checks if the given directory is a git repository.
func (g *GitClient) IsGitRepository(ctx context.Context, dir string) bool {
	_, err := g.executor.Run(ctx, dir, "git", "rev-parse", "--git-dir")
	return err == nil
}

// Prepare makes repoDir a working tree at commit: it clones url when repoDir
// is not a repository yet and checks out commit when one is given. It returns
// the resulting HEAD.
func (g *GitClient) Prepare(ctx context.Context, url, repoDir, commit string) (string, error) {
	if !g.IsGitRepository(ctx, repoDir) {
		if url == "" {
			return "", fmt.Errorf("%s is not a git repository and no repository URL is configured", repoDir)
		}
		if err := g.Clone(ctx, url, repoDir); err != nil {
			return "", err
		}
	}
	if commit != "" {
		if err := g.Checkout(ctx, repoDir, commit); err != nil {
			return "", err
		}
	}
	return g.HeadCommit(ctx, repoDir)
}
