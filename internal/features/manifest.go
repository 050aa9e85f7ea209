package features

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestVersion is the current run manifest schema version.
const ManifestVersion = 1

// ManifestSuffix is appended to the table path when no manifest path is
// configured.
const ManifestSuffix = ".manifest.json"

// RunManifest describes one extraction run.
type RunManifest struct {
	Version         int       `json:"version"`
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Dataset         string    `json:"dataset,omitempty"`
	CorpusDir       string    `json:"corpus_dir"`
	Commit          string    `json:"commit,omitempty"`
	ReportsPath     string    `json:"reports_path"`
	Output          string    `json:"output"`
	NegativeSamples int       `json:"negative_samples"`
	Workers         int       `json:"workers"`
	CorpusFiles     int       `json:"corpus_files"`
	Summary         Summary   `json:"summary"`
	Failures        []Failure `json:"failures,omitempty"`
}

// NewRunManifest starts a manifest with a fresh run id.
func NewRunManifest(startedAt time.Time) *RunManifest {
	return &RunManifest{
		Version:   ManifestVersion,
		RunID:     uuid.NewString(),
		StartedAt: startedAt.UTC(),
	}
}

// ManifestPath returns the default manifest location for a table.
func ManifestPath(tablePath string) string {
	return tablePath + ManifestSuffix
}

// LoadRunManifest reads a manifest from disk.
func LoadRunManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest atomically.
func (m *RunManifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename manifest file: %w", err)
	}
	return nil
}
