package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sha1n/bugloc/internal/config"
	"github.com/sha1n/bugloc/internal/textsim"
)

// wordAnalyzer splits on whitespace so expectations do not depend on stemming.
type wordAnalyzer struct{}

func (wordAnalyzer) Terms(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func newWordAnalyzer() (textsim.Analyzer, error) {
	return wordAnalyzer{}, nil
}

const archiveHeader = "id\tbug_id\tsummary\tdescription\treport_time\treport_timestamp\tstatus\tcommit\tcommit_timestamp\tfiles\n"

// writeDataset lays out a small corpus and report archive under dir.
func writeDataset(t *testing.T, dir string) *config.Settings {
	t.Helper()

	files := map[string]string{
		"src/org/ui/Editor.java":   "package org.ui;\npublic class Editor { void save() { dialog.open(); } }\n",
		"src/org/ui/Dialog.java":   "package org.ui;\npublic class Dialog { void open() { layout(); } }\n",
		"src/org/net/Socket.java":  "package org.net;\npublic class Socket { void connect() { timeout(); } }\n",
		"src/org/net/Timeout.java": "package org.net;\npublic class Timeout { int millis; }\n",
		"README.md":                "# not java\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, "repo", rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	archive := archiveHeader +
		"1\t100\tEditor save\tsave crashes the editor\t2014-01-10 10:00:00\t\tresolved\tc1\t\tsrc/org/ui/Editor.java\n" +
		"2\t101\tSocket timeout\tconnect times out\t2014-02-10 10:00:00\t\tresolved\tc2\t\tsrc/org/net/Socket.java src/org/net/Timeout.java\n" +
		"3\t102\tEditor save again\tsave dialog crashes\t2014-04-10 10:00:00\t\tresolved\tc3\t\tsrc/org/ui/Editor.java\n" +
		"4\t103\tRemoved file\tgone\t2014-05-10 10:00:00\t\tresolved\tc4\t\tsrc/org/old/Gone.java\n"
	reportsPath := filepath.Join(dir, "reports.txt")
	if err := os.WriteFile(reportsPath, []byte(archive), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	output := filepath.Join(dir, "out", "features.csv")
	return &config.Settings{
		LogLevel: "error",
		Corpus: config.CorpusSettings{
			Dir:         filepath.Join(dir, "repo"),
			RepoDir:     filepath.Join(dir, "repo"),
			Languages:   []string{"Java"},
			MaxFileSize: 1024 * 1024,
		},
		Reports: config.ReportsSettings{
			Path:       reportsPath,
			Extensions: []string{".java"},
		},
		Extraction: config.ExtractionSettings{
			NegativeSamples: 2,
			Workers:         2,
			Output:          output,
			Manifest:        output + ".manifest.json",
			MetricsFile:     filepath.Join(dir, "out", "bugloc.prom"),
		},
		Evaluation: config.EvaluationSettings{
			Features:     output,
			Scorer:       config.ScorerRVSM,
			TestFraction: 0.5,
			Seed:         42,
			Epochs:       50,
			LearningRate: 0.1,
			Format:       config.FormatTable,
		},
		Serve: config.ServeSettings{MaxResults: 10},
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
