package mcp

import (
	"testing"
	"time"

	"github.com/sha1n/bugloc/internal/domain"
	"github.com/sha1n/bugloc/internal/features"
)

type stubRanker struct {
	candidates []features.Candidate
	lastLimit  int
	lastText   string
}

func (s *stubRanker) Rank(reportText string, limit int) []features.Candidate {
	s.lastText = reportText
	s.lastLimit = limit
	if limit < len(s.candidates) {
		return s.candidates[:limit]
	}
	return s.candidates
}

type stubHistory map[string][]*domain.BugReport

func (s stubHistory) Before(path string, asOf time.Time) []*domain.BugReport {
	var out []*domain.BugReport
	for _, r := range s[path] {
		if r.ReportTime.Before(asOf) {
			out = append(out, r)
		}
	}
	return out
}

func TestCreateServer(t *testing.T) {
	cfg := ServerConfig{
		Name:    "test-server",
		Version: "1.0.0",
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created")
	}
}

func TestCreateServer_EmptyConfig(t *testing.T) {
	server := CreateServer(ServerConfig{})
	if server == nil {
		t.Fatal("Expected server to be created even with empty config")
	}
}

func TestCreateServer_WithTools(t *testing.T) {
	cfg := ServerConfig{
		Name:       "bugloc",
		Version:    "2.0.0",
		Ranker:     &stubRanker{},
		History:    stubHistory{},
		Files:      testFiles(),
		MaxResults: 5,
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created with tools")
	}
}
