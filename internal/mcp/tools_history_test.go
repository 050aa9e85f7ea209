package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func testHistory() stubHistory {
	return stubHistory{
		"org/ui/Editor.java": {
			{ID: "1", BugID: "100", Summary: "Editor loses focus", ReportTime: time.Date(2014, 1, 5, 0, 0, 0, 0, time.UTC)},
			{ID: "2", BugID: "200", Summary: "Save fails", ReportTime: time.Date(2014, 3, 9, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func newTestHistoryHandler() *HistoryHandler {
	h := NewHistoryHandler(testHistory())
	h.now = func() time.Time { return time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC) }
	return h
}

func TestHistoryHandler_EmptyPath(t *testing.T) {
	result, _, err := newTestHistoryHandler().Handle(context.Background(), &mcp.CallToolRequest{}, HistoryArgument{})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for empty path")
	}
}

func TestHistoryHandler_InvalidBefore(t *testing.T) {
	result, _, err := newTestHistoryHandler().Handle(context.Background(), &mcp.CallToolRequest{},
		HistoryArgument{Path: "org/ui/Editor.java", Before: "last week"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for invalid time")
	}
}

func TestHistoryHandler_Defaults(t *testing.T) {
	result, _, err := newTestHistoryHandler().Handle(context.Background(), &mcp.CallToolRequest{},
		HistoryArgument{Path: "/org/ui/Editor.java"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	text := resultText(t, result)
	// March to June is three months: 1 / (3 + 1)
	for _, want := range []string{"frequency: 2", "recency: 0.25", "Most recent report: 2 (bug 200", "Editor loses focus"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
	if strings.Index(text, "Save fails") > strings.Index(text, "Editor loses focus") {
		t.Error("Expected most recent report listed first")
	}
}

func TestHistoryHandler_Before(t *testing.T) {
	tests := []struct {
		before string
		want   string
	}{
		{"2014-02-01", "frequency: 1"},
		{"2014-02-01 10:00:00", "frequency: 1"},
		{"2014-04-01T00:00:00Z", "frequency: 2"},
		{"2014-01-01", "No bug reports"},
	}

	for _, tt := range tests {
		t.Run(tt.before, func(t *testing.T) {
			result, _, err := newTestHistoryHandler().Handle(context.Background(), &mcp.CallToolRequest{},
				HistoryArgument{Path: "org/ui/Editor.java", Before: tt.before})
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("Expected %q in output:\n%s", tt.want, text)
			}
		})
	}
}

func TestHistoryHandler_UnknownFile(t *testing.T) {
	result, _, err := newTestHistoryHandler().Handle(context.Background(), &mcp.CallToolRequest{},
		HistoryArgument{Path: "Nope.java"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Error("Unknown file is not an error")
	}
	if !strings.Contains(resultText(t, result), "No bug reports") {
		t.Errorf("Unexpected output: %s", resultText(t, result))
	}
}

func TestHistoryHandler_GetToolDefinition(t *testing.T) {
	tool := NewHistoryHandler(stubHistory{}).GetToolDefinition()
	if tool.Name != "file_history" {
		t.Errorf("Expected tool name 'file_history', got '%s'", tool.Name)
	}
}

var _ HistoryLookup = stubHistory(nil)
