package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/bugloc/internal/domain"
	"github.com/sha1n/bugloc/internal/reports"
)

// HistoryLookup returns prior fixing reports of a file.
type HistoryLookup interface {
	Before(path string, asOf time.Time) []*domain.BugReport
}

// HistoryArgument defines file_history parameters.
type HistoryArgument struct {
	Path   string `json:"path" jsonschema_description:"Source file path relative to the corpus root"`
	Before string `json:"before,omitempty" jsonschema_description:"Only count reports filed before this time (RFC 3339 or YYYY-MM-DD); defaults to now"`
}

// HistoryHandler handles the file_history MCP tool.
type HistoryHandler struct {
	history HistoryLookup
	now     func() time.Time
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history HistoryLookup) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		now:     time.Now,
	}
}

// Handle reports the bug fixing frequency and recency of a file.
func (h *HistoryHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args HistoryArgument) (*mcp.CallToolResult, any, error) {
	path := domain.NormalizePath(args.Path)
	if path == "" {
		return errorResult("Path cannot be empty"), nil, nil
	}

	asOf := h.now().UTC()
	if args.Before != "" {
		t, err := parseBefore(args.Before)
		if err != nil {
			return errorResult(fmt.Sprintf("Invalid before time %q: %s", args.Before, err)), nil, nil
		}
		asOf = t
	}

	prior := h.history.Before(path, asOf)
	if len(prior) == 0 {
		return textResult(fmt.Sprintf("No bug reports fixed %s before %s", path, asOf.Format(time.DateOnly))), nil, nil
	}

	last := prior[len(prior)-1]
	recency := reports.Recency(&domain.BugReport{ReportTime: asOf}, last)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", path))
	sb.WriteString(fmt.Sprintf("Bug fixing frequency: %d\n", len(prior)))
	sb.WriteString(fmt.Sprintf("Bug fixing recency: %s\n", recency))
	sb.WriteString(fmt.Sprintf("Most recent report: %s (bug %s, %s)\n\n", last.ID, last.BugID, last.ReportTime.Format(time.DateOnly)))
	sb.WriteString("Prior reports:\n")
	for i := len(prior) - 1; i >= 0; i-- {
		r := prior[i]
		sb.WriteString(fmt.Sprintf("- %s %s: %s\n", r.ReportTime.Format(time.DateOnly), r.ID, strings.TrimSpace(r.Summary)))
	}
	return textResult(sb.String()), nil, nil
}

func parseBefore(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, reports.ReportTimeLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("expected RFC 3339, %q or %q", reports.ReportTimeLayout, time.DateOnly)
}

// GetToolDefinition returns the MCP tool definition.
func (h *HistoryHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "file_history",
		Description: "Show how often and how recently a file was fixed by earlier bug reports",
	}
}

// RegisterHistoryTool registers the history tool with an MCP server.
func RegisterHistoryTool(server *mcp.Server, history HistoryLookup) {
	handler := NewHistoryHandler(history)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
