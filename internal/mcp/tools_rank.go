package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/bugloc/internal/features"
)

// Ranker scores every corpus file against a report text.
type Ranker interface {
	Rank(reportText string, limit int) []features.Candidate
}

// RankArgument defines rank_files parameters.
type RankArgument struct {
	ReportText string `json:"report_text" jsonschema_description:"Bug report summary and description"`
	Limit      int    `json:"limit,omitempty" jsonschema_description:"Maximum number of files to return"`
}

// RankHandler handles the rank_files MCP tool.
type RankHandler struct {
	ranker     Ranker
	maxResults int
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(ranker Ranker, maxResults int) *RankHandler {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &RankHandler{
		ranker:     ranker,
		maxResults: maxResults,
	}
}

// Handle ranks the corpus and returns the most similar files.
func (h *RankHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RankArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.ReportText) == "" {
		return errorResult("Report text cannot be empty"), nil, nil
	}

	limit := args.Limit
	if limit <= 0 || limit > h.maxResults {
		limit = h.maxResults
	}

	candidates := h.ranker.Rank(args.ReportText, limit)
	return h.formatResults(candidates), nil, nil
}

// formatResults formats ranked candidates for MCP response.
func (h *RankHandler) formatResults(candidates []features.Candidate) *mcp.CallToolResult {
	if len(candidates) == 0 {
		return textResult("No files in the corpus")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top %d files by textual similarity:\n\n", len(candidates)))
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, c.Path))
		sb.WriteString(fmt.Sprintf("   rVSM: %.4f  class name: %.4f\n", c.RVSM, c.ClassName))
	}
	return textResult(sb.String())
}

// GetToolDefinition returns the MCP tool definition.
func (h *RankHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rank_files",
		Description: "Rank source files by their textual similarity to a bug report",
	}
}

// RegisterRankTool registers the rank tool with an MCP server.
func RegisterRankTool(server *mcp.Server, ranker Ranker, maxResults int) {
	handler := NewRankHandler(ranker, maxResults)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
