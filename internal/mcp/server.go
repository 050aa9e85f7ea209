package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultMaxResults caps rank_files when the caller gives no limit.
const DefaultMaxResults = 20

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name       string
	Version    string
	Ranker     Ranker
	History    HistoryLookup
	Files      FileLookup
	MaxResults int
}

// CreateServer creates and configures the MCP server. Tools are only
// registered for the lookups that are set.
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.Ranker != nil {
		RegisterRankTool(s, cfg.Ranker, cfg.MaxResults)
	}
	if cfg.History != nil {
		RegisterHistoryTool(s, cfg.History)
	}
	if cfg.Files != nil {
		RegisterReadTool(s, cfg.Files)
	}

	return s
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
