package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/bugloc/internal/corpus"
	"github.com/sha1n/bugloc/internal/domain"
	"github.com/src-d/enry/v2"
)

// FileLookup returns a corpus file by normalized path.
type FileLookup interface {
	Get(path string) (domain.SourceFile, bool)
}

// ReadArgument defines read_file parameters.
type ReadArgument struct {
	Path string `json:"path" jsonschema_description:"Source file path relative to the corpus root"`
}

// ReadHandler handles the read_file MCP tool.
type ReadHandler struct {
	files FileLookup
}

// NewReadHandler creates a new read handler.
func NewReadHandler(files FileLookup) *ReadHandler {
	return &ReadHandler{
		files: files,
	}
}

// Handle returns a corpus file as it was indexed, with its class names.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgument) (*mcp.CallToolResult, any, error) {
	path := domain.NormalizePath(args.Path)
	if path == "" {
		return errorResult("Path cannot be empty"), nil, nil
	}
	if path == ".." || strings.HasPrefix(path, "../") {
		return errorResult("Path traversal is not allowed"), nil, nil
	}

	f, ok := h.files.Get(path)
	if !ok {
		return errorResult(fmt.Sprintf("File not in corpus: %s", path)), nil, nil
	}

	lang := strings.ToLower(enry.GetLanguage(f.Path, []byte(f.Text)))
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**File**: `%s`\n", f.Path))
	if classes := corpus.ClassNames(f.Extension(), f.Text); len(classes) > 0 {
		sb.WriteString(fmt.Sprintf("**Classes**: %s\n", strings.Join(classes, ", ")))
	}
	sb.WriteString(fmt.Sprintf("**Size**: %d bytes\n\n", len(f.Text)))
	sb.WriteString(fmt.Sprintf("```%s\n%s\n```", lang, f.Text))

	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ReadHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "read_file",
		Description: "Read a source file from the loaded corpus snapshot",
	}
}

// RegisterReadTool registers the read tool with an MCP server.
func RegisterReadTool(server *mcp.Server, files FileLookup) {
	handler := NewReadHandler(files)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
