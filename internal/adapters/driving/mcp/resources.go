package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/memory"
)

// uriScheme is the custom URI scheme for Paperbase resources.
const uriScheme = "paperbase://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.MemoryDir == "" {
		return
	}

	// Template for memory category files.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "memory/{category}",
		Name:        "memory-category",
		Description: "Aggregated memory document for one topic category",
		MIMEType:    "text/markdown",
	}, s.handleMemoryResource)
}

// handleMemoryResource serves one memory category file.
func (s *Server) handleMemoryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	category := extractCategory(req.Params.URI)
	if category == "" || !isKnownCategory(category) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	path := filepath.Join(s.ports.MemoryDir, memory.CategoryFileName(category))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     string(data),
		}},
	}, nil
}

// extractCategory extracts the category from a URI like
// paperbase://memory/{category}.
func extractCategory(uri string) string {
	const prefix = uriScheme + "memory/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}

// isKnownCategory guards against path traversal through the URI.
func isKnownCategory(category string) bool {
	for _, name := range domain.MemoryCategoryNames {
		if name == category {
			return true
		}
	}
	return false
}
