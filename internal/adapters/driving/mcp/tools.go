package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query to find documents"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Route      string `json:"route,omitempty" jsonschema:"force a resolution path: fast, semantic, or hybrid"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Route         string               `json:"route"`
	Results       []SearchResultOutput `json:"results"`
	Count         int                  `json:"count"`
	MemoryAnswer  string               `json:"memory_answer,omitempty"`
	MemorySources []string             `json:"memory_sources,omitempty"`
	Answer        string               `json:"answer,omitempty"`
	Suggestions   []string             `json:"suggestions,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Path        string  `json:"path"`
	Score       float64 `json:"score"`
	MatchType   string  `json:"match_type"`
	Field       string  `json:"field,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
}

// MemoryQueryInput is the input schema for the memory_query tool.
type MemoryQueryInput struct {
	Question string `json:"question" jsonschema:"a direct fact question, e.g. 'what is our EIN?'"`
}

// MemoryQueryOutput is the output schema for the memory_query tool.
type MemoryQueryOutput struct {
	Found   bool     `json:"found"`
	Answer  string   `json:"answer,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

// RebuildMemoryInput is the input schema for the rebuild_memory tool.
type RebuildMemoryInput struct{}

// RebuildMemoryOutput is the output schema for the rebuild_memory tool.
type RebuildMemoryOutput struct {
	Categories int `json:"categories"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the organized document set by filename and metadata",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memory_query",
		Description: "Answer a direct fact question from the aggregated company memory",
	}, s.handleMemoryQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rebuild_memory",
		Description: "Regenerate all memory categories from the current document metadata",
	}, s.handleRebuildMemory)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	opts := domain.SearchOptions{
		MaxResults: maxResults,
		Route:      domain.QueryRoute(input.Route),
	}
	result, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Route:       string(result.Route),
		Results:     make([]SearchResultOutput, len(result.Results)),
		Count:       len(result.Results),
		Answer:      result.SemanticAnswer,
		Suggestions: result.Suggestions,
	}
	if result.MemoryAnswer != nil {
		output.MemoryAnswer = result.MemoryAnswer.Answer
		output.MemorySources = result.MemoryAnswer.Sources
	}

	for i := range result.Results {
		hit := &result.Results[i]
		output.Results[i] = SearchResultOutput{
			Path:        hit.DocumentPath,
			Score:       hit.Score,
			MatchType:   string(hit.MatchType),
			Field:       hit.MatchedField,
			Explanation: hit.Explanation,
		}
	}

	return nil, output, nil
}

// handleMemoryQuery handles the memory_query tool invocation.
func (s *Server) handleMemoryQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MemoryQueryInput,
) (*mcp.CallToolResult, MemoryQueryOutput, error) {
	if s.ports.Memory == nil {
		return nil, MemoryQueryOutput{}, errors.New("memory service not configured")
	}

	answer, err := s.ports.Memory.Query(ctx, input.Question)
	if err != nil {
		return nil, MemoryQueryOutput{}, err
	}
	if answer == nil {
		return nil, MemoryQueryOutput{Found: false}, nil
	}

	return nil, MemoryQueryOutput{
		Found:   true,
		Answer:  answer.Answer,
		Sources: answer.Sources,
	}, nil
}

// handleRebuildMemory handles the rebuild_memory tool invocation.
func (s *Server) handleRebuildMemory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RebuildMemoryInput,
) (*mcp.CallToolResult, RebuildMemoryOutput, error) {
	if s.ports.Memory == nil {
		return nil, RebuildMemoryOutput{}, errors.New("memory service not configured")
	}

	cats, err := s.ports.Memory.RebuildAll(ctx)
	if err != nil {
		return nil, RebuildMemoryOutput{}, err
	}
	return nil, RebuildMemoryOutput{Categories: len(cats)}, nil
}
