// Package httpapi provides a SemanticSearcher adapter calling an
// external AI-search service over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/core/ports/driven"
)

// Ensure Searcher implements the interface.
var _ driven.SemanticSearcher = (*Searcher)(nil)

// Default configuration values.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultRatePerMinute = 20
)

// Config holds configuration for the semantic search client.
type Config struct {
	// Endpoint is the search service URL (required).
	Endpoint string

	// APIKey authenticates requests, sent as a bearer token.
	APIKey string

	// Timeout is the default request timeout (default: 30s).
	Timeout time.Duration

	// RatePerMinute caps outgoing requests (default: 20).
	RatePerMinute int
}

// Searcher calls the external AI-search collaborator over HTTP POST.
type Searcher struct {
	client   *http.Client
	endpoint string
	apiKey   string
	timeout  time.Duration
	limiter  *rate.Limiter
}

// searchRequest is the collaborator's request format.
type searchRequest struct {
	Query            string `json:"query"`
	IncludeMetadata  bool   `json:"include_metadata"`
	MaxMetadataFiles int    `json:"max_metadata_files,omitempty"`
}

// searchResponse is the collaborator's response format.
type searchResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Related []struct {
		Path      string  `json:"path"`
		Relevance float64 `json:"relevance"`
		Reason    string  `json:"reason"`
	} `json:"related_documents"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// New creates a semantic search client. Returns
// domain.ErrSemanticUnavailable when no endpoint is configured so
// callers can distinguish "not set up" from a transport failure.
func New(cfg Config) (*Searcher, error) {
	if cfg.Endpoint == "" {
		return nil, domain.ErrSemanticUnavailable
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = DefaultRatePerMinute
	}

	return &Searcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute),
	}, nil
}

// SearchWithAI resolves a query against the collaborator. The call is
// rate limited and bounded by the option timeout (or the configured
// default).
func (s *Searcher) SearchWithAI(ctx context.Context, query string, opts driven.SemanticOptions) (*driven.SemanticResult, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("semantic rate limit: %w", err)
	}

	body, err := json.Marshal(searchRequest{
		Query:            query,
		IncludeMetadata:  opts.IncludeMetadata,
		MaxMetadataFiles: opts.MaxMetadataFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic request encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("semantic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("semantic call: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("semantic response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("semantic call: status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var decoded searchResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("semantic response decode: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("semantic service: %s", decoded.Error)
	}

	result := &driven.SemanticResult{
		Answer:     decoded.Answer,
		Sources:    decoded.Sources,
		Confidence: decoded.Confidence,
	}
	for _, d := range decoded.Related {
		result.Documents = append(result.Documents, driven.SemanticDocument{
			Path:      d.Path,
			Relevance: d.Relevance,
			Reason:    d.Reason,
		})
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
