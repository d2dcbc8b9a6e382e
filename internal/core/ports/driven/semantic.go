package driven

import (
	"context"
	"time"
)

// SemanticOptions tunes one call to the external AI searcher.
type SemanticOptions struct {
	// IncludeMetadata asks the collaborator to read sidecar content.
	IncludeMetadata bool

	// MaxMetadataFiles bounds how many sidecars it may consider.
	MaxMetadataFiles int

	// Timeout bounds the whole call. Zero means the adapter default.
	Timeout time.Duration
}

// SemanticDocument is one document the collaborator found relevant.
type SemanticDocument struct {
	// Path identifies the document.
	Path string

	// Relevance is the collaborator's score in [0,1].
	Relevance float64

	// Reason explains why the document was selected.
	Reason string
}

// SemanticResult is the collaborator's full response.
type SemanticResult struct {
	// Answer is the natural-language answer text.
	Answer string

	// Sources attribute the answer to documents.
	Sources []string

	// Documents are ranked related documents.
	Documents []SemanticDocument

	// Confidence is the collaborator's self-reported confidence, 0-1.
	Confidence float64
}

// SemanticSearcher is the external AI-search collaborator. The core
// treats it as an opaque call with a single timeout knob; on timeout or
// error the hybrid route degrades to the fast-path result alone.
type SemanticSearcher interface {
	// SearchWithAI resolves a query against the document corpus.
	SearchWithAI(ctx context.Context, query string, opts SemanticOptions) (*SemanticResult, error)
}
