package driving

import (
	"context"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// MemoryService maintains and queries the aggregated memory documents.
type MemoryService interface {
	// RebuildAll regenerates every memory category from the current
	// metadata set.
	RebuildAll(ctx context.Context) (map[string]domain.MemoryCategory, error)

	// UpdateForDocument regenerates the categories a changed document
	// can affect, falling back to a full rebuild when the document
	// cannot be routed.
	UpdateForDocument(ctx context.Context, documentPath string) error

	// Query answers a direct-fact question from the memory files.
	// A nil answer means no match, not an error.
	Query(ctx context.Context, text string) (*domain.MemoryAnswer, error)

	// Stats summarizes the generated memory files on disk.
	Stats(ctx context.Context) (domain.MemoryStats, error)
}
