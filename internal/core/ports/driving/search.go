package driving

import (
	"context"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// SearchService provides document search to external actors.
type SearchService interface {
	// Search resolves a query over the organized document set. It
	// never returns an error for a query that simply matches nothing;
	// empty results carry suggestions instead.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.UnifiedSearchResult, error)
}
