package driven

import (
	"context"
	"time"
)

// QueryRecord is one executed query, kept for history inspection.
type QueryRecord struct {
	// ID is the record's unique identifier.
	ID string

	// Query is the raw query text.
	Query string

	// Route is the resolution path taken.
	Route string

	// Results is the number of document hits returned.
	Results int

	// Duration is how long resolution took.
	Duration time.Duration

	// CreatedAt is when the query ran.
	CreatedAt time.Time
}

// HistoryStore persists executed queries. Recording is best effort:
// the orchestrator logs and continues when a write fails.
type HistoryStore interface {
	// Record stores one executed query.
	Record(ctx context.Context, rec QueryRecord) error

	// Recent returns the most recent queries, newest first.
	Recent(ctx context.Context, limit int) ([]QueryRecord, error)

	// Close releases resources.
	Close() error
}
