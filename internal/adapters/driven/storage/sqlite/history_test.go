package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperbase-labs/paperbase/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	for i, q := range []string{"nda acme", "status:executed safe", "what is our ein?"} {
		require.NoError(t, store.Record(ctx, driven.QueryRecord{
			Query:     q,
			Route:     "fast",
			Results:   i,
			Duration:  25 * time.Millisecond,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "what is our ein?", records[0].Query, "newest first")
	assert.Equal(t, "status:executed safe", records[1].Query)
	assert.Equal(t, 25*time.Millisecond, records[0].Duration)
	assert.NotEmpty(t, records[0].ID, "missing IDs are generated")
}

func TestRecent_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewHistoryStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	again, err := NewHistoryStore(dir)
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}
