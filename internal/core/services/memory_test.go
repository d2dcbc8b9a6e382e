package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/memory"
)

func newTestMemoryService(t *testing.T, records ...domain.MetadataRecord) (*MemoryService, string) {
	t.Helper()
	dir := t.TempDir()
	agg, err := memory.NewAggregator(dir, memory.WithAggregatorClock(func() time.Time {
		return time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	t.Cleanup(agg.Release)

	index := &mockIndex{records: records}
	return NewMemoryService(index, agg, memory.NewEngine(dir)), dir
}

func safeDoc(path, investor, value string) domain.MetadataRecord {
	rec := domain.MetadataRecord{
		DocumentPath:  path,
		Status:        domain.StatusExecuted,
		Category:      "Fundraising",
		DocumentType:  "SAFE Agreement",
		ContractValue: value,
		Parties:       []domain.Party{{Name: investor, Role: "investor"}},
	}
	rec.ApplyDefaults()
	return rec
}

func TestMemoryService_RebuildThenQuery(t *testing.T) {
	svc, _ := newTestMemoryService(t,
		safeDoc("/docs/safe_1.pdf", "Jane Doe", "$25,000"),
		safeDoc("/docs/safe_2.pdf", "Jane Doe", "$10,000"),
	)

	cats, err := svc.RebuildAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, len(domain.MemoryCategoryNames))

	investors := cats[domain.CategoryInvestors]
	assert.False(t, investors.Empty())
	templates := cats[domain.CategoryTemplates]
	assert.True(t, templates.Empty(), "no templates in the fixture set")

	answer, err := svc.Query(context.Background(), "Jane Doe")
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Contains(t, answer.Answer, "Jane Doe: $35,000")
	assert.Contains(t, answer.Sources, "safe_1.pdf")
	assert.Contains(t, answer.Sources, "safe_2.pdf")
}

func TestMemoryService_QueryNoMatch(t *testing.T) {
	svc, _ := newTestMemoryService(t)

	_, err := svc.RebuildAll(context.Background())
	require.NoError(t, err)

	answer, err := svc.Query(context.Background(), "quarterly kumquat projections")
	require.NoError(t, err, "no match is not an error")
	assert.Nil(t, answer)
}

func TestMemoryService_TargetedUpdate(t *testing.T) {
	rec := safeDoc("/docs/safe_1.pdf", "Jane Doe", "$25,000")
	svc, dir := newTestMemoryService(t, rec)

	err := svc.UpdateForDocument(context.Background(), rec.DocumentPath)
	require.NoError(t, err)

	// The SAFE routes to investor/financial categories, so those files
	// exist; an unrelated category was not touched.
	_, err = os.Stat(filepath.Join(dir, memory.CategoryFileName(domain.CategoryInvestors)))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, memory.CategoryFileName(domain.CategoryTemplates)))
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryService_UnroutableDocumentTriggersFullRebuild(t *testing.T) {
	rec := domain.MetadataRecord{
		DocumentPath: "/docs/mystery.pdf",
		Status:       domain.StatusExecuted,
		Category:     "Other",
	}
	rec.ApplyDefaults()
	svc, dir := newTestMemoryService(t, rec)

	err := svc.UpdateForDocument(context.Background(), rec.DocumentPath)
	require.NoError(t, err)

	for _, name := range domain.MemoryCategoryNames {
		_, err := os.Stat(filepath.Join(dir, memory.CategoryFileName(name)))
		assert.NoError(t, err, "full rebuild must write %s", name)
	}
}

func TestMemoryService_Stats(t *testing.T) {
	svc, dir := newTestMemoryService(t,
		safeDoc("/docs/safe_1.pdf", "Jane Doe", "$25,000"),
	)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dir, stats.Dir)
	assert.Zero(t, stats.Categories, "nothing aggregated yet")
	assert.True(t, stats.UpdatedAt.IsZero())

	_, err = svc.RebuildAll(context.Background())
	require.NoError(t, err)

	stats, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(domain.MemoryCategoryNames), stats.Categories)
	assert.False(t, stats.UpdatedAt.IsZero())
}

func TestMemoryService_MissingDocumentTriggersFullRebuild(t *testing.T) {
	svc, dir := newTestMemoryService(t,
		safeDoc("/docs/safe_1.pdf", "Jane Doe", "$25,000"),
	)

	err := svc.UpdateForDocument(context.Background(), "/docs/deleted.pdf")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, memory.CategoryFileName(domain.CategoryDocumentIndex)))
	assert.NoError(t, err)
}
