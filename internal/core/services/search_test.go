package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/core/ports/driven"
	"github.com/paperbase-labs/paperbase/internal/query"
	"github.com/paperbase-labs/paperbase/internal/synonym"
)

// --- Mock implementations ---

// mockIndex implements MetadataIndex for testing.
type mockIndex struct {
	records []domain.MetadataRecord
	err     error
}

func (m *mockIndex) Records(_ context.Context) ([]domain.MetadataRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *mockIndex) Get(_ context.Context, path string) (domain.MetadataRecord, error) {
	for _, rec := range m.records {
		if rec.DocumentPath == path {
			return rec, nil
		}
	}
	return domain.MetadataRecord{}, domain.ErrNotFound
}

// mockSemantic implements driven.SemanticSearcher for testing.
type mockSemantic struct {
	result *driven.SemanticResult
	err    error
	calls  int
}

func (m *mockSemantic) SearchWithAI(_ context.Context, _ string, _ driven.SemanticOptions) (*driven.SemanticResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockMemory implements MemoryAnswerer for testing.
type mockMemory struct {
	answer *domain.MemoryAnswer
}

func (m *mockMemory) Query(_ string) *domain.MemoryAnswer {
	return m.answer
}

// mockHistory implements driven.HistoryStore for testing.
type mockHistory struct {
	recorded []driven.QueryRecord
	err      error
}

func (m *mockHistory) Record(_ context.Context, rec driven.QueryRecord) error {
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, rec)
	return nil
}

func (m *mockHistory) Recent(_ context.Context, _ int) ([]driven.QueryRecord, error) {
	return m.recorded, nil
}

func (m *mockHistory) Close() error { return nil }

// --- Fixtures ---

func testRecord(path string, status domain.ExecutionStatus, docType string) domain.MetadataRecord {
	rec := domain.MetadataRecord{
		DocumentPath: path,
		Status:       status,
		DocumentType: docType,
	}
	rec.ApplyDefaults()
	return rec
}

func newTestService(records ...domain.MetadataRecord) (*SearchService, *mockIndex) {
	index := &mockIndex{records: records}
	parser := query.NewParser(synonym.NewExpander())
	return NewSearchService(index, parser), index
}

// --- Tests ---

func TestSearch_FastPathMatchesDocumentType(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/offer_jane.pdf", domain.StatusExecuted, "Employment Agreement"),
		testRecord("/docs/nda_acme.pdf", domain.StatusExecuted, "Non-Disclosure Agreement"),
	)

	result, err := svc.Search(context.Background(), "employment", domain.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	assert.Equal(t, "/docs/offer_jane.pdf", result.Results[0].DocumentPath)
	assert.Equal(t, domain.RouteFast, result.Route)
	assert.Greater(t, result.Results[0].Score, 0.0)
}

func TestSearch_StatusFilterIsHardExclude(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/employment_template.pdf", domain.StatusTemplate, "Employment Agreement"),
		testRecord("/docs/employment_signed.pdf", domain.StatusExecuted, "Employment Agreement"),
	)

	result, err := svc.Search(context.Background(), "status:template employment", domain.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	for _, hit := range result.Results {
		assert.Equal(t, "/docs/employment_template.pdf", hit.DocumentPath,
			"an executed document must never appear regardless of match strength")
	}
}

func TestSearch_AbbreviationExpansion(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/mutual_nda.pdf", domain.StatusExecuted, "Non-Disclosure Agreement"),
	)

	result, err := svc.Search(context.Background(), "nda", domain.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results, "abbreviation must reach the expanded document type")
	assert.Equal(t, "/docs/mutual_nda.pdf", result.Results[0].DocumentPath)
}

func TestSearch_EmptyFastResultWithoutSemanticGivesSuggestions(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/nda_acme.pdf", domain.StatusExecuted, "Non-Disclosure Agreement"),
	)

	result, err := svc.Search(context.Background(), "zzz qqq xxx", domain.SearchOptions{})
	require.NoError(t, err, "no match is not an error")
	assert.Empty(t, result.Results)
	assert.NotEmpty(t, result.Suggestions)
}

func TestSearch_ZeroFastHitsFallBackToSemantic(t *testing.T) {
	svc, _ := newTestService()
	sem := &mockSemantic{result: &driven.SemanticResult{
		Answer: "The EIN is 88-1234567.",
		Documents: []driven.SemanticDocument{
			{Path: "/docs/ss4.pdf", Relevance: 0.92, Reason: "contains the EIN"},
		},
	}}
	svc.SetSemanticSearcher(sem)

	result, err := svc.Search(context.Background(), "find tax registration", domain.SearchOptions{Route: domain.RouteFast})
	require.NoError(t, err)

	assert.Equal(t, 1, sem.calls, "fallback must run silently")
	assert.Equal(t, domain.RouteSemantic, result.Route)
	require.Len(t, result.Results, 1)
	assert.Equal(t, domain.MatchSemantic, result.Results[0].MatchType)
	assert.Equal(t, "The EIN is 88-1234567.", result.SemanticAnswer)
}

func TestSearch_HybridMergesKeepingHigherScore(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/nda_acme.pdf", domain.StatusExecuted, "Non-Disclosure Agreement"),
	)
	svc.SetSemanticSearcher(&mockSemantic{result: &driven.SemanticResult{
		Answer: "Acme NDA covers confidentiality.",
		Documents: []driven.SemanticDocument{
			{Path: "/docs/nda_acme.pdf", Relevance: 0.5, Reason: "related"},
			{Path: "/docs/extra.pdf", Relevance: 0.4, Reason: "also related"},
		},
	}})

	result, err := svc.Search(context.Background(), "non-disclosure agreement", domain.SearchOptions{Route: domain.RouteHybrid})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	// The fast path scores the NDA at 0.9 (exact document_type match
	// weighted); the semantic 0.5 for the same path must not win.
	assert.Equal(t, "/docs/nda_acme.pdf", result.Results[0].DocumentPath)
	assert.Greater(t, result.Results[0].Score, 0.5)
	assert.NotEqual(t, domain.MatchSemantic, result.Results[0].MatchType)
	assert.Equal(t, "/docs/extra.pdf", result.Results[1].DocumentPath)
}

func TestSearch_HybridDegradesOnSemanticError(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/nda_acme.pdf", domain.StatusExecuted, "Non-Disclosure Agreement"),
	)
	svc.SetSemanticSearcher(&mockSemantic{err: errors.New("collaborator timeout")})

	result, err := svc.Search(context.Background(), "non-disclosure agreement", domain.SearchOptions{Route: domain.RouteHybrid})
	require.NoError(t, err, "semantic failure must not fail the query")
	require.NotEmpty(t, result.Results)
	assert.Equal(t, "/docs/nda_acme.pdf", result.Results[0].DocumentPath)
	assert.Empty(t, result.SemanticAnswer)
}

func TestSearch_SemanticRouteDegradesWhenUnconfigured(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/nda_acme.pdf", domain.StatusExecuted, "Non-Disclosure Agreement"),
	)

	result, err := svc.Search(context.Background(), "what do we have with acme?", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteFast, result.Route,
		"question routes fall back to fast when no collaborator is configured")
}

func TestSearch_ForcedSemanticRouteFailsFastWhenUnconfigured(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/nda_acme.pdf", domain.StatusExecuted, "Non-Disclosure Agreement"),
	)

	result, err := svc.Search(context.Background(), "non-disclosure agreement",
		domain.SearchOptions{Route: domain.RouteSemantic})
	require.NoError(t, err, "converted to an empty result at the boundary")

	assert.Equal(t, domain.RouteSemantic, result.Route,
		"an explicitly requested route is not silently rewritten")
	assert.Empty(t, result.Results,
		"no fast-path results may stand in for the requested semantic path")
	require.NotEmpty(t, result.Suggestions)
	assert.Contains(t, result.Suggestions[0], "not configured")
}

func TestSearch_MemoryAnswerAttached(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/ss4.pdf", domain.StatusExecuted, "SS-4 Form"),
	)
	svc.SetMemoryEngine(&mockMemory{answer: &domain.MemoryAnswer{
		Answer:  "EIN: 88-1234567",
		Sources: []string{"ss4.pdf"},
	}})

	result, err := svc.Search(context.Background(), "ein", domain.SearchOptions{})
	require.NoError(t, err)
	require.NotNil(t, result.MemoryAnswer)
	assert.Contains(t, result.MemoryAnswer.Answer, "88-1234567")

	skipped, err := svc.Search(context.Background(), "ein", domain.SearchOptions{SkipMemory: true})
	require.NoError(t, err)
	assert.Nil(t, skipped.MemoryAnswer)
}

func TestSearch_IndexErrorYieldsSuggestionsNotError(t *testing.T) {
	index := &mockIndex{err: errors.New("walk failed")}
	svc := NewSearchService(index, query.NewParser(synonym.NewExpander()))

	result, err := svc.Search(context.Background(), "anything", domain.SearchOptions{})
	require.NoError(t, err, "per-query errors stop at the orchestrator boundary")
	assert.Empty(t, result.Results)
	assert.NotEmpty(t, result.Suggestions)
}

func TestSearch_HistoryRecordedBestEffort(t *testing.T) {
	svc, _ := newTestService(
		testRecord("/docs/nda_acme.pdf", domain.StatusExecuted, "Non-Disclosure Agreement"),
	)
	history := &mockHistory{}
	svc.SetHistoryStore(history)

	_, err := svc.Search(context.Background(), "nda", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, history.recorded, 1)
	assert.Equal(t, "nda", history.recorded[0].Query)
	assert.Equal(t, 1, history.recorded[0].Results)

	// A failing history store never surfaces to the caller.
	svc.SetHistoryStore(&mockHistory{err: errors.New("disk full")})
	_, err = svc.Search(context.Background(), "nda", domain.SearchOptions{})
	assert.NoError(t, err)
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.Search(context.Background(), "   ", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.NotEmpty(t, result.Suggestions)
}

func TestSearch_MaxResultsCap(t *testing.T) {
	var records []domain.MetadataRecord
	for i := 0; i < 30; i++ {
		records = append(records,
			testRecord("/docs/nda_"+string(rune('a'+i))+".pdf", domain.StatusExecuted, "Non-Disclosure Agreement"))
	}
	svc, _ := newTestService(records...)

	result, err := svc.Search(context.Background(), "non-disclosure agreement", domain.SearchOptions{MaxResults: 5})
	require.NoError(t, err)
	assert.Len(t, result.Results, 5)
}
