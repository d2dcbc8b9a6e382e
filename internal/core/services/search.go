package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/core/ports/driven"
	"github.com/paperbase-labs/paperbase/internal/core/ports/driving"
	"github.com/paperbase-labs/paperbase/internal/logger"
	"github.com/paperbase-labs/paperbase/internal/match"
	"github.com/paperbase-labs/paperbase/internal/query"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultMaxResults caps result lists when options leave it unset.
const DefaultMaxResults = 20

// DefaultSemanticTimeout bounds the external collaborator call.
const DefaultSemanticTimeout = 30 * time.Second

// MetadataIndex supplies the records to scan. Implemented by the
// metadata store.
type MetadataIndex interface {
	Records(ctx context.Context) ([]domain.MetadataRecord, error)
}

// MemoryAnswerer answers direct-fact queries. Implemented by the
// memory query engine.
type MemoryAnswerer interface {
	Query(text string) *domain.MemoryAnswer
}

// fieldWeights rank which metadata attribute best explains a hit.
// Filename and document type dominate; free-form context is a weak
// signal on its own.
var fieldWeights = map[string]float64{
	"filename":         1.0,
	"document_type":    0.9,
	"category":         0.8,
	"parties":          0.8,
	"key_terms":        0.7,
	"governing_law":    0.6,
	"business_context": 0.5,
}

// SearchService resolves queries over the organized document set. The
// semantic searcher, memory engine, and history store are optional;
// absent services degrade the corresponding path instead of failing.
// A route the caller forces is honored or reported, never silently
// rewritten.
type SearchService struct {
	index    MetadataIndex
	parser   *query.Parser
	memory   MemoryAnswerer
	semantic driven.SemanticSearcher
	history  driven.HistoryStore

	semanticTimeout time.Duration
	maxResults      int
	now             func() time.Time
}

// NewSearchService creates a search service. The index and parser are
// required; memory, semantic, and history may be nil.
func NewSearchService(index MetadataIndex, parser *query.Parser) *SearchService {
	return &SearchService{
		index:           index,
		parser:          parser,
		semanticTimeout: DefaultSemanticTimeout,
		maxResults:      DefaultMaxResults,
		now:             time.Now,
	}
}

// SetMemoryEngine sets the memory answerer consulted on every query.
func (s *SearchService) SetMemoryEngine(m MemoryAnswerer) {
	s.memory = m
}

// SetSemanticSearcher sets the external AI-search collaborator.
func (s *SearchService) SetSemanticSearcher(sem driven.SemanticSearcher) {
	s.semantic = sem
}

// SetHistoryStore sets the query history store.
func (s *SearchService) SetHistoryStore(h driven.HistoryStore) {
	s.history = h
}

// SetMaxResults overrides the default result cap. Per-query options
// still take precedence.
func (s *SearchService) SetMaxResults(n int) {
	if n > 0 {
		s.maxResults = n
	}
}

// SetSemanticTimeout overrides the collaborator call timeout.
func (s *SearchService) SetSemanticTimeout(d time.Duration) {
	if d > 0 {
		s.semanticTimeout = d
	}
}

// Search resolves a query. Errors inside any path are converted into a
// zero-result response with suggestions; the method itself returns an
// error only when it cannot even start (nil receiver dependencies).
func (s *SearchService) Search(ctx context.Context, raw string, opts domain.SearchOptions) (*domain.UnifiedSearchResult, error) {
	started := s.now()

	logger.Section("Search Execution")
	logger.Debug("Query: %q", raw)

	result := &domain.UnifiedSearchResult{Query: raw}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		result.Route = domain.RouteFast
		result.Suggestions = searchSuggestions()
		return result, nil
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	parsed := s.parser.Parse(raw)
	forced := opts.Route != ""
	route := opts.Route
	if !forced {
		route = parsed.Classification.Route
	}
	if s.semantic == nil && route != domain.RouteFast {
		// An explicitly requested semantic route fails fast rather than
		// quietly answering from the fast path; only the classifier's
		// own suggestion degrades. Forced hybrid still runs its
		// deterministic half.
		if forced && route == domain.RouteSemantic {
			logger.Warn("Semantic route requested but no collaborator is configured: %v", domain.ErrSemanticUnavailable)
			result.Route = route
			result.Suggestions = append(
				[]string{"Semantic search is not configured: set semantic.endpoint in the config file"},
				searchSuggestions()...)
			s.record(ctx, raw, result, s.now().Sub(started))
			return result, nil
		}
		logger.Debug("Semantic collaborator not configured, degrading %s to fast", route)
		route = domain.RouteFast
	}
	result.Route = route

	logger.Info("Route: %s (intent=%s, confidence=%.2f)",
		route, parsed.Classification.Intent, parsed.Classification.Confidence)

	switch route {
	case domain.RouteFast:
		hits, err := s.fastSearch(ctx, parsed, limit)
		if err != nil {
			logger.Warn("Fast search failed: %v", err)
			result.Suggestions = searchSuggestions()
			break
		}
		result.Results = hits

		// Zero fast hits retry semantically when possible. A silent
		// fallback, not an error.
		if len(hits) == 0 && s.semantic != nil {
			logger.Debug("Fast path empty, falling back to semantic")
			if sem := s.semanticSearch(ctx, raw); sem != nil {
				result.Route = domain.RouteSemantic
				result.Results = semanticHits(sem, limit)
				result.SemanticAnswer = sem.Answer
			}
		}

	case domain.RouteSemantic:
		sem := s.semanticSearch(ctx, raw)
		if sem == nil {
			result.Suggestions = searchSuggestions()
			break
		}
		result.Results = semanticHits(sem, limit)
		result.SemanticAnswer = sem.Answer

	case domain.RouteHybrid:
		hits, answer := s.hybridSearch(ctx, parsed, raw, limit)
		result.Results = hits
		result.SemanticAnswer = answer
	}

	if !opts.SkipMemory && s.memory != nil {
		if answer := s.memory.Query(raw); answer != nil {
			logger.Debug("Memory answer attached (%d sources)", len(answer.Sources))
			result.MemoryAnswer = answer
		}
	}

	if len(result.Results) == 0 && result.MemoryAnswer == nil && result.SemanticAnswer == "" {
		result.Suggestions = searchSuggestions()
	}

	s.record(ctx, raw, result, s.now().Sub(started))
	return result, nil
}

// fastSearch scans every record with the fuzzy matcher. Structured
// filters exclude records outright before any scoring; they never act
// as score modifiers.
func (s *SearchService) fastSearch(ctx context.Context, parsed *domain.ParsedQuery, limit int) ([]domain.SearchDocumentResult, error) {
	records, err := s.index.Records(ctx)
	if err != nil {
		return nil, err
	}

	opts := match.Options{}
	exp := s.parser.Expander()

	var hits []domain.SearchDocumentResult
	for i := range records {
		rec := &records[i]
		if !passesFilters(rec, parsed) {
			continue
		}

		best := s.scoreRecord(rec, parsed.Variants, exp, opts)
		if best.Score <= 0 {
			continue
		}
		hits = append(hits, best)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocumentPath < hits[j].DocumentPath
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	logger.Debug("Fast search: %d hits from %d records", len(hits), len(records))
	return hits, nil
}

// scoreRecord runs every query variant against the record's weighted
// fields and keeps the single best explanation.
func (s *SearchService) scoreRecord(rec *domain.MetadataRecord, variants []string, exp match.Expander, opts match.Options) domain.SearchDocumentResult {
	fields := recordFields(rec)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	best := domain.SearchDocumentResult{
		DocumentPath: rec.DocumentPath,
		MatchType:    domain.MatchNone,
	}

	for _, variant := range variants {
		for _, name := range names {
			value := fields[name]
			if value == "" {
				continue
			}
			r := match.MatchWithAbbreviations(variant, value, exp, opts)
			weighted := r.Score
			if w, ok := fieldWeights[name]; ok {
				weighted *= w
			}
			if weighted > best.Score {
				best.Score = weighted
				best.MatchType = r.Type
				best.MatchedField = name
				best.Explanation = explainMatch(variant, name, r)
			}
		}
	}
	return best
}

// recordFields flattens the matchable metadata attributes.
func recordFields(rec *domain.MetadataRecord) map[string]string {
	parties := make([]string, 0, len(rec.Parties))
	for _, p := range rec.Parties {
		parties = append(parties, p.Name)
		if p.Organization != "" {
			parties = append(parties, p.Organization)
		}
	}
	return map[string]string{
		"filename":         rec.FileName(),
		"document_type":    rec.DocumentType,
		"category":         rec.Category,
		"parties":          strings.Join(parties, " "),
		"key_terms":        rec.KeyTerms,
		"governing_law":    rec.GoverningLaw,
		"business_context": rec.BusinessContext,
	}
}

// passesFilters applies the structured filters as hard excludes.
func passesFilters(rec *domain.MetadataRecord, parsed *domain.ParsedQuery) bool {
	if len(parsed.Statuses) > 0 {
		ok := false
		for _, st := range parsed.Statuses {
			if rec.Status == st {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if len(parsed.Categories) > 0 {
		ok := false
		for _, cat := range parsed.Categories {
			if strings.EqualFold(rec.Category, cat) ||
				strings.Contains(strings.ToLower(rec.Category), strings.ToLower(cat)) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if !parsed.Dates.IsZero() {
		if !dateInRange(rec, parsed.Dates) {
			return false
		}
	}

	if parsed.Value != nil {
		amount, ok := filterAmount(rec, parsed.Value.Field)
		if !ok || !parsed.Value.Matches(amount) {
			return false
		}
	}

	return true
}

// dateInRange checks the fully-executed date first, then the effective
// date. A record with neither cannot satisfy a date filter.
func dateInRange(rec *domain.MetadataRecord, r domain.DateRange) bool {
	if rec.FullyExecutedDate != nil {
		return r.Contains(rec.FullyExecutedDate.Time)
	}
	if rec.EffectiveDate != nil {
		return r.Contains(rec.EffectiveDate.Time)
	}
	return false
}

// filterAmount resolves the numeric field a value filter targets. The
// named critical fact wins; contract value is the fallback for every
// target since most sidecars only carry that.
func filterAmount(rec *domain.MetadataRecord, field string) (float64, bool) {
	if field != "" && field != "contract_value" {
		if v, ok := rec.FactValue(field); ok {
			if n, ok := domain.MoneyAmount(v.Text()); ok {
				return n, true
			}
		}
	}
	return domain.MoneyAmount(rec.ContractValue)
}

// semanticSearch calls the collaborator with the configured timeout.
// Failures are logged and reported as nil; callers degrade.
func (s *SearchService) semanticSearch(ctx context.Context, raw string) *driven.SemanticResult {
	if s.semantic == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.semanticTimeout)
	defer cancel()

	res, err := s.semantic.SearchWithAI(ctx, raw, driven.SemanticOptions{
		IncludeMetadata: true,
		Timeout:         s.semanticTimeout,
	})
	if err != nil {
		logger.Warn("Semantic search failed: %v", err)
		return nil
	}
	return res
}

// hybridSearch runs the fast scan and the semantic call concurrently
// and merges by document path, keeping the higher score. Each path
// reads its own snapshot; nothing is shared until the join.
func (s *SearchService) hybridSearch(ctx context.Context, parsed *domain.ParsedQuery, raw string, limit int) ([]domain.SearchDocumentResult, string) {
	var (
		fastHits []domain.SearchDocumentResult
		fastErr  error
		semRes   *driven.SemanticResult
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		fastHits, fastErr = s.fastSearch(ctx, parsed, limit)
	}()

	go func() {
		defer wg.Done()
		semRes = s.semanticSearch(ctx, raw)
	}()

	wg.Wait()

	if fastErr != nil {
		logger.Warn("Hybrid: fast path failed: %v", fastErr)
		fastHits = nil
	}
	if semRes == nil {
		// Semantic side degraded; the fast result stands alone.
		return fastHits, ""
	}

	merged := mergeHits(fastHits, semanticHits(semRes, limit))
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, semRes.Answer
}

// mergeHits joins two hit lists by document path, keeping the higher
// score per document, re-sorted by score.
func mergeHits(a, b []domain.SearchDocumentResult) []domain.SearchDocumentResult {
	byPath := make(map[string]domain.SearchDocumentResult, len(a)+len(b))
	for _, h := range a {
		byPath[h.DocumentPath] = h
	}
	for _, h := range b {
		if cur, ok := byPath[h.DocumentPath]; !ok || h.Score > cur.Score {
			byPath[h.DocumentPath] = h
		}
	}

	merged := make([]domain.SearchDocumentResult, 0, len(byPath))
	for _, h := range byPath {
		merged = append(merged, h)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].DocumentPath < merged[j].DocumentPath
	})
	return merged
}

// semanticHits maps the collaborator's document list into the unified
// result shape.
func semanticHits(res *driven.SemanticResult, limit int) []domain.SearchDocumentResult {
	hits := make([]domain.SearchDocumentResult, 0, len(res.Documents))
	for _, d := range res.Documents {
		hits = append(hits, domain.SearchDocumentResult{
			DocumentPath: d.Path,
			Score:        d.Relevance,
			MatchType:    domain.MatchSemantic,
			Explanation:  d.Reason,
		})
		if len(hits) >= limit {
			break
		}
	}
	return hits
}

// explainMatch renders a short human-readable match account.
func explainMatch(variant, field string, r match.Result) string {
	var b strings.Builder
	b.WriteString(string(r.Type))
	b.WriteString(" match on ")
	b.WriteString(field)
	if r.Span != "" {
		b.WriteString(" (matched \"")
		b.WriteString(r.Span)
		b.WriteString("\")")
	}
	b.WriteString(" for \"")
	b.WriteString(variant)
	b.WriteString("\"")
	return b.String()
}

// searchSuggestions are offered when a query produces nothing.
func searchSuggestions() []string {
	return []string{
		"Try broader terms, e.g. \"agreement\" instead of a specific title",
		"Filter by status with status:executed or status:template",
		"Ask a direct question, e.g. \"what is our EIN?\"",
		"Check that documents have been organized and have sidecar metadata",
	}
}

// record stores the executed query, best effort.
func (s *SearchService) record(ctx context.Context, raw string, result *domain.UnifiedSearchResult, took time.Duration) {
	if s.history == nil {
		return
	}
	err := s.history.Record(ctx, driven.QueryRecord{
		Query:     raw,
		Route:     string(result.Route),
		Results:   len(result.Results),
		Duration:  took,
		CreatedAt: s.now(),
	})
	if err != nil {
		logger.Warn("Query history write failed: %v", err)
	}
}
