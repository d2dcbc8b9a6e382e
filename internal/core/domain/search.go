package domain

// MatchType describes how a search result was produced.
type MatchType string

// Match types, from strongest to weakest.
const (
	MatchExact        MatchType = "exact"
	MatchContains     MatchType = "contains"
	MatchWordOverlap  MatchType = "word_overlap"
	MatchFuzzy        MatchType = "fuzzy"
	MatchAbbreviation MatchType = "abbreviation"
	MatchSemantic     MatchType = "semantic"
	MatchNone         MatchType = "none"
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// MaxResults is the maximum number of document results.
	MaxResults int

	// Route forces a resolution path instead of the analyzer's pick.
	Route QueryRoute

	// SkipMemory disables the memory-engine consultation.
	SkipMemory bool
}

// SearchDocumentResult is a single document hit.
type SearchDocumentResult struct {
	// DocumentPath identifies the matched document.
	DocumentPath string

	// Score is the relevance score in [0,1].
	Score float64

	// MatchType describes the strongest match that produced the hit.
	MatchType MatchType

	// MatchedField names the metadata attribute that matched best.
	MatchedField string

	// Explanation is a short human-readable account of the match.
	Explanation string
}

// UnifiedSearchResult is the single output shape of the search entry
// point, regardless of the route taken.
type UnifiedSearchResult struct {
	// Query is the original query text.
	Query string

	// Route is the resolution path actually taken.
	Route QueryRoute

	// Results are the ranked document hits.
	Results []SearchDocumentResult

	// MemoryAnswer is the memory engine's direct answer, when any.
	MemoryAnswer *MemoryAnswer

	// SemanticAnswer is the external collaborator's answer text, when
	// the semantic path ran and produced one.
	SemanticAnswer string

	// Suggestions are offered when the search produced nothing.
	Suggestions []string
}
