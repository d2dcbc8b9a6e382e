package domain

import "time"

// QueryIntent is what the user appears to want from a query.
type QueryIntent string

// Recognised query intents.
const (
	IntentSearch   QueryIntent = "search"
	IntentQuestion QueryIntent = "question"
	IntentAnalysis QueryIntent = "analysis"
)

// QueryRoute selects the resolution strategy for a query.
type QueryRoute string

// Resolution routes. RouteFast is pure deterministic matching,
// RouteSemantic delegates to the external AI-search collaborator, and
// RouteHybrid runs both concurrently and merges.
const (
	RouteFast     QueryRoute = "fast"
	RouteSemantic QueryRoute = "semantic"
	RouteHybrid   QueryRoute = "hybrid"
)

// Classification is the query analyzer's verdict on one query.
type Classification struct {
	// Complex is true when deterministic matching alone is unlikely
	// to satisfy the query.
	Complex bool

	// Reason explains the verdict for logging and debugging.
	Reason string

	// Route is the suggested resolution path.
	Route QueryRoute

	// Intent is the detected user intent.
	Intent QueryIntent

	// Confidence is the analyzer's confidence in the verdict, 0-1.
	Confidence float64
}

// ValueComparator is a numeric comparison operator parsed from a query.
type ValueComparator string

// Comparators recognised in value phrases ("more than $50k").
const (
	CompareGT ValueComparator = ">"
	CompareLT ValueComparator = "<"
	CompareGE ValueComparator = ">="
	CompareLE ValueComparator = "<="
	CompareEQ ValueComparator = "="
)

// ValueFilter constrains results by a numeric metadata field.
type ValueFilter struct {
	Operator ValueComparator
	Value    float64

	// Field is the metadata attribute the comparison targets:
	// investment_amount, revenue, expense, or contract_value.
	Field string
}

// Matches reports whether amount satisfies the filter.
func (f ValueFilter) Matches(amount float64) bool {
	switch f.Operator {
	case CompareGT:
		return amount > f.Value
	case CompareLT:
		return amount < f.Value
	case CompareGE:
		return amount >= f.Value
	case CompareLE:
		return amount <= f.Value
	case CompareEQ:
		return amount == f.Value
	}
	return false
}

// DateRange constrains results to a closed interval. A zero bound
// leaves that side open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether both bounds are open.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// ParsedQuery is the fully analyzed form of one raw query. It is
// created fresh per query and never persisted.
type ParsedQuery struct {
	// Original is the raw query text as received.
	Original string

	// Normalized is the lowercased, whitespace-collapsed text with
	// structured filter tokens removed.
	Normalized string

	// Variants are the synonym/abbreviation expansions, always
	// including the normalized query itself, in insertion order.
	Variants []string

	// Statuses filters by execution status when non-empty.
	Statuses []ExecutionStatus

	// Categories filters by document category when non-empty.
	Categories []string

	// Dates filters by fully-executed/effective date when set.
	Dates DateRange

	// Value filters by a numeric field when non-nil.
	Value *ValueFilter

	// Classification carries the analyzer verdict.
	Classification Classification
}

// HasFilters reports whether any structured filter is set.
func (q *ParsedQuery) HasFilters() bool {
	return len(q.Statuses) > 0 || len(q.Categories) > 0 || !q.Dates.IsZero() || q.Value != nil
}
