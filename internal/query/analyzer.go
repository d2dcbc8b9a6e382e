// Package query classifies raw queries and builds their fully parsed
// form: complexity verdict, structured filters, and expansion variants.
//
// Classification is pattern-based and deterministic. The heuristics
// OR-combine; none of them depends on evaluation order of the others.
package query

import (
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// interrogatives open a question-form query.
var interrogatives = []string{
	"what", "who", "when", "where", "why", "how", "which",
	"is", "are", "does", "do", "can",
}

// analysisVerbs signal an aggregate/analytical request.
var analysisVerbs = []string{
	"calculate", "total", "sum", "average", "analyze", "analyse", "compare",
}

// searchVerbs open a plain retrieval request.
var searchVerbs = []string{
	"show", "list", "find", "get", "search", "display", "give",
}

// Classify assigns a query its complexity class and suggested
// resolution route. It never fails: unclassifiable input defaults to
// the fast path with search intent at confidence 0.6.
func Classify(raw string) domain.Classification {
	lower := strings.ToLower(strings.TrimSpace(raw))
	words := strings.Fields(lower)

	if len(words) == 0 {
		return domain.Classification{
			Reason:     "empty query",
			Route:      domain.RouteFast,
			Intent:     domain.IntentSearch,
			Confidence: 0.6,
		}
	}

	// Punctuation-only input ("???") carries no question signal.
	if strings.Trim(lower, "?,!. ") == "" {
		return domain.Classification{
			Reason:     "no word content",
			Route:      domain.RouteFast,
			Intent:     domain.IntentSearch,
			Confidence: 0.6,
		}
	}

	first := strings.TrimRight(words[0], "?,!")

	// Question forms want a direct answer, which deterministic field
	// matching alone rarely gives.
	if strings.HasSuffix(lower, "?") || containsWord(interrogatives, first) {
		return domain.Classification{
			Complex:    true,
			Reason:     "interrogative form",
			Route:      domain.RouteHybrid,
			Intent:     domain.IntentQuestion,
			Confidence: 0.85,
		}
	}

	for _, w := range words {
		if containsWord(analysisVerbs, strings.TrimRight(w, "?,!")) {
			return domain.Classification{
				Complex:    true,
				Reason:     "aggregate verb: " + w,
				Route:      domain.RouteHybrid,
				Intent:     domain.IntentAnalysis,
				Confidence: 0.8,
			}
		}
	}

	if containsWord(searchVerbs, first) {
		return domain.Classification{
			Reason:     "imperative retrieval verb: " + first,
			Route:      domain.RouteFast,
			Intent:     domain.IntentSearch,
			Confidence: 0.9,
		}
	}

	return domain.Classification{
		Reason:     "no complexity signals",
		Route:      domain.RouteFast,
		Intent:     domain.IntentSearch,
		Confidence: 0.6,
	}
}

func containsWord(set []string, w string) bool {
	for _, s := range set {
		if s == w {
			return true
		}
	}
	return false
}
