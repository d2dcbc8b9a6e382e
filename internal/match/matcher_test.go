package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
	}
}

func TestLevenshtein_Properties(t *testing.T) {
	samples := []string{"", "a", "safe", "non-disclosure agreement", "Jane Doe"}

	for _, s := range samples {
		assert.Zero(t, Levenshtein(s, s), "identity for %q", s)
		assert.Equal(t, len(s), Levenshtein(s, ""), "empty-string distance for %q", s)
	}

	for _, a := range samples {
		for _, b := range samples {
			assert.Equal(t, Levenshtein(a, b), Levenshtein(b, a), "symmetry for %q/%q", a, b)
		}
	}
}

func TestMatch_Exact(t *testing.T) {
	r := Match("employment agreement", "Employment Agreement", Options{})
	assert.Equal(t, 1.0, r.Score)
	assert.Equal(t, domain.MatchExact, r.Type)

	// Identity always scores 1.0.
	r = Match("nda", "nda", Options{})
	assert.Equal(t, 1.0, r.Score)
	assert.Equal(t, domain.MatchExact, r.Type)
}

func TestMatch_CaseSensitive(t *testing.T) {
	r := Match("SAFE", "safe", Options{CaseSensitive: true})
	assert.NotEqual(t, domain.MatchExact, r.Type)

	r = Match("SAFE", "SAFE", Options{CaseSensitive: true})
	assert.Equal(t, domain.MatchExact, r.Type)
}

func TestMatch_Contains(t *testing.T) {
	r := Match("SAFE", "This is a SAFE Agreement", Options{})
	assert.Equal(t, domain.MatchContains, r.Type)
	assert.GreaterOrEqual(t, r.Score, 0.8)
	assert.Equal(t, "SAFE", r.Span)
}

func TestMatch_ContainsCap(t *testing.T) {
	// Near-total containment is capped below exact.
	r := Match("employment agreemen", "employment agreement", Options{})
	assert.Equal(t, domain.MatchContains, r.Type)
	assert.LessOrEqual(t, r.Score, 0.95)
	assert.Less(t, r.Score, 1.0)
}

func TestMatch_ReverseContains(t *testing.T) {
	// Over-specified query against a short canonical field.
	r := Match("the acme employment contract from 2023", "acme", Options{})
	assert.Equal(t, domain.MatchContains, r.Type)
	assert.InDelta(t, 0.7, r.Score, 0.001)

	// Fields of 3 or fewer characters never reverse-match.
	r = Match("the llc formation documents", "llc", Options{})
	assert.NotEqual(t, 0.7, r.Score)
}

func TestMatch_WordOverlap(t *testing.T) {
	r := Match("advisor equity", "equity grant for technical advisor", Options{})
	assert.Equal(t, domain.MatchWordOverlap, r.Type)
	// Both words match exactly: average 1.0 scaled by 0.9.
	assert.InDelta(t, 0.9, r.Score, 0.001)
}

func TestMatch_WordOverlap_UnmatchedWordsDilute(t *testing.T) {
	full := Match("consulting agreement", "consulting services agreement", Options{})
	partial := Match("consulting agreement zanzibar", "consulting services agreement", Options{})
	assert.Greater(t, full.Score, partial.Score)
}

func TestMatch_SingleWordTypo_WordRuleWins(t *testing.T) {
	// A one-edit typo is caught by the word-overlap rule before the
	// whole-string edit-distance rule gets a look.
	r := Match("emploment", "employment", Options{})
	assert.Equal(t, domain.MatchWordOverlap, r.Type)
	assert.InDelta(t, 0.45, r.Score, 0.001)
}

func TestMatch_EditDistance(t *testing.T) {
	// Two edits: below the word rule's threshold, inside MaxEditDistance.
	r := Match("cntrct", "contract", Options{})
	require.Equal(t, domain.MatchFuzzy, r.Type)
	// distance 2 over length 8, scaled by 0.8
	assert.InDelta(t, 0.6, r.Score, 0.001)
}

func TestMatch_EditDistanceBound(t *testing.T) {
	r := Match("cntrct", "contract", Options{MaxEditDistance: 1})
	assert.NotEqual(t, 0.6, r.Score)
}

func TestMatch_SlidingWindow(t *testing.T) {
	r := Match("abcdefgh", "zzzzabxdefghzzzz", Options{})
	require.Equal(t, domain.MatchFuzzy, r.Type)
	// best window "abxdefgh" at distance 1: (1 - 1/8) * 0.7
	assert.InDelta(t, 0.6125, r.Score, 0.001)
	assert.Equal(t, "abxdefgh", r.Span)
}

func TestMatch_NoMatch(t *testing.T) {
	r := Match("quarterly revenue", "patent assignment", Options{})
	assert.Equal(t, domain.MatchNone, r.Type)
	assert.Zero(t, r.Score)
}

func TestMatch_EmptyInputs(t *testing.T) {
	assert.Equal(t, domain.MatchNone, Match("", "anything", Options{}).Type)
	assert.Equal(t, domain.MatchNone, Match("anything", "", Options{}).Type)
	assert.Equal(t, domain.MatchNone, Match("", "", Options{}).Type)
}

func TestMatchFields(t *testing.T) {
	fields := map[string]string{
		"file_name":     "safe_jane_doe.pdf",
		"document_type": "SAFE Agreement",
		"category":      "Equity & Investment",
	}
	weights := map[string]float64{
		"file_name":     1.0,
		"document_type": 0.9,
		"category":      0.5,
	}

	best, score, all := MatchFields("safe", fields, weights, Options{})
	assert.Equal(t, "file_name", best)
	assert.Greater(t, score, 0.7)
	assert.Len(t, all, 3)
}

func TestMatchFields_Deterministic(t *testing.T) {
	fields := map[string]string{"a": "identical", "b": "identical"}

	for range 20 {
		best, _, _ := MatchFields("identical", fields, nil, Options{})
		assert.Equal(t, "a", best, "sorted iteration must keep ties stable")
	}
}

type staticExpander map[string][]string

func (e staticExpander) Expansions(token string) []string { return e[token] }

func TestMatchWithAbbreviations(t *testing.T) {
	exp := staticExpander{
		"nda": {"non-disclosure agreement", "nondisclosure agreement"},
	}

	r := MatchWithAbbreviations("nda", "Mutual Non-Disclosure Agreement", exp, Options{})
	assert.Equal(t, domain.MatchAbbreviation, r.Type)
	assert.GreaterOrEqual(t, r.Score, 0.8)
}

func TestMatchWithAbbreviations_PlainWinsWhenStrong(t *testing.T) {
	exp := staticExpander{"nda": {"non-disclosure agreement"}}

	r := MatchWithAbbreviations("nda", "nda_template.docx", exp, Options{})
	assert.NotEqual(t, domain.MatchAbbreviation, r.Type)
	assert.GreaterOrEqual(t, r.Score, 0.8)
}

func TestMatchWithAbbreviations_FieldSideExpansion(t *testing.T) {
	exp := staticExpander{"nda": {"non-disclosure agreement"}}

	r := MatchWithAbbreviations("non-disclosure", "acme nda signed", exp, Options{})
	assert.Equal(t, domain.MatchAbbreviation, r.Type)
	assert.Greater(t, r.Score, 0.5)
}
