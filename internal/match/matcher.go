// Package match implements deterministic fuzzy string scoring.
//
// A query is scored against a metadata field through a fixed cascade of
// rules, strongest first: exact equality, substring containment in
// either direction, word-level overlap, whole-string edit distance, and
// finally a sliding-window fuzzy substring search. The first rule that
// produces a keepable score wins.
package match

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// Default option values.
const (
	DefaultMaxEditDistance = 2
	DefaultMinScore        = 0.3
)

// Options configures a match.
type Options struct {
	// CaseSensitive disables case normalisation.
	CaseSensitive bool

	// MaxEditDistance bounds the whole-string Levenshtein rule.
	MaxEditDistance int

	// MinScore is the lowest score the fuzzy rules may return.
	MinScore float64
}

// withDefaults fills unset option fields.
func (o Options) withDefaults() Options {
	if o.MaxEditDistance <= 0 {
		o.MaxEditDistance = DefaultMaxEditDistance
	}
	if o.MinScore <= 0 {
		o.MinScore = DefaultMinScore
	}
	return o
}

// Result is the outcome of scoring one query against one field.
type Result struct {
	// Score is the relevance score in [0,1].
	Score float64

	// Type identifies the rule that produced the score.
	Type domain.MatchType

	// Span is the matched portion of the field, when a substring
	// rule matched.
	Span string
}

// Levenshtein returns the edit distance between a and b.
// It is zero for identical strings, symmetric, and equals the length of
// the other string when one side is empty.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	return edlib.LevenshteinDistance(a, b)
}

// Match scores query against field using the rule cascade.
func Match(query, field string, opts Options) Result {
	opts = opts.withDefaults()

	q, f := query, field
	if !opts.CaseSensitive {
		q = strings.ToLower(q)
		f = strings.ToLower(f)
	}
	q = strings.TrimSpace(q)
	f = strings.TrimSpace(f)

	if q == "" || f == "" {
		return Result{Type: domain.MatchNone}
	}

	// Rule 1: exact equality.
	if q == f {
		return Result{Score: 1.0, Type: domain.MatchExact, Span: field}
	}

	// Rule 2: field contains query.
	if idx := strings.Index(f, q); idx >= 0 {
		score := 0.8 + 0.2*float64(len(q))/float64(len(f))
		if score > 0.95 {
			score = 0.95
		}
		span := field
		if len(field) == len(f) {
			// Case-normalised offsets line up for ASCII fields;
			// fall back to the whole field otherwise.
			span = field[idx : idx+len(q)]
		}
		return Result{Score: score, Type: domain.MatchContains, Span: span}
	}

	// Rule 3: query contains field. Short canonical fields inside an
	// over-specified query still count, but only past 3 characters to
	// keep noise words out.
	if len(f) > 3 && strings.Contains(q, f) {
		return Result{Score: 0.7, Type: domain.MatchContains, Span: field}
	}

	// Rule 4: word-level partial overlap.
	if r := wordOverlap(q, f); r.Score >= opts.MinScore {
		return r
	}

	// Rule 5: whole-string edit distance.
	if dist := Levenshtein(q, f); dist <= opts.MaxEditDistance {
		maxLen := len(q)
		if len(f) > maxLen {
			maxLen = len(f)
		}
		score := 1.0 - float64(dist)/float64(maxLen)
		if score < 0.4 {
			score = 0.4
		}
		score *= 0.8
		if score >= opts.MinScore {
			return Result{Score: score, Type: domain.MatchFuzzy}
		}
	}

	// Rule 6: sliding-window fuzzy substring.
	if r := slidingWindow(q, f, field); r.Score >= opts.MinScore {
		return r
	}

	return Result{Type: domain.MatchNone}
}

// wordOverlap scores query words against field words. Each query word
// contributes its best field-word score; unmatched words contribute
// zero. The average is scaled by 0.9 so a full word-level match never
// beats a direct substring hit.
func wordOverlap(q, f string) Result {
	qWords := strings.Fields(q)
	fWords := strings.Fields(f)
	if len(qWords) == 0 || len(fWords) == 0 {
		return Result{Type: domain.MatchNone}
	}

	var total float64
	for _, qw := range qWords {
		best := 0.0
		for _, fw := range fWords {
			var s float64
			switch {
			case qw == fw:
				s = 1.0
			case strings.Contains(fw, qw) || strings.Contains(qw, fw):
				s = 0.7
			case Levenshtein(qw, fw) <= 1:
				s = 0.5
			}
			if s > best {
				best = s
			}
			if best == 1.0 {
				break
			}
		}
		total += best
	}

	score := total / float64(len(qWords)) * 0.9
	if score == 0 {
		return Result{Type: domain.MatchNone}
	}
	return Result{Score: score, Type: domain.MatchWordOverlap}
}

// slidingWindow slides a query-sized window across the field and keeps
// the closest window by edit distance, scaled by 0.7.
func slidingWindow(q, f, originalField string) Result {
	qr := []rune(q)
	fr := []rune(f)
	if len(fr) <= len(qr) {
		return Result{Type: domain.MatchNone}
	}

	bestScore := 0.0
	bestStart := -1
	for start := 0; start+len(qr) <= len(fr); start++ {
		window := string(fr[start : start+len(qr)])
		dist := Levenshtein(q, window)
		score := 1.0 - float64(dist)/float64(len(qr))
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
	}
	if bestStart < 0 {
		return Result{Type: domain.MatchNone}
	}

	span := ""
	if or := []rune(originalField); len(or) == len(fr) {
		span = string(or[bestStart : bestStart+len(qr)])
	}
	return Result{Score: bestScore * 0.7, Type: domain.MatchFuzzy, Span: span}
}

// FieldScore pairs a field name with its match result.
type FieldScore struct {
	Field  string
	Result Result
}

// MatchFields scores query against every named field independently and
// returns the best weighted hit plus all individual scores. Weights are
// per-field multipliers; missing entries default to 1.0. Iteration is
// in sorted field order so ties resolve deterministically.
func MatchFields(query string, fields map[string]string, weights map[string]float64, opts Options) (string, float64, []FieldScore) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	bestField := ""
	bestScore := 0.0
	scores := make([]FieldScore, 0, len(names))

	for _, name := range names {
		r := Match(query, fields[name], opts)
		weighted := r.Score
		if w, ok := weights[name]; ok {
			weighted *= w
		}
		scores = append(scores, FieldScore{Field: name, Result: r})
		if weighted > bestScore {
			bestScore = weighted
			bestField = name
		}
	}

	return bestField, bestScore, scores
}

// Expander supplies abbreviation expansions. Implemented by the
// synonym package; declared here so match stays dependency-light.
type Expander interface {
	// Expansions returns the known full forms for an abbreviation,
	// or nil when the token is not a registered abbreviation.
	Expansions(token string) []string
}

// MatchWithAbbreviations behaves like Match but, when the plain score
// is weak, retries against registered expansions of the query and of
// any abbreviation appearing in the field. The best result wins and is
// tagged as an abbreviation match when an expansion produced it.
func MatchWithAbbreviations(query, field string, exp Expander, opts Options) Result {
	plain := Match(query, field, opts)
	if plain.Score >= 0.8 || exp == nil {
		return plain
	}

	best := plain

	for _, full := range exp.Expansions(strings.ToLower(strings.TrimSpace(query))) {
		if r := Match(full, field, opts); r.Score > best.Score {
			best = r
			best.Type = domain.MatchAbbreviation
		}
	}

	for _, token := range strings.Fields(strings.ToLower(field)) {
		for _, full := range exp.Expansions(token) {
			expanded := strings.Replace(strings.ToLower(field), token, full, 1)
			if r := Match(query, expanded, opts); r.Score > best.Score {
				best = r
				best.Type = domain.MatchAbbreviation
			}
		}
	}

	return best
}
