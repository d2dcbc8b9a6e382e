// Package synonym expands queries through static synonym, abbreviation
// and document-type tables, and parses value-comparison and
// relative-date phrases out of free text.
//
// The tables are deliberately static: expansion must be deterministic
// and inspectable, with no inference involved.
package synonym

import "strings"

// synonymGroups are sets of interchangeable terms. Lookup is built
// bidirectionally: every member maps to all other members.
var synonymGroups = [][]string{
	{"contract", "agreement", "deal"},
	{"employee", "staff", "worker", "hire"},
	{"investor", "backer", "shareholder"},
	{"revenue", "sales", "income", "earnings"},
	{"vendor", "supplier"},
	{"customer", "client"},
	{"purchase", "buy", "acquisition"},
	{"terminate", "cancel", "end"},
	{"salary", "compensation", "pay"},
	{"equity", "stock", "shares", "ownership"},
	{"lawyer", "attorney", "counsel"},
	{"founder", "cofounder", "co-founder"},
	{"expense", "cost", "spending"},
	{"signed", "executed"},
	{"template", "form", "boilerplate"},
}

// abbreviations map short forms to their full forms. Lookup is
// bidirectional: each full form also maps back to the short form.
var abbreviations = map[string][]string{
	"nda":  {"non-disclosure agreement", "nondisclosure agreement", "confidentiality agreement"},
	"safe": {"simple agreement for future equity"},
	"ein":  {"employer identification number", "tax id"},
	"ip":   {"intellectual property"},
	"sow":  {"statement of work"},
	"msa":  {"master service agreement", "master services agreement"},
	"loi":  {"letter of intent"},
	"llc":  {"limited liability company"},
	"mou":  {"memorandum of understanding"},
	"iso":  {"incentive stock option"},
	"rsu":  {"restricted stock unit"},
	"dpa":  {"data processing agreement"},
	"dba":  {"doing business as"},
	"spa":  {"stock purchase agreement"},
	"ica":  {"independent contractor agreement"},
}

// typeHierarchies map a general document term to the specific subtypes
// the corpus actually uses. Used to broaden type matching, not to
// rewrite queries.
var typeHierarchies = map[string][]string{
	"agreement": {
		"nda", "msa", "sow", "safe",
		"employment agreement", "consulting agreement",
		"stock purchase agreement", "partnership agreement",
	},
	"equity document": {
		"safe", "stock purchase agreement", "option grant",
		"restricted stock purchase agreement", "cap table",
	},
	"employment document": {
		"offer letter", "employment agreement",
		"independent contractor agreement", "piia",
	},
	"formation document": {
		"certificate of incorporation", "bylaws",
		"operating agreement", "board consent",
	},
}

// Expander resolves tokens against the static tables.
type Expander struct {
	synonyms map[string][]string
	abbrevs  map[string][]string
}

// NewExpander builds an expander with the bidirectional closure of the
// static tables precomputed.
func NewExpander() *Expander {
	syn := make(map[string][]string)
	for _, group := range synonymGroups {
		for _, word := range group {
			for _, other := range group {
				if other != word {
					syn[word] = append(syn[word], other)
				}
			}
		}
	}

	abb := make(map[string][]string, len(abbreviations)*3)
	for short, fulls := range abbreviations {
		abb[short] = append(abb[short], fulls...)
		for _, full := range fulls {
			abb[full] = append(abb[full], short)
		}
	}

	return &Expander{synonyms: syn, abbrevs: abb}
}

// Synonyms returns the synonym set for token, or nil.
func (e *Expander) Synonyms(token string) []string {
	return e.synonyms[strings.ToLower(token)]
}

// Expansions returns the registered expansions for an abbreviation (or
// the abbreviation for a known full form). Nil when unregistered.
// Satisfies the match package's Expander interface.
func (e *Expander) Expansions(token string) []string {
	return e.abbrevs[strings.ToLower(token)]
}

// Subtypes returns the specific document types under a general term.
func (e *Expander) Subtypes(term string) []string {
	return typeHierarchies[strings.ToLower(term)]
}

// Expand produces the variant set for a query: the original query
// first, then one variant per synonym or abbreviation expansion of each
// token, each with the token replaced in place. The result is an
// insertion-ordered set, so repeated calls produce identical slices.
func (e *Expander) Expand(query string) []string {
	normalized := strings.ToLower(strings.TrimSpace(query))

	variants := []string{normalized}
	seen := map[string]bool{normalized: true}
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	tokens := strings.Fields(normalized)
	for i, token := range tokens {
		replace := func(with string) string {
			parts := make([]string, len(tokens))
			copy(parts, tokens)
			parts[i] = with
			return strings.Join(parts, " ")
		}

		for _, syn := range e.synonyms[token] {
			add(replace(syn))
		}
		for _, full := range e.abbrevs[token] {
			add(replace(full))
		}
	}

	// Whole-query abbreviation hits cover multi-word full forms.
	if len(tokens) > 1 {
		for _, exp := range e.abbrevs[normalized] {
			add(exp)
		}
	}

	return variants
}
