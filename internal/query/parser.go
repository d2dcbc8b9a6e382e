package query

import (
	"strings"
	"time"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/synonym"
)

// statusAliases maps the spellings users type after "status:" to the
// canonical execution statuses.
var statusAliases = map[string]domain.ExecutionStatus{
	"not_executed":       domain.StatusNotExecuted,
	"unexecuted":         domain.StatusNotExecuted,
	"unsigned":           domain.StatusNotExecuted,
	"partially_executed": domain.StatusPartiallyExecuted,
	"partial":            domain.StatusPartiallyExecuted,
	"executed":           domain.StatusExecuted,
	"signed":             domain.StatusExecuted,
	"template":           domain.StatusTemplate,
	"templates":          domain.StatusTemplate,
}

// Parser builds ParsedQuery values. It owns the expander so variant
// generation shares one set of static tables.
type Parser struct {
	expander *synonym.Expander
	now      func() time.Time
}

// NewParser returns a parser using the given expander. The clock
// defaults to time.Now and can be overridden for tests via WithClock.
func NewParser(expander *synonym.Expander) *Parser {
	return &Parser{expander: expander, now: time.Now}
}

// WithClock substitutes the wall clock used for relative-date parsing.
func (p *Parser) WithClock(now func() time.Time) *Parser {
	p.now = now
	return p
}

// Expander exposes the parser's expander for abbreviation-aware
// matching downstream.
func (p *Parser) Expander() *synonym.Expander {
	return p.expander
}

// Parse analyzes raw into a ParsedQuery: structured filter tokens are
// stripped out, value-comparison and relative-date phrases become
// filters, and the remaining text is expanded into variants.
func (p *Parser) Parse(raw string) *domain.ParsedQuery {
	parsed := &domain.ParsedQuery{
		Original:       raw,
		Classification: Classify(raw),
	}

	var textTokens []string
	for _, token := range strings.Fields(strings.TrimSpace(raw)) {
		lower := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lower, "status:"):
			if status, ok := statusAliases[strings.TrimPrefix(lower, "status:")]; ok {
				parsed.Statuses = append(parsed.Statuses, status)
			}
		case strings.HasPrefix(lower, "category:"):
			if c := strings.TrimPrefix(lower, "category:"); c != "" {
				parsed.Categories = append(parsed.Categories, strings.ReplaceAll(c, "_", " "))
			}
		default:
			textTokens = append(textTokens, lower)
		}
	}

	parsed.Normalized = strings.TrimRight(strings.Join(textTokens, " "), "?!.")
	parsed.Value = synonym.ParseValueComparison(parsed.Normalized)
	parsed.Dates = synonym.ParseRelativeDate(parsed.Normalized, p.now())
	parsed.Variants = p.expander.Expand(parsed.Normalized)

	return parsed
}
