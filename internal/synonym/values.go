package synonym

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// amountPattern finds the first monetary or bare numeric amount, with
// an optional thousands suffix ("$50k", "50000", "5.5k").
var amountPattern = regexp.MustCompile(`\$?\s*(\d+(?:,\d{3})*(?:\.\d+)?)\s*([kK])?`)

// ParseValueComparison recognises value phrases like "more than $50k",
// "under 10000" or "$5k or more" and returns the comparison they
// describe. The target field is inferred from surrounding vocabulary,
// defaulting to contract_value. Returns nil when the query carries no
// numeric amount.
func ParseValueComparison(query string) *domain.ValueFilter {
	lower := strings.ToLower(query)

	m := amountPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}

	// A bare number is not a value phrase: require a currency marker,
	// a thousands suffix, or comparison vocabulary. Keeps date counts
	// like "last 30 days" from becoming value filters.
	if m[2] == "" && !strings.Contains(lower, "$") && !hasComparisonCue(lower) {
		return nil
	}

	raw := strings.ReplaceAll(m[1], ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	if m[2] != "" {
		value *= 1000
	}

	return &domain.ValueFilter{
		Operator: inferOperator(lower),
		Value:    value,
		Field:    inferValueField(lower),
	}
}

// comparisonCues are words that mark a number as a value comparison.
var comparisonCues = []string{
	"over", "under", "above", "below", "more", "less", "least", "most",
	"exactly", "worth", "minimum", "maximum", "fewer", "equal",
}

// hasComparisonCue reports whether the query carries comparison
// vocabulary around its number.
func hasComparisonCue(lower string) bool {
	for _, cue := range comparisonCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// inferOperator picks the comparator from the words around the amount.
// "more than" is the default reading of a bare amount.
func inferOperator(lower string) domain.ValueComparator {
	switch {
	case strings.Contains(lower, "or more"),
		strings.Contains(lower, "at least"),
		strings.Contains(lower, "minimum"):
		return domain.CompareGE
	case strings.Contains(lower, "or less"),
		strings.Contains(lower, "at most"),
		strings.Contains(lower, "maximum"):
		return domain.CompareLE
	case strings.Contains(lower, "less than"),
		strings.Contains(lower, "under"),
		strings.Contains(lower, "below"),
		strings.Contains(lower, "fewer"):
		return domain.CompareLT
	case strings.Contains(lower, "exactly"),
		strings.Contains(lower, "equal to"):
		return domain.CompareEQ
	default:
		return domain.CompareGT
	}
}

// inferValueField maps surrounding vocabulary to the numeric metadata
// field the comparison targets.
func inferValueField(lower string) string {
	switch {
	case strings.Contains(lower, "invest"), strings.Contains(lower, "raise"),
		strings.Contains(lower, "funding"), strings.Contains(lower, "safe"):
		return "investment_amount"
	case strings.Contains(lower, "revenue"), strings.Contains(lower, "sales"),
		strings.Contains(lower, "income"), strings.Contains(lower, "earn"):
		return "revenue"
	case strings.Contains(lower, "expense"), strings.Contains(lower, "cost"),
		strings.Contains(lower, "spend"):
		return "expense"
	default:
		return "contract_value"
	}
}
