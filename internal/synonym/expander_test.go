package synonym

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

func TestExpand_AbbreviationNDA(t *testing.T) {
	e := NewExpander()

	variants := e.Expand("nda")

	require.NotEmpty(t, variants)
	assert.Equal(t, "nda", variants[0], "original query always comes first")
	assert.Contains(t, variants, "non-disclosure agreement")
	assert.Contains(t, variants, "nondisclosure agreement")
}

func TestExpand_TokenReplacedInPlace(t *testing.T) {
	e := NewExpander()

	variants := e.Expand("signed nda documents")

	assert.Contains(t, variants, "signed nda documents")
	assert.Contains(t, variants, "signed non-disclosure agreement documents")
	assert.Contains(t, variants, "executed nda documents")
}

func TestExpand_Synonyms(t *testing.T) {
	e := NewExpander()

	variants := e.Expand("vendor contract")

	assert.Contains(t, variants, "supplier contract")
	assert.Contains(t, variants, "vendor agreement")
	assert.Contains(t, variants, "vendor deal")
}

func TestExpand_StableOrder(t *testing.T) {
	e := NewExpander()

	first := e.Expand("investor agreement")
	for range 10 {
		assert.Equal(t, first, e.Expand("investor agreement"))
	}
}

func TestExpand_UnknownTokensPassThrough(t *testing.T) {
	e := NewExpander()

	variants := e.Expand("zanzibar flotilla")
	assert.Equal(t, []string{"zanzibar flotilla"}, variants)
}

func TestExpansions_Bidirectional(t *testing.T) {
	e := NewExpander()

	assert.Contains(t, e.Expansions("nda"), "non-disclosure agreement")
	assert.Contains(t, e.Expansions("non-disclosure agreement"), "nda")
	assert.Nil(t, e.Expansions("zanzibar"))
}

func TestSynonyms_Bidirectional(t *testing.T) {
	e := NewExpander()

	assert.Contains(t, e.Synonyms("revenue"), "sales")
	assert.Contains(t, e.Synonyms("sales"), "revenue")
}

func TestSubtypes(t *testing.T) {
	e := NewExpander()

	assert.Contains(t, e.Subtypes("agreement"), "nda")
	assert.Nil(t, e.Subtypes("zanzibar"))
}

func TestParseValueComparison(t *testing.T) {
	tests := []struct {
		query string
		want  *domain.ValueFilter
	}{
		{
			query: "investment over $50k",
			want:  &domain.ValueFilter{Operator: domain.CompareGT, Value: 50000, Field: "investment_amount"},
		},
		{
			query: "contracts under 10000",
			want:  &domain.ValueFilter{Operator: domain.CompareLT, Value: 10000, Field: "contract_value"},
		},
		{
			query: "revenue of $5k or more",
			want:  &domain.ValueFilter{Operator: domain.CompareGE, Value: 5000, Field: "revenue"},
		},
		{
			query: "expenses of $2,500 or less",
			want:  &domain.ValueFilter{Operator: domain.CompareLE, Value: 2500, Field: "expense"},
		},
		{
			query: "deals worth exactly $1000",
			want:  &domain.ValueFilter{Operator: domain.CompareEQ, Value: 1000, Field: "contract_value"},
		},
		{
			query: "show employment agreements",
			want:  nil,
		},
	}

	for _, tt := range tests {
		got := ParseValueComparison(tt.query)
		if tt.want == nil {
			assert.Nil(t, got, tt.query)
			continue
		}
		require.NotNil(t, got, tt.query)
		assert.Equal(t, *tt.want, *got, tt.query)
	}
}

func TestParseRelativeDate_FixedClock(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) // a Saturday

	tests := []struct {
		query    string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			query:    "documents from the last 30 days",
			wantFrom: time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC),
			wantTo:   now,
		},
		{
			query:    "expiring in the next 2 weeks",
			wantFrom: now,
			wantTo:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			query:    "signed yesterday",
			wantFrom: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			query:    "executed this month",
			wantFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   now,
		},
		{
			query:    "signed this week",
			wantFrom: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), // Monday
			wantTo:   now,
		},
		{
			query:    "this year",
			wantFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   now,
		},
	}

	for _, tt := range tests {
		got := ParseRelativeDate(tt.query, now)
		require.False(t, got.IsZero(), tt.query)
		assert.Equal(t, tt.wantFrom, got.From, tt.query)
		assert.Equal(t, tt.wantTo, got.To, tt.query)
	}
}

func TestParseRelativeDate_NoPhrase(t *testing.T) {
	got := ParseRelativeDate("employment agreements", time.Now())
	assert.True(t, got.IsZero())
}
