package memory

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

func writeTestCategory(t *testing.T, dir string, c *domain.MemoryCategory) {
	t.Helper()
	require.NoError(t, WriteCategory(dir, c))
}

func TestQuery_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cat := domain.MemoryCategory{
		Name:      domain.CategoryCompanyInfo,
		Title:     domain.MemoryCategoryTitles[domain.CategoryCompanyInfo],
		UpdatedAt: fixedClock(),
		QuickFacts: []domain.MemoryFactEntry{
			{Fact: "EIN: 88-1234567", Sources: []string{"ss4_form.pdf"}},
		},
	}
	writeTestCategory(t, dir, &cat)

	answer := NewEngine(dir).Query("What is our EIN?")
	require.NotNil(t, answer)
	assert.Contains(t, answer.Answer, "88-1234567")
	assert.Contains(t, answer.Sources, "ss4_form.pdf")
}

func TestQuery_SectionHeaderPullsSection(t *testing.T) {
	dir := t.TempDir()
	date := domain.NewDate(2025, time.June, 30)
	cat := domain.MemoryCategory{
		Name:      domain.CategoryKeyDates,
		Title:     domain.MemoryCategoryTitles[domain.CategoryKeyDates],
		UpdatedAt: fixedClock(),
		Sections: []domain.MemorySection{
			{Name: "Expirations", Facts: []domain.MemoryFactEntry{
				{Fact: "nda_acme.pdf expires", Date: &date, Sources: []string{"nda_acme.pdf"}},
				{Fact: "msa_globex.pdf expires", Sources: []string{"msa_globex.pdf"}},
			}},
			{Name: "Effective Dates", Facts: []domain.MemoryFactEntry{
				{Fact: "other.pdf effective", Sources: []string{"other.pdf"}},
			}},
		},
	}
	writeTestCategory(t, dir, &cat)

	answer := NewEngine(dir).Query("when does anything expire")
	require.NotNil(t, answer)
	assert.Contains(t, answer.Answer, "nda_acme.pdf expires")
	assert.Contains(t, answer.Answer, "msa_globex.pdf expires")
	assert.NotContains(t, answer.Answer, "other.pdf",
		"a matching header includes only its own section")
	assert.ElementsMatch(t, []string{"nda_acme.pdf", "msa_globex.pdf"}, answer.Sources)
}

func TestQuery_CapsLinesAndSources(t *testing.T) {
	dir := t.TempDir()
	facts := make([]domain.MemoryFactEntry, 20)
	for i := range facts {
		facts[i] = domain.MemoryFactEntry{
			Fact:    fmt.Sprintf("vendor engagement %d", i),
			Sources: []string{fmt.Sprintf("vendor_%d.pdf", i)},
		}
	}
	cat := domain.MemoryCategory{
		Name:      domain.CategoryVendors,
		Title:     domain.MemoryCategoryTitles[domain.CategoryVendors],
		UpdatedAt: fixedClock(),
		Sections:  []domain.MemorySection{{Name: "Vendor Engagements", Facts: facts}},
	}
	writeTestCategory(t, dir, &cat)

	answer := NewEngine(dir).Query("vendor")
	require.NotNil(t, answer)
	assert.LessOrEqual(t, len(strings.Split(answer.Answer, "\n")), maxAnswerLines)
	assert.LessOrEqual(t, len(answer.Sources), maxAnswerSources)
}

func TestQuery_NoMatchReturnsNil(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(dir)

	assert.Nil(t, engine.Query("quarterly kumquat projections"), "missing files are not an error")
	assert.Nil(t, engine.Query(""))

	cat := domain.MemoryCategory{
		Name:      domain.CategoryCompanyInfo,
		Title:     domain.MemoryCategoryTitles[domain.CategoryCompanyInfo],
		UpdatedAt: fixedClock(),
	}
	writeTestCategory(t, dir, &cat)
	assert.Nil(t, engine.Query("quarterly kumquat projections"))
}

func TestSerialize_Format(t *testing.T) {
	date := domain.NewDate(2025, time.January, 2)
	cat := domain.MemoryCategory{
		Name:      domain.CategoryInvestors,
		Title:     "Investors",
		UpdatedAt: fixedClock(),
		QuickFacts: []domain.MemoryFactEntry{
			{Fact: "Jane Doe: $35,000", Sources: []string{"safe_1.pdf", "safe_2.pdf"}},
		},
		Sections: []domain.MemorySection{
			{Name: "Investments", Facts: []domain.MemoryFactEntry{
				{Fact: "Jane Doe via safe_1.pdf", Value: "$25,000", Date: &date, Sources: []string{"safe_1.pdf"}},
			}},
			{Name: "Empty", Facts: nil},
		},
	}

	text := string(Serialize(&cat))
	assert.Contains(t, text, "# Investors\n")
	assert.Contains(t, text, "Last Updated: 2025-03-15 10:30:00 UTC\n")
	assert.Contains(t, text, "- Jane Doe: $35,000 (Source: safe_1.pdf, safe_2.pdf)\n")
	assert.Contains(t, text, "- Jane Doe via safe_1.pdf - $25,000 (2025-01-02) [Source: safe_1.pdf]\n")
	assert.NotContains(t, text, "## Empty", "empty sections are omitted")
}

func TestExtractSources(t *testing.T) {
	assert.Equal(t, []string{"a.pdf", "b.pdf"},
		extractSources("- EIN: 88-1234567 (Source: a.pdf, b.pdf)"))
	assert.Equal(t, []string{"c.pdf"},
		extractSources("- nda.pdf expires (2025-06-30) [Source: c.pdf]"))
	assert.Nil(t, extractSources("- a fact with no citation"))
}
