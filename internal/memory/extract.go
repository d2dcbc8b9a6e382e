package memory

import (
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// extractor produces one category's quick facts and sections from the
// full record set. Extractors are pure: same records in, same facts
// out, no I/O and no logging.
type extractor func(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection)

// extractors maps every memory category to its extraction function.
var extractors = map[string]extractor{
	domain.CategoryCompanyInfo:   extractCompanyInfo,
	domain.CategoryPeople:        extractPeople,
	domain.CategoryFinancial:     extractFinancial,
	domain.CategoryRevenue:       extractRevenue,
	domain.CategoryPartnerships:  extractPartnerships,
	domain.CategoryInvestors:     extractInvestors,
	domain.CategoryVendors:       extractVendors,
	domain.CategoryLegalEntities: extractLegalEntities,
	domain.CategoryKeyDates:      extractKeyDates,
	domain.CategoryEquity:        extractEquity,
	domain.CategoryIP:            extractIP,
	domain.CategoryCompliance:    extractCompliance,
	domain.CategoryContracts:     extractContracts,
	domain.CategoryTemplates:     extractTemplates,
	domain.CategoryDocumentIndex: extractDocumentIndex,
}

// mentions reports whether any of the record's descriptive fields
// contains any of the terms, case-insensitively. Extractors use this
// to select the records relevant to their topic.
func mentions(rec *domain.MetadataRecord, terms ...string) bool {
	haystacks := []string{
		rec.Category,
		rec.DocumentType,
		rec.FileName(),
		rec.KeyTerms,
		rec.BusinessContext,
	}
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		lower := strings.ToLower(h)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}

// factText pulls a critical fact's display text when present.
func factText(rec *domain.MetadataRecord, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := rec.FactValue(key); ok {
			if text := strings.TrimSpace(v.Text()); text != "" {
				return text, true
			}
		}
	}
	return "", false
}
