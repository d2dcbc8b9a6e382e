package memory

import (
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// categoryRoutes maps lowercase keywords found in a record's
// descriptive fields to the memory categories a change to that record
// can affect. The people directory, key dates, contract essentials, and
// document index track every record, so they are always included.
var categoryRoutes = []struct {
	keywords   []string
	categories []string
}{
	{
		keywords:   []string{"formation", "incorporation", "bylaws", "operating agreement", "ein", "registered agent"},
		categories: []string{domain.CategoryCompanyInfo, domain.CategoryLegalEntities},
	},
	{
		keywords:   []string{"safe", "investment", "investor", "convertible note", "stock purchase", "financing", "seed", "series"},
		categories: []string{domain.CategoryInvestors, domain.CategoryFinancial, domain.CategoryEquity},
	},
	{
		keywords:   []string{"revenue", "sales", "invoice", "customer", "order form", "purchase order"},
		categories: []string{domain.CategoryRevenue, domain.CategoryFinancial},
	},
	{
		keywords:   []string{"vendor", "supplier", "consulting", "contractor", "subscription", "saas", "service agreement"},
		categories: []string{domain.CategoryVendors, domain.CategoryFinancial},
	},
	{
		keywords:   []string{"partnership", "partner", "joint venture", "reseller", "collaboration", "alliance", "mou"},
		categories: []string{domain.CategoryPartnerships},
	},
	{
		keywords:   []string{"equity", "stock", "shares", "option", "rsu", "vesting", "warrant", "cap table"},
		categories: []string{domain.CategoryEquity, domain.CategoryFinancial},
	},
	{
		keywords:   []string{"trademark", "patent", "copyright", "intellectual property", "ip assignment", "license", "invention"},
		categories: []string{domain.CategoryIP},
	},
	{
		keywords:   []string{"compliance", "filing", "permit", "83(b)", "obligation"},
		categories: []string{domain.CategoryCompliance},
	},
	{
		keywords:   []string{"template", "form of", "blank"},
		categories: []string{domain.CategoryTemplates},
	},
}

// alwaysCategories are rebuilt on every document change because their
// extractors read every record.
var alwaysCategories = []string{
	domain.CategoryPeople,
	domain.CategoryKeyDates,
	domain.CategoryContracts,
	domain.CategoryDocumentIndex,
}

// RouteCategories decides which memory categories a changed record
// affects. When no keyword route matches beyond the always-on set, it
// returns nil, which callers treat as "regenerate everything": a record
// we cannot classify may belong anywhere.
func RouteCategories(rec *domain.MetadataRecord) []string {
	haystack := strings.ToLower(strings.Join([]string{
		rec.Category,
		rec.DocumentType,
		rec.FileName(),
		rec.KeyTerms,
		rec.BusinessContext,
	}, " "))

	var matched []string
	for _, route := range categoryRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(haystack, kw) {
				matched = mergeSources(matched, route.categories)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return mergeSources(matched, alwaysCategories)
}
