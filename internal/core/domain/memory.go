package domain

import "time"

// Memory category names. Each maps to one generated file in the memory
// directory and is rebuilt as a whole on every aggregation pass.
const (
	CategoryCompanyInfo      = "company_info"
	CategoryPeople           = "people_directory"
	CategoryFinancial        = "financial_summary"
	CategoryRevenue          = "revenue_and_sales"
	CategoryPartnerships     = "partnerships"
	CategoryInvestors        = "investors"
	CategoryVendors          = "vendors_and_suppliers"
	CategoryLegalEntities    = "legal_entities"
	CategoryKeyDates         = "key_dates"
	CategoryEquity           = "equity_and_ownership"
	CategoryIP               = "intellectual_property"
	CategoryCompliance       = "compliance"
	CategoryContracts        = "contract_essentials"
	CategoryTemplates        = "template_library"
	CategoryDocumentIndex    = "document_index"
)

// MemoryCategoryNames lists every category in generation order.
var MemoryCategoryNames = []string{
	CategoryCompanyInfo,
	CategoryPeople,
	CategoryFinancial,
	CategoryRevenue,
	CategoryPartnerships,
	CategoryInvestors,
	CategoryVendors,
	CategoryLegalEntities,
	CategoryKeyDates,
	CategoryEquity,
	CategoryIP,
	CategoryCompliance,
	CategoryContracts,
	CategoryTemplates,
	CategoryDocumentIndex,
}

// MemoryCategoryTitles maps category names to their display titles.
var MemoryCategoryTitles = map[string]string{
	CategoryCompanyInfo:   "Company Information",
	CategoryPeople:        "People Directory",
	CategoryFinancial:     "Financial Summary",
	CategoryRevenue:       "Revenue & Sales",
	CategoryPartnerships:  "Partnerships",
	CategoryInvestors:     "Investors",
	CategoryVendors:       "Vendors & Suppliers",
	CategoryLegalEntities: "Legal Entities",
	CategoryKeyDates:      "Key Dates",
	CategoryEquity:        "Equity & Ownership",
	CategoryIP:            "Intellectual Property",
	CategoryCompliance:    "Compliance",
	CategoryContracts:     "Contract Essentials",
	CategoryTemplates:     "Template Library",
	CategoryDocumentIndex: "Document Index",
}

// MemoryFactEntry is one fact inside a memory category section. Entries
// only live inside a MemoryCategory; they are never persisted alone.
type MemoryFactEntry struct {
	// Fact is the human-readable fact text.
	Fact string

	// Source references the document(s) the fact was drawn from.
	Sources []string

	// Date qualifies time-bound facts (signatures, expirations).
	Date *Date

	// Value qualifies monetary or quantitative facts, already
	// formatted for display.
	Value string

	// Meta carries extractor-specific annotations that survive into
	// the serialized form only as display text.
	Meta map[string]string
}

// MemorySection is a named, ordered group of facts.
type MemorySection struct {
	Name  string
	Facts []MemoryFactEntry
}

// MemoryCategory is a topic-partitioned aggregation of facts drawn
// from the full metadata set. Regenerating it from the same metadata
// is deterministic and fully replaces any prior content.
type MemoryCategory struct {
	Name       string
	Title      string
	UpdatedAt  time.Time
	QuickFacts []MemoryFactEntry
	Sections   []MemorySection
}

// Empty reports whether the category carries no facts at all.
func (c *MemoryCategory) Empty() bool {
	if len(c.QuickFacts) > 0 {
		return false
	}
	for _, s := range c.Sections {
		if len(s.Facts) > 0 {
			return false
		}
	}
	return true
}

// MemoryAnswer is the result of a point query against the memory files.
type MemoryAnswer struct {
	Answer  string
	Sources []string
}

// MemoryStats summarizes the generated memory files on disk.
type MemoryStats struct {
	// Dir is the memory directory.
	Dir string

	// Categories is the number of category files present.
	Categories int

	// UpdatedAt is the newest category file's modification time, zero
	// when no files exist.
	UpdatedAt time.Time
}
