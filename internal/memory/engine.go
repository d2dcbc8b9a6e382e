package memory

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/logger"
)

// answer caps keep point-query responses readable.
const (
	maxAnswerLines   = 10
	maxAnswerSources = 5
)

// trigger routes a keyword found in the query to a category file and
// the term to search it with.
type trigger struct {
	keywords []string
	category string
	term     string
}

// triggers is the routing priority list: the first trigger whose
// keyword appears in the query wins.
var triggers = []trigger{
	{[]string{"ein", "tax id", "employer identification"}, domain.CategoryCompanyInfo, "ein"},
	{[]string{"incorporat", "formation", "legal name"}, domain.CategoryCompanyInfo, "incorporation"},
	{[]string{"revenue", "sales", "income"}, domain.CategoryRevenue, "revenue"},
	{[]string{"invest", "safe", "fundrais", "financing"}, domain.CategoryInvestors, "invest"},
	{[]string{"vendor", "supplier", "spend"}, domain.CategoryVendors, "vendor"},
	{[]string{"partner", "joint venture", "reseller"}, domain.CategoryPartnerships, "partner"},
	{[]string{"equity", "shares", "stock", "option", "vesting", "cap table"}, domain.CategoryEquity, "shares"},
	{[]string{"trademark", "patent", "copyright", "intellectual property"}, domain.CategoryIP, "registration"},
	{[]string{"compliance", "obligation", "filing"}, domain.CategoryCompliance, "obligation"},
	{[]string{"expire", "expiration", "deadline", "renewal"}, domain.CategoryKeyDates, "expires"},
	{[]string{"signed", "executed", "signature"}, domain.CategoryContracts, "executed"},
	{[]string{"template", "form of"}, domain.CategoryTemplates, "template"},
	{[]string{"who", "people", "director", "officer", "employee"}, domain.CategoryPeople, ""},
}

// fallbackCategories is scanned in order with the raw query when no
// trigger matches.
var fallbackCategories = []string{
	domain.CategoryCompanyInfo,
	domain.CategoryFinancial,
	domain.CategoryContracts,
	domain.CategoryKeyDates,
	domain.CategoryDocumentIndex,
}

// Engine answers direct-fact queries by keyword retrieval over the
// generated memory files. It reads whatever the aggregator last wrote;
// it holds no state beyond the directory path.
type Engine struct {
	dir string
}

// NewEngine creates a query engine reading category files from dir.
func NewEngine(dir string) *Engine {
	return &Engine{dir: dir}
}

// Query looks the text up in the memory files. It returns nil when
// nothing matches; absence of an answer is not an error.
func (e *Engine) Query(text string) *domain.MemoryAnswer {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return nil
	}

	for _, t := range triggers {
		for _, kw := range t.keywords {
			if !strings.Contains(lowered, kw) {
				continue
			}
			term := t.term
			if term == "" {
				term = lowered
			}
			if answer := e.scanCategory(t.category, term); answer != nil {
				return answer
			}
			// Trigger matched but the category had nothing; try the
			// remaining triggers, then the generic scan.
			break
		}
	}

	for _, category := range fallbackCategories {
		if answer := e.scanCategory(category, lowered); answer != nil {
			return answer
		}
	}
	return nil
}

// scanCategory searches one category file line by line. A matching
// section header includes every line until the next header; a matching
// content line is included directly.
func (e *Engine) scanCategory(category, term string) *domain.MemoryAnswer {
	path := filepath.Join(e.dir, CategoryFileName(category))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("memory file %s: %v", path, err)
		}
		return nil
	}

	term = strings.ToLower(term)
	lines := strings.Split(string(data), "\n")

	var (
		matched   []string
		sources   []string
		inSection bool
	)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if isSectionHeader(trimmed) {
			inSection = strings.Contains(strings.ToLower(trimmed), term)
			if inSection {
				matched = append(matched, trimmed)
			}
			continue
		}

		include := inSection || strings.Contains(strings.ToLower(trimmed), term)
		if !include {
			continue
		}
		matched = append(matched, trimmed)
		sources = mergeSources(sources, extractSources(trimmed))

		if len(matched) >= maxAnswerLines {
			break
		}
	}

	if len(matched) == 0 {
		return nil
	}
	if len(sources) > maxAnswerSources {
		sources = sources[:maxAnswerSources]
	}

	return &domain.MemoryAnswer{
		Answer:  strings.Join(matched, "\n"),
		Sources: sources,
	}
}
