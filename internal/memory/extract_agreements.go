package memory

import (
	"strconv"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// extractPartnerships tracks joint ventures, reseller deals, and other
// collaboration agreements.
func extractPartnerships(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	partners := newFactSet()
	deals := newFactSet()

	for i := range records {
		rec := &records[i]
		if !mentions(rec, "partnership", "partner", "joint venture", "reseller", "collaboration", "alliance", "mou", "memorandum of understanding") {
			continue
		}
		source := rec.FileName()
		partner := rec.Counterparty("partner", "reseller", "collaborator")

		partners.add(partner, domain.MemoryFactEntry{
			Fact:    partner,
			Sources: []string{source},
		})
		deals.add(source, domain.MemoryFactEntry{
			Fact:    partner + ": " + describeDoc(rec),
			Date:    rec.EffectiveDate,
			Sources: []string{source},
		})
	}

	var quick []domain.MemoryFactEntry
	if !partners.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(partners.order)) + " active partner(s)",
			Sources: allSources(partners),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Partners", Facts: partners.list()},
		{Name: "Agreements", Facts: deals.list()},
	}
	return quick, sections
}

// extractKeyDates pulls every dated event into one timeline: effective
// dates, expirations, execution dates.
func extractKeyDates(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	effective := newFactSet()
	expirations := newFactSet()
	executions := newFactSet()

	for i := range records {
		rec := &records[i]
		source := rec.FileName()

		if rec.EffectiveDate != nil {
			effective.add(source+" effective", domain.MemoryFactEntry{
				Fact:    describeDoc(rec) + " effective",
				Date:    rec.EffectiveDate,
				Sources: []string{source},
			})
		}
		if rec.ExpirationDate != nil {
			expirations.add(source+" expires", domain.MemoryFactEntry{
				Fact:    describeDoc(rec) + " expires",
				Date:    rec.ExpirationDate,
				Sources: []string{source},
			})
		}
		if rec.FullyExecutedDate != nil {
			executions.add(source+" executed", domain.MemoryFactEntry{
				Fact:    describeDoc(rec) + " fully executed",
				Date:    rec.FullyExecutedDate,
				Sources: []string{source},
			})
		}
	}

	var quick []domain.MemoryFactEntry
	if !expirations.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(expirations.order)) + " agreement(s) carry an expiration date",
			Sources: allSources(expirations),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Effective Dates", Facts: effective.list()},
		{Name: "Expirations", Facts: expirations.list()},
		{Name: "Execution Dates", Facts: executions.list()},
	}
	return quick, sections
}

// extractContracts summarizes the essentials of each executed
// agreement: parties, value, term, governing law.
func extractContracts(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	executed := newFactSet()
	pending := newFactSet()

	for i := range records {
		rec := &records[i]
		if rec.Status == domain.StatusTemplate {
			continue
		}
		source := rec.FileName()

		entry := domain.MemoryFactEntry{
			Fact:    describeDoc(rec) + " with " + rec.Counterparty(),
			Date:    rec.EffectiveDate,
			Sources: []string{source},
		}
		if amount, ok := domain.MoneyAmount(rec.ContractValue); ok {
			entry.Value = domain.FormatMoney(amount)
		}
		if rec.GoverningLaw != "" {
			entry.Fact += ", " + rec.GoverningLaw + " law"
		}

		switch rec.Status {
		case domain.StatusExecuted:
			executed.add(source, entry)
		case domain.StatusPartiallyExecuted, domain.StatusNotExecuted:
			pending.add(source, entry)
		}
	}

	var quick []domain.MemoryFactEntry
	if !executed.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(executed.order)) + " fully executed agreement(s)",
			Sources: allSources(executed),
		})
	}
	if !pending.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(pending.order)) + " agreement(s) awaiting signatures",
			Sources: allSources(pending),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Executed", Facts: executed.list()},
		{Name: "Awaiting Signature", Facts: pending.list()},
	}
	return quick, sections
}

// extractTemplates lists the reusable, unsigned forms in the set.
func extractTemplates(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	templates := newFactSet()

	for i := range records {
		rec := &records[i]
		if rec.Status != domain.StatusTemplate && !mentions(rec, "template", "form of", "blank") {
			continue
		}
		source := rec.FileName()
		entry := domain.MemoryFactEntry{
			Fact:    describeDoc(rec),
			Sources: []string{source},
		}
		if rec.BusinessContext != "" {
			entry.Fact += ": " + condense(rec.BusinessContext, 120)
		}
		templates.add(source, entry)
	}

	var quick []domain.MemoryFactEntry
	if !templates.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(templates.order)) + " reusable template(s) on file",
			Sources: allSources(templates),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Templates", Facts: templates.list()},
	}
	return quick, sections
}

// extractDocumentIndex is the catch-all inventory: every record, one
// line each, grouped by category.
func extractDocumentIndex(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	byCategory := make(map[string]*factSet)
	var catOrder []string

	for i := range records {
		rec := &records[i]
		source := rec.FileName()

		cat := rec.Category
		if cat == "" {
			cat = domain.DefaultCategory
		}
		set, ok := byCategory[cat]
		if !ok {
			set = newFactSet()
			byCategory[cat] = set
			catOrder = append(catOrder, cat)
		}

		entry := domain.MemoryFactEntry{
			Fact:    describeDoc(rec),
			Value:   string(rec.Status),
			Date:    rec.EffectiveDate,
			Sources: []string{source},
		}
		set.add(source, entry)
	}

	var quick []domain.MemoryFactEntry
	if len(records) > 0 {
		var all []string
		for _, cat := range catOrder {
			all = mergeSources(all, allSources(byCategory[cat]))
		}
		quick = append(quick, domain.MemoryFactEntry{
			Fact: strconv.Itoa(len(records)) + " document(s) across " +
				strconv.Itoa(len(catOrder)) + " categories",
			Sources: all,
		})
	}

	// Section order follows the taxonomy so regeneration is stable.
	sections := make([]domain.MemorySection, 0, len(catOrder))
	for _, cat := range domain.Categories {
		if set, ok := byCategory[cat]; ok {
			sections = append(sections, domain.MemorySection{Name: cat, Facts: set.list()})
		}
	}
	for _, cat := range catOrder {
		if !containsCategory(cat) {
			sections = append(sections, domain.MemorySection{Name: cat, Facts: byCategory[cat].list()})
		}
	}
	return quick, sections
}

func containsCategory(cat string) bool {
	for _, c := range domain.Categories {
		if c == cat {
			return true
		}
	}
	return false
}
