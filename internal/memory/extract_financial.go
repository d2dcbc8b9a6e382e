package memory

import (
	"strconv"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// extractFinancial summarizes money flowing through the document set:
// per-counterparty totals rolled up across every priced document, plus
// the individual priced agreements.
func extractFinancial(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	totals := newActorTotals()
	priced := newFactSet()

	for i := range records {
		rec := &records[i]
		amount, ok := domain.MoneyAmount(rec.ContractValue)
		if !ok {
			continue
		}
		source := rec.FileName()

		totals.add(rec.Counterparty("investor", "customer", "client", "vendor", "supplier"), amount, source)
		priced.add(source, domain.MemoryFactEntry{
			Fact:    describeDoc(rec),
			Value:   domain.FormatMoney(amount),
			Date:    rec.EffectiveDate,
			Sources: []string{source},
		})
	}

	// Quick facts are the per-actor totals: one line per counterparty,
	// amounts summed across all of their documents.
	quick := totals.entries()

	sections := []domain.MemorySection{
		{Name: "Priced Documents", Facts: priced.list()},
	}
	if !totals.empty() {
		sections = append(sections, domain.MemorySection{
			Name: "Totals",
			Facts: []domain.MemoryFactEntry{{
				Fact:    "Total tracked value across " + strconv.Itoa(len(priced.order)) + " document(s)",
				Value:   domain.FormatMoney(totals.total()),
				Sources: allSources(priced),
			}},
		})
	}
	return quick, sections
}

// extractRevenue covers income-side documents: sales agreements,
// customer contracts, invoices.
func extractRevenue(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	totals := newActorTotals()
	agreements := newFactSet()

	for i := range records {
		rec := &records[i]
		if !mentions(rec, "revenue", "sales", "invoice", "customer", "order form", "purchase order") {
			continue
		}
		source := rec.FileName()

		agreements.add(source, domain.MemoryFactEntry{
			Fact:    describeDoc(rec),
			Value:   rec.ContractValue,
			Date:    rec.EffectiveDate,
			Sources: []string{source},
		})
		if amount, ok := domain.MoneyAmount(rec.ContractValue); ok {
			totals.add(rec.Counterparty("customer", "client", "buyer"), amount, source)
		}
	}

	quick := totals.entries()
	if !totals.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    "Tracked revenue: " + domain.FormatMoney(totals.total()),
			Sources: allSources(agreements),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Revenue Agreements", Facts: agreements.list()},
	}
	return quick, sections
}

// extractInvestors tracks money coming in from investors: SAFEs,
// convertible notes, stock purchase agreements.
func extractInvestors(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	totals := newActorTotals()
	rounds := newFactSet()

	for i := range records {
		rec := &records[i]
		if !mentions(rec, "safe", "investment", "investor", "convertible note", "stock purchase", "financing", "seed", "series") {
			continue
		}
		source := rec.FileName()
		investor := rec.Counterparty("investor", "purchaser", "lender")

		amount, priced := domain.MoneyAmount(rec.ContractValue)
		if !priced {
			if v, ok := factText(rec, "investment_amount", "purchase_amount", "principal"); ok {
				amount, priced = domain.MoneyAmount(v)
			}
		}
		if priced {
			totals.add(investor, amount, source)
		}

		entry := domain.MemoryFactEntry{
			Fact:    investor + " via " + describeDoc(rec),
			Date:    rec.EffectiveDate,
			Sources: []string{source},
		}
		if priced {
			entry.Value = domain.FormatMoney(amount)
		}
		if valCap, ok := factText(rec, "valuation_cap", "cap"); ok {
			entry.Fact += ", cap " + valCap
		}
		rounds.add(source, entry)
	}

	quick := totals.entries()
	if !totals.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    "Total invested: " + domain.FormatMoney(totals.total()),
			Sources: allSources(rounds),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Investments", Facts: rounds.list()},
	}
	return quick, sections
}

// extractVendors covers money going out: supplier and service-provider
// agreements.
func extractVendors(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	totals := newActorTotals()
	engagements := newFactSet()

	for i := range records {
		rec := &records[i]
		if !mentions(rec, "vendor", "supplier", "service agreement", "services", "consulting", "contractor", "subscription", "saas") {
			continue
		}
		source := rec.FileName()
		vendor := rec.Counterparty("vendor", "supplier", "contractor", "provider", "consultant")

		entry := domain.MemoryFactEntry{
			Fact:    vendor + ": " + describeDoc(rec),
			Date:    rec.EffectiveDate,
			Sources: []string{source},
		}
		if amount, ok := domain.MoneyAmount(rec.ContractValue); ok {
			totals.add(vendor, amount, source)
			entry.Value = domain.FormatMoney(amount)
		}
		engagements.add(source, entry)
	}

	quick := totals.entries()
	if !totals.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    "Total vendor spend: " + domain.FormatMoney(totals.total()),
			Sources: allSources(engagements),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Vendor Engagements", Facts: engagements.list()},
	}
	return quick, sections
}
