package memory

import (
	"strconv"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// extractEquity covers ownership instruments: stock grants, option
// agreements, SAFEs, cap-table movements.
func extractEquity(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	grants := newFactSet()
	instruments := newFactSet()

	for i := range records {
		rec := &records[i]
		if !mentions(rec, "equity", "stock", "shares", "option", "rsu", "vesting", "safe", "cap table", "warrant") {
			continue
		}
		source := rec.FileName()
		holder := rec.Counterparty("holder", "grantee", "purchaser", "investor", "employee")

		if shares, ok := factText(rec, "shares", "share_count", "number_of_shares", "options_granted"); ok {
			grants.add(holder+" "+shares, domain.MemoryFactEntry{
				Fact:    holder + " holds " + shares + " shares",
				Date:    rec.EffectiveDate,
				Sources: []string{source},
			})
		}

		entry := domain.MemoryFactEntry{
			Fact:    holder + ": " + describeDoc(rec),
			Date:    rec.EffectiveDate,
			Sources: []string{source},
		}
		if vesting, ok := factText(rec, "vesting_schedule", "vesting"); ok {
			entry.Fact += ", vesting " + condense(vesting, 80)
		}
		instruments.add(source, entry)
	}

	var quick []domain.MemoryFactEntry
	if !instruments.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(instruments.order)) + " equity instrument(s) on file",
			Sources: allSources(instruments),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Holdings", Facts: grants.list()},
		{Name: "Instruments", Facts: instruments.list()},
	}
	return quick, sections
}

// extractIP covers trademarks, patents, assignments, and licensing.
func extractIP(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	registrations := newFactSet()
	assignments := newFactSet()
	licenses := newFactSet()

	for i := range records {
		rec := &records[i]
		if !mentions(rec, "trademark", "patent", "copyright", "intellectual property", "ip assignment", "license", "invention") {
			continue
		}
		source := rec.FileName()

		switch {
		case mentions(rec, "assignment", "invention"):
			assignments.add(source, domain.MemoryFactEntry{
				Fact:    rec.Counterparty("assignor", "employee", "contractor") + ": " + describeDoc(rec),
				Date:    rec.EffectiveDate,
				Sources: []string{source},
			})
		case mentions(rec, "license"):
			licenses.add(source, domain.MemoryFactEntry{
				Fact:    describeDoc(rec) + " with " + rec.Counterparty("licensor", "licensee"),
				Date:    rec.EffectiveDate,
				Sources: []string{source},
			})
		default:
			entry := domain.MemoryFactEntry{
				Fact:    describeDoc(rec),
				Date:    rec.EffectiveDate,
				Sources: []string{source},
			}
			if num, ok := factText(rec, "registration_number", "serial_number", "application_number"); ok {
				entry.Fact += ", registration " + num
			}
			registrations.add(source, entry)
		}
	}

	var quick []domain.MemoryFactEntry
	if !assignments.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(assignments.order)) + " IP assignment(s) executed",
			Sources: allSources(assignments),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Registrations", Facts: registrations.list()},
		{Name: "Assignments", Facts: assignments.list()},
		{Name: "Licenses", Facts: licenses.list()},
	}
	return quick, sections
}
