package memory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// extractPeople builds the people directory: everyone who signed
// something or appears as a named party, with contact details when the
// extractor captured them.
func extractPeople(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	type person struct {
		name       string
		titles     []string
		emails     []string
		roles      []string
		signed     int
		lastSigned *domain.Date
		sources    []string
	}

	people := make(map[string]*person)
	var order []string

	get := func(name string) *person {
		key := normKey(name)
		if p, ok := people[key]; ok {
			return p
		}
		p := &person{name: strings.TrimSpace(name)}
		people[key] = p
		order = append(order, key)
		return p
	}

	for i := range records {
		rec := &records[i]
		source := rec.FileName()

		for _, signer := range rec.Signers {
			if strings.TrimSpace(signer.Name) == "" {
				continue
			}
			p := get(signer.Name)
			p.signed++
			p.sources = mergeSources(p.sources, []string{source})
			if signer.SignedDate != nil {
				if p.lastSigned == nil || signer.SignedDate.After(p.lastSigned.Time) {
					p.lastSigned = signer.SignedDate
				}
			}
		}

		for _, party := range rec.Parties {
			if strings.TrimSpace(party.Name) == "" || party.Organization != "" {
				continue
			}
			p := get(party.Name)
			p.sources = mergeSources(p.sources, []string{source})
			if party.Title != "" && !containsFold(p.titles, party.Title) {
				p.titles = append(p.titles, party.Title)
			}
			if party.Email != "" && !containsFold(p.emails, party.Email) {
				p.emails = append(p.emails, party.Email)
			}
			if party.Role != "" && !containsFold(p.roles, party.Role) {
				p.roles = append(p.roles, party.Role)
			}
		}
	}

	quick := []domain.MemoryFactEntry{}
	if len(order) > 0 {
		var everyone []string
		for _, key := range order {
			everyone = mergeSources(everyone, people[key].sources)
		}
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(order)) + " people appear across the document set",
			Sources: everyone,
		})
	}

	directory := make([]domain.MemoryFactEntry, 0, len(order))
	signatures := make([]domain.MemoryFactEntry, 0, len(order))

	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.Strings(sorted)

	for _, key := range sorted {
		p := people[key]

		desc := p.name
		if len(p.titles) > 0 {
			desc += ", " + strings.Join(p.titles, "; ")
		}
		if len(p.roles) > 0 {
			desc += " (" + strings.Join(p.roles, ", ") + ")"
		}
		if len(p.emails) > 0 {
			desc += " <" + strings.Join(p.emails, ", ") + ">"
		}
		directory = append(directory, domain.MemoryFactEntry{
			Fact:    desc,
			Sources: p.sources,
		})

		if p.signed > 0 {
			signatures = append(signatures, domain.MemoryFactEntry{
				Fact:    p.name + " signed " + strconv.Itoa(p.signed) + " document(s)",
				Date:    p.lastSigned,
				Sources: p.sources,
			})
		}
	}

	sections := []domain.MemorySection{
		{Name: "Directory", Facts: directory},
		{Name: "Signature Activity", Facts: signatures},
	}
	return quick, sections
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
