package memory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// extractCompanyInfo gathers the company's own identity facts:
// registration numbers, legal name, incorporation details, addresses.
// Most of these arrive through the open-ended critical-facts map.
func extractCompanyInfo(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	quick := newFactSet()
	identity := newFactSet()
	registrations := newFactSet()
	addresses := newFactSet()

	for i := range records {
		rec := &records[i]
		source := rec.FileName()

		if ein, ok := factText(rec, "ein", "tax_id", "employer_identification_number"); ok {
			quick.add("ein "+ein, domain.MemoryFactEntry{
				Fact:    "EIN: " + ein,
				Sources: []string{source},
			})
		}
		if name, ok := factText(rec, "company_name", "legal_name", "entity_name"); ok {
			quick.add("legal name "+name, domain.MemoryFactEntry{
				Fact:    "Legal name: " + name,
				Sources: []string{source},
			})
		}
		if state, ok := factText(rec, "state_of_incorporation", "incorporation_state", "jurisdiction"); ok {
			identity.add("incorporated "+state, domain.MemoryFactEntry{
				Fact:    "State of incorporation: " + state,
				Sources: []string{source},
			})
		}
		if dba, ok := factText(rec, "dba", "doing_business_as"); ok {
			identity.add("dba "+dba, domain.MemoryFactEntry{
				Fact:    "Doing business as: " + dba,
				Sources: []string{source},
			})
		}

		// Formation paperwork names the entity type and registry IDs.
		if mentions(rec, "formation", "incorporation", "bylaws", "operating agreement") {
			if rec.DocumentType != "" {
				registrations.add("formation doc "+rec.DocumentType, domain.MemoryFactEntry{
					Fact:    "Formation document: " + rec.DocumentType,
					Date:    rec.EffectiveDate,
					Sources: []string{source},
				})
			}
			if num, ok := factText(rec, "file_number", "registration_number", "entity_number"); ok {
				registrations.add("registration "+num, domain.MemoryFactEntry{
					Fact:    "Registration number: " + num,
					Sources: []string{source},
				})
			}
		}

		for _, party := range rec.Parties {
			if party.Address == "" {
				continue
			}
			if strings.EqualFold(party.Role, "company") || party.Organization == "" {
				addresses.add(party.Address, domain.MemoryFactEntry{
					Fact:    party.Name + " address: " + party.Address,
					Sources: []string{source},
				})
			}
		}
	}

	sections := []domain.MemorySection{
		{Name: "Identity", Facts: identity.list()},
		{Name: "Registrations", Facts: registrations.list()},
		{Name: "Addresses", Facts: addresses.list()},
	}
	return quick.list(), sections
}

// extractLegalEntities collects every distinct organization appearing
// as a party plus the governing-law values seen across agreements.
func extractLegalEntities(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	orgs := newFactSet()
	laws := newCounter()

	for i := range records {
		rec := &records[i]
		source := rec.FileName()

		for _, party := range rec.Parties {
			if party.Organization == "" {
				continue
			}
			fact := domain.MemoryFactEntry{
				Fact:    party.Organization,
				Sources: []string{source},
			}
			if party.Role != "" {
				fact.Fact += " (" + party.Role + ")"
			}
			orgs.add(party.Organization, fact)
		}

		if rec.GoverningLaw != "" {
			laws.add(rec.GoverningLaw, source)
		}
	}

	quick := []domain.MemoryFactEntry{}
	if !orgs.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    "Known organizations: " + strconv.Itoa(len(orgs.order)),
			Sources: allSources(orgs),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Organizations", Facts: orgs.list()},
		{Name: "Governing Law", Facts: laws.entries("agreements governed by ")},
	}
	return quick, sections
}

// extractCompliance surfaces obligations and the jurisdictional spread
// that compliance reviews start from.
func extractCompliance(records []domain.MetadataRecord) ([]domain.MemoryFactEntry, []domain.MemorySection) {
	obligations := newFactSet()
	jurisdictions := newCounter()
	filings := newFactSet()

	for i := range records {
		rec := &records[i]
		source := rec.FileName()

		if rec.Obligations != "" {
			obligations.add(source+" obligations", domain.MemoryFactEntry{
				Fact:    rec.FileName() + ": " + condense(rec.Obligations, 160),
				Sources: []string{source},
			})
		}
		if rec.GoverningLaw != "" {
			jurisdictions.add(rec.GoverningLaw, source)
		}
		if mentions(rec, "compliance", "filing", "permit", "license", "83(b)") {
			filings.add(source, domain.MemoryFactEntry{
				Fact:    describeDoc(rec),
				Date:    rec.EffectiveDate,
				Sources: []string{source},
			})
		}
	}

	var quick []domain.MemoryFactEntry
	if !obligations.empty() {
		quick = append(quick, domain.MemoryFactEntry{
			Fact:    strconv.Itoa(len(obligations.order)) + " documents carry tracked obligations",
			Sources: allSources(obligations),
		})
	}

	sections := []domain.MemorySection{
		{Name: "Obligations", Facts: obligations.list()},
		{Name: "Jurisdictions", Facts: jurisdictions.entries("agreements under ")},
		{Name: "Compliance Documents", Facts: filings.list()},
	}
	return quick, sections
}

// counter tallies occurrences of a normalized value with sources.
type counter struct {
	counts  map[string]int
	display map[string]string
	sources map[string][]string
}

func newCounter() *counter {
	return &counter{
		counts:  make(map[string]int),
		display: make(map[string]string),
		sources: make(map[string][]string),
	}
}

func (c *counter) add(value, source string) {
	key := normKey(value)
	if _, ok := c.display[key]; !ok {
		c.display[key] = value
	}
	c.counts[key]++
	c.sources[key] = mergeSources(c.sources[key], []string{source})
}

// entries renders "<prefix><value>" facts with occurrence counts as
// values, sorted by display value.
func (c *counter) entries(prefix string) []domain.MemoryFactEntry {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.MemoryFactEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.MemoryFactEntry{
			Fact:    prefix + c.display[k],
			Value:   strconv.Itoa(c.counts[k]) + " document(s)",
			Sources: c.sources[k],
		})
	}
	return out
}

// allSources flattens every source cited in a fact set.
func allSources(s *factSet) []string {
	var out []string
	for _, key := range s.order {
		out = mergeSources(out, s.facts[key].Sources)
	}
	return out
}

// condense trims free-form text to a single line of at most n runes.
func condense(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// describeDoc renders a one-line description of a record.
func describeDoc(rec *domain.MetadataRecord) string {
	desc := rec.FileName()
	if rec.DocumentType != "" {
		desc += " (" + rec.DocumentType + ")"
	}
	return desc
}
