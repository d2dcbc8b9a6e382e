package memory

import (
	"sort"
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// factSet collects facts deduplicated by a normalized identity key.
// Re-adding a key merges source citations into the existing entry
// instead of creating a duplicate. Iteration preserves insertion order,
// which is deterministic because aggregation consumes records sorted by
// document path.
type factSet struct {
	order []string
	facts map[string]*domain.MemoryFactEntry
}

func newFactSet() *factSet {
	return &factSet{facts: make(map[string]*domain.MemoryFactEntry)}
}

// normKey normalizes a semantic identity for deduplication.
func normKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// add inserts a fact under key, merging sources on duplicates.
func (s *factSet) add(key string, fact domain.MemoryFactEntry) {
	key = normKey(key)
	if existing, ok := s.facts[key]; ok {
		existing.Sources = mergeSources(existing.Sources, fact.Sources)
		return
	}
	entry := fact
	s.facts[key] = &entry
	s.order = append(s.order, key)
}

// list returns the facts in insertion order.
func (s *factSet) list() []domain.MemoryFactEntry {
	out := make([]domain.MemoryFactEntry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.facts[key])
	}
	return out
}

func (s *factSet) empty() bool { return len(s.order) == 0 }

// mergeSources appends the missing members of add to base.
func mergeSources(base, add []string) []string {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s] = true
	}
	for _, s := range add {
		if !seen[s] {
			seen[s] = true
			base = append(base, s)
		}
	}
	return base
}

// actorTotals accumulates running sums keyed by counterparty name.
// Totals aggregate by actor across all matching records, never
// per-document.
type actorTotals struct {
	sums    map[string]float64
	sources map[string][]string
}

func newActorTotals() *actorTotals {
	return &actorTotals{
		sums:    make(map[string]float64),
		sources: make(map[string][]string),
	}
}

// add folds one document's amount into the actor's running sum.
func (t *actorTotals) add(name string, amount float64, source string) {
	t.sums[name] += amount
	t.sources[name] = mergeSources(t.sources[name], []string{source})
}

func (t *actorTotals) empty() bool { return len(t.sums) == 0 }

// total returns the sum across all actors.
func (t *actorTotals) total() float64 {
	var sum float64
	for _, v := range t.sums {
		sum += v
	}
	return sum
}

// entries renders one fact per actor, sorted by actor name so output
// is stable. The fact text is "<name>: <amount>".
func (t *actorTotals) entries() []domain.MemoryFactEntry {
	names := make([]string, 0, len(t.sums))
	for name := range t.sums {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.MemoryFactEntry, 0, len(names))
	for _, name := range names {
		out = append(out, domain.MemoryFactEntry{
			Fact:    name + ": " + domain.FormatMoney(t.sums[name]),
			Sources: t.sources[name],
		})
	}
	return out
}
