package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

// CategoryFileName returns the file name for a category.
func CategoryFileName(category string) string {
	return category + ".md"
}

// timestampLayout renders the "Last Updated" line.
const timestampLayout = "2006-01-02 15:04:05 MST"

// Serialize renders a category in the fixed text format:
//
//	# <title>
//
//	Last Updated: <timestamp>
//
//	## Quick Facts
//
//	- <fact> (Source: <source>)
//
//	## <section>
//
//	- <fact>[ - <value>][ (<date>)] [Source: <source>]
//
// The format is both the aggregation output and the query engine's
// input; Serialize and the engine's line parser must round-trip.
func Serialize(c *domain.MemoryCategory) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "Last Updated: %s\n\n", c.UpdatedAt.UTC().Format(timestampLayout))

	b.WriteString("## Quick Facts\n\n")
	if len(c.QuickFacts) == 0 {
		b.WriteString("- No facts recorded yet\n")
	}
	for _, f := range c.QuickFacts {
		fmt.Fprintf(&b, "- %s (Source: %s)\n", f.Fact, joinSources(f.Sources))
	}

	for _, section := range c.Sections {
		if len(section.Facts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", section.Name)
		for _, f := range section.Facts {
			b.WriteString("- ")
			b.WriteString(f.Fact)
			if f.Value != "" {
				b.WriteString(" - ")
				b.WriteString(f.Value)
			}
			if f.Date != nil {
				fmt.Fprintf(&b, " (%s)", f.Date.String())
			}
			if len(f.Sources) > 0 {
				fmt.Fprintf(&b, " [Source: %s]", joinSources(f.Sources))
			}
			b.WriteByte('\n')
		}
	}

	return []byte(b.String())
}

// joinSources renders a source list; facts always cite at least one
// document, but an empty list still serializes cleanly.
func joinSources(sources []string) string {
	if len(sources) == 0 {
		return "unknown"
	}
	return strings.Join(sources, ", ")
}

// WriteCategory atomically replaces the category's file under dir.
func WriteCategory(dir string, c *domain.MemoryCategory) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("memory dir: %w", err)
	}

	final := filepath.Join(dir, CategoryFileName(c.Name))
	tmp := final + ".tmp"

	if err := os.WriteFile(tmp, Serialize(c), 0600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("replace %s: %w", final, err)
	}
	return nil
}

// extractSources pulls the cited documents out of one serialized line.
// Both citation forms are recognised: "(Source: a, b)" on quick facts
// and "[Source: a, b]" on section facts.
func extractSources(line string) []string {
	for _, bounds := range [][2]string{{"(Source: ", ")"}, {"[Source: ", "]"}} {
		start := strings.LastIndex(line, bounds[0])
		if start < 0 {
			continue
		}
		rest := line[start+len(bounds[0]):]
		end := strings.Index(rest, bounds[1])
		if end < 0 {
			continue
		}
		var sources []string
		for _, s := range strings.Split(rest[:end], ", ") {
			if s = strings.TrimSpace(s); s != "" && s != "unknown" {
				sources = append(sources, s)
			}
		}
		return sources
	}
	return nil
}

// isSectionHeader reports whether a serialized line opens a section.
func isSectionHeader(line string) bool {
	return strings.HasPrefix(line, "## ")
}
