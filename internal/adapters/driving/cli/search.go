package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

var (
	searchLimit    int
	searchJSON     bool
	searchRoute    string
	searchNoMemory bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the organized documents",
	Long: `Searches filenames and sidecar metadata with fuzzy matching.
Question-like queries also consult the aggregated memory files, and an
external AI searcher when one is configured.

Structured filters can be embedded in the query:
  status:executed employment     only fully executed documents
  category:fundraising safe      only a metadata category
  agreements over $50k           numeric value filters
  signed in the last 30 days     relative date filters`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchRoute, "route", "", "force a resolution path: fast, semantic, or hybrid")
	searchCmd.Flags().BoolVar(&searchNoMemory, "no-memory", false, "skip the memory engine")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	switch domain.QueryRoute(searchRoute) {
	case "", domain.RouteFast, domain.RouteSemantic, domain.RouteHybrid:
	default:
		return fmt.Errorf("unknown route %q: want fast, semantic, or hybrid", searchRoute)
	}

	opts := domain.SearchOptions{
		MaxResults: searchLimit,
		Route:      domain.QueryRoute(searchRoute),
		SkipMemory: searchNoMemory,
	}

	result, err := searchService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printUnifiedResult(cmd, result)
	return nil
}

func printUnifiedResult(cmd *cobra.Command, result *domain.UnifiedSearchResult) {
	if result.MemoryAnswer != nil {
		cmd.Println("Answer (from memory):")
		cmd.Println(indent(result.MemoryAnswer.Answer))
		if len(result.MemoryAnswer.Sources) > 0 {
			cmd.Printf("  Sources: %v\n", result.MemoryAnswer.Sources)
		}
		cmd.Println()
	}

	if result.SemanticAnswer != "" {
		cmd.Println("Answer (AI):")
		cmd.Println(indent(result.SemanticAnswer))
		cmd.Println()
	}

	if len(result.Results) == 0 {
		if result.MemoryAnswer == nil && result.SemanticAnswer == "" {
			cmd.Println("No results found.")
			for _, s := range result.Suggestions {
				cmd.Printf("  - %s\n", s)
			}
		}
		return
	}

	cmd.Printf("Documents (%s route):\n\n", result.Route)
	for i := range result.Results {
		hit := &result.Results[i]
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, hit.DocumentPath, hit.Score)
		if hit.Explanation != "" {
			cmd.Printf("      %s\n", hit.Explanation)
		}
	}
}

func indent(s string) string {
	out := "  "
	for _, r := range s {
		out += string(r)
		if r == '\n' {
			out += "  "
		}
	}
	return out
}
