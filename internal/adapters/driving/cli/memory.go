package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage the aggregated memory files",
	Long: `The memory files aggregate facts from every document's metadata
into topic files (company info, investors, key dates, ...). They are
regenerated from scratch, so the same documents always produce the same
files.`,
}

var memoryRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Regenerate every memory category",
	RunE:  runMemoryRebuild,
}

var memoryQueryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a fact question from memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryQuery,
}

var memoryUpdateCmd = &cobra.Command{
	Use:   "update [document path]",
	Short: "Update memory for one changed document",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryUpdate,
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show memory file statistics",
	RunE:  runMemoryStats,
}

func init() {
	memoryCmd.AddCommand(memoryRebuildCmd)
	memoryCmd.AddCommand(memoryQueryCmd)
	memoryCmd.AddCommand(memoryUpdateCmd)
	memoryCmd.AddCommand(memoryStatsCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runMemoryRebuild(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	cats, err := memoryService.RebuildAll(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Rebuilt %d memory categories\n", len(cats))
	return nil
}

func runMemoryQuery(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	answer, err := memoryService.Query(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if answer == nil {
		cmd.Println("No matching facts in memory. Try 'paperbase memory rebuild' first.")
		return nil
	}

	cmd.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		cmd.Printf("\nSources: %v\n", answer.Sources)
	}
	return nil
}

func runMemoryUpdate(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	if err := memoryService.UpdateForDocument(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Println("Memory updated")
	return nil
}

func runMemoryStats(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	stats, err := memoryService.Stats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Directory:  %s\n", stats.Dir)
	cmd.Printf("Categories: %d\n", stats.Categories)
	if stats.UpdatedAt.IsZero() {
		cmd.Println("Updated:    never (run 'paperbase memory rebuild')")
	} else {
		cmd.Printf("Updated:    %s\n", stats.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
