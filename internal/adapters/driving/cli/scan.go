package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rescan the document directory",
	Long: `Walks the document directory for metadata sidecars and refreshes
the in-memory index. Searches do this lazily; scan forces it now.`,
	RunE: runScan,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statsCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	if metadataStore == nil {
		return errors.New("metadata store not configured")
	}

	if err := metadataStore.Rescan(cmd.Context()); err != nil {
		return err
	}

	stats, err := metadataStore.Stats(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Scanned %s: %d documents with metadata\n", stats.Root, stats.Documents)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if metadataStore == nil {
		return errors.New("metadata store not configured")
	}

	stats, err := metadataStore.Stats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Root:       %s\n", stats.Root)
	cmd.Printf("Documents:  %d\n", stats.Documents)
	cmd.Printf("Scanned at: %s\n", stats.ScannedAt.Format("2006-01-02 15:04:05"))
	return nil
}
