package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent queries",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	records, err := historyStore.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("No queries recorded yet.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%s  %-8s %3d hits  %6dms  %s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			rec.Route, rec.Results, rec.Duration.Milliseconds(), rec.Query)
	}
	return nil
}
