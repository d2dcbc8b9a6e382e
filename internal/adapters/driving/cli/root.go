// Package cli implements the command-line interface for Paperbase.
// Commands receive their services through the Set* functions before
// Execute runs; unset optional services degrade the related commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/paperbase-labs/paperbase/internal/core/ports/driven"
	"github.com/paperbase-labs/paperbase/internal/core/ports/driving"
	"github.com/paperbase-labs/paperbase/internal/logger"
	"github.com/paperbase-labs/paperbase/internal/metastore"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. nil services disable their commands gracefully.
var (
	searchService driving.SearchService
	memoryService driving.MemoryService
	metadataStore *metastore.Store
	historyStore  driven.HistoryStore
	configStore   driven.ConfigStore
	memoryDir     string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "paperbase",
	Short: "Search and fact memory for organized document sets",
	Long: `Paperbase answers questions about an organized document directory.

It reads the JSON metadata sidecars written during document organization,
serves fuzzy search over filenames and metadata, and maintains aggregated
"memory" files that answer direct fact questions like "what is our EIN?".`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetSearchService injects the search service.
func SetSearchService(s driving.SearchService) {
	searchService = s
}

// SetMemoryService injects the memory service.
func SetMemoryService(m driving.MemoryService) {
	memoryService = m
}

// SetMetadataStore injects the metadata store.
func SetMetadataStore(s *metastore.Store) {
	metadataStore = s
}

// SetHistoryStore injects the query history store.
func SetHistoryStore(h driven.HistoryStore) {
	historyStore = h
}

// SetConfigStore injects the configuration store.
func SetConfigStore(c driven.ConfigStore) {
	configStore = c
}

// SetMemoryDir sets the memory directory exposed over MCP resources.
func SetMemoryDir(dir string) {
	memoryDir = dir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
