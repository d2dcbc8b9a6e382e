package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	configfile "github.com/paperbase-labs/paperbase/internal/adapters/driven/config/file"
	"github.com/paperbase-labs/paperbase/internal/adapters/driven/semantic/httpapi"
	"github.com/paperbase-labs/paperbase/internal/adapters/driven/storage/sqlite"
	"github.com/paperbase-labs/paperbase/internal/adapters/driving/cli"
	"github.com/paperbase-labs/paperbase/internal/core/services"
	"github.com/paperbase-labs/paperbase/internal/logger"
	"github.com/paperbase-labs/paperbase/internal/memory"
	"github.com/paperbase-labs/paperbase/internal/metastore"
	"github.com/paperbase-labs/paperbase/internal/query"
	"github.com/paperbase-labs/paperbase/internal/synonym"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.New("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cli.SetConfigStore(cfg)

	root := cfg.GetString("documents.root")
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving document root: %w", err)
		}
	}

	staleness := time.Duration(cfg.GetInt("index.staleness_seconds")) * time.Second
	store, err := metastore.New(root, metastore.WithStaleness(staleness))
	if err != nil {
		return fmt.Errorf("opening metadata index: %w", err)
	}
	defer store.Close()
	if err := store.Watch(); err != nil {
		// Fall back to staleness-based rescans.
		logger.Debug("filesystem watch unavailable: %v", err)
	}
	cli.SetMetadataStore(store)

	memDir := cfg.GetString("memory.dir")
	if memDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving memory directory: %w", err)
		}
		memDir = filepath.Join(home, configfile.DefaultDirName, "memory")
	}
	aggregator, err := memory.NewAggregator(memDir)
	if err != nil {
		return fmt.Errorf("creating memory aggregator: %w", err)
	}
	defer aggregator.Release()
	engine := memory.NewEngine(memDir)
	cli.SetMemoryDir(memDir)

	parser := query.NewParser(synonym.NewExpander())
	searchSvc := services.NewSearchService(store, parser)
	searchSvc.SetMemoryEngine(engine)
	searchSvc.SetMaxResults(cfg.GetInt("limits.max_results"))

	if endpoint := cfg.GetString("semantic.endpoint"); endpoint != "" {
		searcher, err := httpapi.New(httpapi.Config{
			Endpoint:      endpoint,
			APIKey:        cfg.GetString("semantic.api_key"),
			Timeout:       time.Duration(cfg.GetInt("semantic.timeout_seconds")) * time.Second,
			RatePerMinute: cfg.GetInt("semantic.rate_per_minute"),
		})
		if err != nil {
			return fmt.Errorf("configuring semantic search: %w", err)
		}
		searchSvc.SetSemanticSearcher(searcher)
		searchSvc.SetSemanticTimeout(time.Duration(cfg.GetInt("semantic.timeout_seconds")) * time.Second)
	}

	history, err := sqlite.NewHistoryStore(cfg.GetString("history.path"))
	if err != nil {
		// History is an optional convenience; search works without it.
		logger.Debug("query history unavailable: %v", err)
	} else {
		defer history.Close()
		searchSvc.SetHistoryStore(history)
		cli.SetHistoryStore(history)
	}

	cli.SetSearchService(searchSvc)
	cli.SetMemoryService(services.NewMemoryService(store, aggregator, engine))

	return cli.Execute()
}
