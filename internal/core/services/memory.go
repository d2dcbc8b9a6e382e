package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/core/ports/driving"
	"github.com/paperbase-labs/paperbase/internal/logger"
	"github.com/paperbase-labs/paperbase/internal/memory"
)

// Ensure MemoryService implements the interface.
var _ driving.MemoryService = (*MemoryService)(nil)

// MemoryIndex supplies metadata records for aggregation. Implemented
// by the metadata store.
type MemoryIndex interface {
	Records(ctx context.Context) ([]domain.MetadataRecord, error)
	Get(ctx context.Context, documentPath string) (domain.MetadataRecord, error)
}

// MemoryService maintains the aggregated memory documents and answers
// point queries against them.
type MemoryService struct {
	index      MemoryIndex
	aggregator *memory.Aggregator
	engine     *memory.Engine
}

// NewMemoryService creates a memory service.
func NewMemoryService(index MemoryIndex, aggregator *memory.Aggregator, engine *memory.Engine) *MemoryService {
	return &MemoryService{
		index:      index,
		aggregator: aggregator,
		engine:     engine,
	}
}

// RebuildAll regenerates every memory category from the current
// metadata set.
func (s *MemoryService) RebuildAll(ctx context.Context) (map[string]domain.MemoryCategory, error) {
	records, err := s.index.Records(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Rebuilding memory from %d records", len(records))
	cats, err := s.aggregator.Aggregate(ctx, records)
	if err != nil {
		return nil, err
	}

	populated := 0
	for _, c := range cats {
		if !c.Empty() {
			populated++
		}
	}
	logger.Info("Memory rebuilt: %d categories, %d with facts", len(cats), populated)
	return cats, nil
}

// UpdateForDocument regenerates the categories a changed document can
// affect. Documents the routing table cannot place trigger a full
// rebuild: a record we cannot classify may belong anywhere.
func (s *MemoryService) UpdateForDocument(ctx context.Context, documentPath string) error {
	rec, err := s.index.Get(ctx, documentPath)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted or renamed; only a full rebuild removes its
			// facts from every category.
			_, err = s.RebuildAll(ctx)
			return err
		}
		return err
	}

	categories := memory.RouteCategories(&rec)
	if categories == nil {
		logger.Debug("Document %s not routable, full memory rebuild", documentPath)
		_, err = s.RebuildAll(ctx)
		return err
	}

	records, err := s.index.Records(ctx)
	if err != nil {
		return err
	}
	logger.Debug("Targeted memory update for %s: %v", documentPath, categories)
	_, err = s.aggregator.AggregateCategories(ctx, records, categories)
	return err
}

// Query answers a direct-fact question from the memory files. A nil
// answer with a nil error means no match.
func (s *MemoryService) Query(_ context.Context, text string) (*domain.MemoryAnswer, error) {
	return s.engine.Query(text), nil
}

// Stats summarizes the generated memory files on disk. A memory
// directory that has never been aggregated yields zero categories, not
// an error.
func (s *MemoryService) Stats(_ context.Context) (domain.MemoryStats, error) {
	stats := domain.MemoryStats{Dir: s.aggregator.Dir()}
	for _, name := range domain.MemoryCategoryNames {
		info, err := os.Stat(filepath.Join(stats.Dir, memory.CategoryFileName(name)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return domain.MemoryStats{}, err
		}
		stats.Categories++
		if info.ModTime().After(stats.UpdatedAt) {
			stats.UpdatedAt = info.ModTime()
		}
	}
	return stats, nil
}
