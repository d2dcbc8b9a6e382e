package memory

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/logger"
)

// Aggregator regenerates memory categories from metadata records.
// Extraction runs one category per worker; every category is rebuilt
// from scratch on each pass, so output depends only on the record set
// and the injected clock.
type Aggregator struct {
	dir  string
	pool *ants.Pool
	now  func() time.Time

	// regen serializes passes: a caller arriving mid-pass blocks until
	// the running pass finishes, then runs its own.
	regen sync.Mutex
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithPoolSize sets the extraction worker count. Default is half the
// CPUs, minimum 1.
func WithPoolSize(size int) AggregatorOption {
	return func(a *Aggregator) {
		if size < 1 {
			size = 1
		}
		if a.pool != nil {
			a.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return
		}
		a.pool = pool
	}
}

// WithAggregatorClock overrides the timestamp source.
func WithAggregatorClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates an aggregator writing category files under dir.
func NewAggregator(dir string, opts ...AggregatorOption) (*Aggregator, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("aggregation pool: %w", err)
	}

	a := &Aggregator{
		dir:  dir,
		pool: pool,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Release frees the worker pool.
func (a *Aggregator) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// Dir returns the memory directory the aggregator writes to.
func (a *Aggregator) Dir() string { return a.dir }

// Aggregate rebuilds every memory category from records and writes the
// category files. Records are sorted by document path first so the same
// set always produces byte-identical files (given a fixed clock). Only
// one aggregation runs at a time; concurrent calls block until the
// in-flight pass completes, then run with their own record set.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.MetadataRecord) (map[string]domain.MemoryCategory, error) {
	return a.aggregate(ctx, records, domain.MemoryCategoryNames)
}

// AggregateCategories rebuilds only the named categories. Used by
// targeted updates after a single document changes.
func (a *Aggregator) AggregateCategories(ctx context.Context, records []domain.MetadataRecord, categories []string) (map[string]domain.MemoryCategory, error) {
	return a.aggregate(ctx, records, categories)
}

func (a *Aggregator) aggregate(ctx context.Context, records []domain.MetadataRecord, categories []string) (map[string]domain.MemoryCategory, error) {
	a.regen.Lock()
	defer a.regen.Unlock()

	sorted := make([]domain.MetadataRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DocumentPath < sorted[j].DocumentPath
	})

	now := a.now()
	out := make(map[string]domain.MemoryCategory, len(categories))

	var (
		wg     sync.WaitGroup
		outMu  sync.Mutex
		errs   []error
		errsMu sync.Mutex
	)

	for _, name := range categories {
		extract, ok := extractors[name]
		if !ok {
			logger.Warn("no extractor for memory category %s", name)
			continue
		}

		wg.Add(1)
		submitErr := a.pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			quick, sections := extract(sorted)
			cat := domain.MemoryCategory{
				Name:       name,
				Title:      domain.MemoryCategoryTitles[name],
				UpdatedAt:  now,
				QuickFacts: quick,
				Sections:   sections,
			}

			if err := WriteCategory(a.dir, &cat); err != nil {
				errsMu.Lock()
				errs = append(errs, err)
				errsMu.Unlock()
				return
			}

			outMu.Lock()
			out[name] = cat
			outMu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			errsMu.Lock()
			errs = append(errs, fmt.Errorf("submit %s: %w", name, submitErr))
			errsMu.Unlock()
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}
	if len(errs) > 0 {
		return out, errs[0]
	}

	logger.Debug("aggregated %d memory categories from %d records", len(out), len(sorted))
	return out, nil
}
