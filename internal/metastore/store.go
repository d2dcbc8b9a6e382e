// Package metastore loads document metadata sidecars into an in-memory
// index with a time-based staleness policy.
//
// A sidecar is any file whose name ends in the fixed metadata suffix;
// the document it describes is the sidecar path with the suffix
// stripped. Malformed sidecars are skipped with a warning, never fatal.
// Query-facing reads check cache age first and trigger a rescan when
// stale; concurrent stale readers share a single in-flight walk.
package metastore

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
	"github.com/paperbase-labs/paperbase/internal/logger"
)

// DefaultStaleness is how long a scan stays fresh.
const DefaultStaleness = 5 * time.Minute

// Option configures a Store.
type Option func(*Store)

// WithStaleness overrides the cache staleness window.
func WithStaleness(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.staleness = d
		}
	}
}

// WithClock substitutes the wall clock. Tests use this to age the
// cache without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the in-memory metadata index over one document tree.
type Store struct {
	root      string
	staleness time.Duration
	now       func() time.Time

	mu        sync.RWMutex
	records   map[string]domain.MetadataRecord
	scannedAt time.Time
	stale     bool
	closed    bool

	group   singleflight.Group
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a store over the document tree rooted at root. No scan
// happens until the first read.
func New(root string, opts ...Option) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("metadata root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("metadata root %s: %w", root, domain.ErrInvalidInput)
	}

	s := &Store{
		root:      root,
		staleness: DefaultStaleness,
		now:       time.Now,
		stale:     true,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Watch starts an fsnotify watcher that marks the cache stale as soon
// as a sidecar changes, instead of waiting out the staleness window.
// Optional; polling staleness alone is always correct.
func (s *Store) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(s.root); err != nil {
		w.Close() //nolint:errcheck
		return fmt.Errorf("watch %s: %w", s.root, err)
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()

	go s.watchLoop(w)
	return nil
}

func (s *Store) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if strings.HasSuffix(event.Name, domain.MetadataSuffix) {
				logger.Debug("Sidecar changed on disk: %s", event.Name)
				s.MarkStale()
			}
			// New directories need their own watch entry.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.Add(event.Name); err != nil {
						logger.Warn("Watch %s: %v", event.Name, err)
					}
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// MarkStale forces the next read to rescan.
func (s *Store) MarkStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Close stops the watcher and marks the store closed. Reads arriving
// afterwards fail with domain.ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Snapshot returns the current metadata index, rescanning first if the
// cache is stale. The returned map is a fresh snapshot per scan and
// must be treated as read-only; concurrent readers may share it.
func (s *Store) Snapshot(ctx context.Context) (map[string]domain.MetadataRecord, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, nil
}

// Records returns all records sorted by document path. Aggregation
// iterates this form so its output is deterministic.
func (s *Store) Records(ctx context.Context) ([]domain.MetadataRecord, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(snapshot))
	for p := range snapshot {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	records := make([]domain.MetadataRecord, 0, len(paths))
	for _, p := range paths {
		records = append(records, snapshot[p])
	}
	return records, nil
}

// Get returns the record for one document path.
func (s *Store) Get(ctx context.Context, documentPath string) (domain.MetadataRecord, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return domain.MetadataRecord{}, err
	}
	rec, ok := snapshot[documentPath]
	if !ok {
		return domain.MetadataRecord{}, fmt.Errorf("document %s: %w", documentPath, domain.ErrNotFound)
	}
	return rec, nil
}

// Stats describes the current index.
type Stats struct {
	Root      string
	Documents int
	ScannedAt time.Time
}

// Stats returns index statistics, rescanning first when stale.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return Stats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Root: s.root, Documents: len(s.records), ScannedAt: s.scannedAt}, nil
}

// Rescan forces a full walk regardless of cache age.
func (s *Store) Rescan(ctx context.Context) error {
	s.MarkStale()
	return s.ensureFresh(ctx)
}

// ensureFresh rescans when the cache is stale or aged out. Concurrent
// callers coalesce onto one walk via singleflight.
func (s *Store) ensureFresh(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	fresh := !s.stale && s.now().Sub(s.scannedAt) < s.staleness
	s.mu.RUnlock()
	if closed {
		return domain.ErrStoreClosed
	}
	if fresh {
		return nil
	}

	_, err, _ := s.group.Do("scan", func() (any, error) {
		// Another waiter may have completed the scan already.
		s.mu.RLock()
		fresh := !s.stale && s.now().Sub(s.scannedAt) < s.staleness
		s.mu.RUnlock()
		if fresh {
			return nil, nil
		}

		records, err := s.scan(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.records = records
		s.scannedAt = s.now()
		s.stale = false
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// scan walks the tree and loads every sidecar. Per-file failures are
// isolated: a bad sidecar is logged and skipped, never fatal.
func (s *Store) scan(ctx context.Context) (map[string]domain.MetadataRecord, error) {
	logger.Section("Metadata Scan")
	logger.Debug("Walking %s", s.root)

	records := make(map[string]domain.MetadataRecord)
	skipped := 0

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), domain.MetadataSuffix) {
			return nil
		}

		rec, loadErr := loadSidecar(path)
		if loadErr != nil {
			logger.Warn("Skipping malformed sidecar %s: %v", path, loadErr)
			skipped++
			return nil
		}
		records[rec.DocumentPath] = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}

	logger.Info("Scan complete: %d records, %d skipped", len(records), skipped)
	return records, nil
}

// loadSidecar reads and decodes one sidecar file.
func loadSidecar(path string) (domain.MetadataRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.MetadataRecord{}, err
	}

	var rec domain.MetadataRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.MetadataRecord{}, err
	}

	rec.DocumentPath = strings.TrimSuffix(path, domain.MetadataSuffix)
	rec.ApplyDefaults()
	return rec, nil
}
