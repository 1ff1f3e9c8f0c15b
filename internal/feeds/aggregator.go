// Package feeds collects raw records from configured sources. Sources
// are fetched concurrently and a failing source never aborts the run.
package feeds

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kiwifruitpeter/curator/internal/logging"
	"github.com/kiwifruitpeter/curator/internal/model"
)

// Aggregator fans out fetches over its sources and merges the results,
// deduplicating by source URL.
type Aggregator struct {
	mu      sync.Mutex
	sources []Source
	records []model.Record
	failed  map[string]error

	// MaxConcurrent bounds parallel fetches. Zero means 4.
	MaxConcurrent int
}

// NewAggregator creates a new aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		failed: make(map[string]error),
	}
}

// AddSource registers a source with the aggregator
func (a *Aggregator) AddSource(source Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sources = append(a.sources, source)
}

// SourceCount returns the number of registered sources
func (a *Aggregator) SourceCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sources)
}

// FetchAll fetches every source concurrently and merges the results.
// Per-source failures are recorded and logged, not returned; the error
// is non-nil only when the context is cancelled.
func (a *Aggregator) FetchAll(ctx context.Context) error {
	a.mu.Lock()
	sources := make([]Source, len(a.sources))
	copy(sources, a.sources)
	limit := a.MaxConcurrent
	a.mu.Unlock()

	if limit <= 0 {
		limit = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, source := range sources {
		g.Go(func() error {
			records, err := source.Fetch(ctx)

			a.mu.Lock()
			defer a.mu.Unlock()
			if err != nil {
				a.failed[source.Name()] = err
				logging.Warn("source fetch failed", "source", source.Name(), "err", err)
				return ctx.Err()
			}
			delete(a.failed, source.Name())
			added := a.mergeLocked(records)
			logging.Debug("source fetched", "source", source.Name(), "items", len(records), "added", added)
			return nil
		})
	}

	return g.Wait()
}

// mergeLocked adds records not already present, keyed by source URL.
// Caller holds the lock.
func (a *Aggregator) mergeLocked(newRecords []model.Record) int {
	urlIndex := make(map[string]bool, len(a.records))
	for _, rec := range a.records {
		if rec.SourceURL != "" {
			urlIndex[rec.SourceURL] = true
		}
	}

	added := 0
	for _, rec := range newRecords {
		if rec.SourceURL != "" && urlIndex[rec.SourceURL] {
			continue
		}
		if rec.SourceURL != "" {
			urlIndex[rec.SourceURL] = true
		}
		a.records = append(a.records, rec)
		added++
	}
	return added
}

// Records returns a copy of all merged records
func (a *Aggregator) Records() []model.Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.Record, len(a.records))
	copy(out, a.records)
	return out
}

// Failed returns the sources whose last fetch failed
func (a *Aggregator) Failed() map[string]error {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]error, len(a.failed))
	for name, err := range a.failed {
		out[name] = err
	}
	return out
}
