package stats

import (
	"context"
	"sync"
	"time"

	"github.com/spraitoken/presale-tracker/internal/adapter"
	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/store"
)

// Config holds the aggregator configuration
type Config struct {
	// CacheTTL bounds how stale a served statistic may be. Zero
	// disables caching and recomputes on every read.
	CacheTTL time.Duration
}

// Aggregator computes summary statistics over the validated ledger
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/aggregator.go -package=mocks -mock_names=Aggregator=MockAggregator
type Aggregator interface {
	// Stats returns the presale totals, at most Config.CacheTTL stale
	Stats(ctx context.Context) (*domain.PresaleStats, error)
}

type aggregator struct {
	store store.Store
	clock adapter.Clock
	cfg   Config

	mu        sync.Mutex
	cached    *domain.PresaleStats
	fetchedAt time.Time
}

// New creates an aggregator over the given store
func New(s store.Store, clock adapter.Clock, cfg Config) Aggregator {
	return &aggregator{store: s, clock: clock, cfg: cfg}
}

func (a *aggregator) Stats(ctx context.Context) (*domain.PresaleStats, error) {
	if a.cfg.CacheTTL <= 0 {
		return a.store.GetPresaleTotals(ctx)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != nil && a.clock.Since(a.fetchedAt) < a.cfg.CacheTTL {
		return a.cached, nil
	}

	totals, err := a.store.GetPresaleTotals(ctx)
	if err != nil {
		// Serve nothing stale on error; the next read retries.
		return nil, err
	}

	a.cached = totals
	a.fetchedAt = a.clock.Now()
	return totals, nil
}
