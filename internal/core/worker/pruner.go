package worker

import (
	"context"
	"log/slog"
	"time"
)

// ExpiringStore is a snapshot store whose entries need explicit eviction.
// The Redis store expires keys on its own and does not implement this.
type ExpiringStore interface {
	PruneExpired(ctx context.Context) (int, error)
}

// Pruner evicts expired snapshot entries on an interval derived from the TTL.
type Pruner struct {
	store    ExpiringStore
	interval time.Duration
}

// NewPruner creates a new Pruner worker.
func NewPruner(store ExpiringStore, ttl time.Duration) *Pruner {
	return &Pruner{
		store:    store,
		interval: sweepInterval(ttl),
	}
}

// sweepInterval is a tenth of the TTL, clamped to [1m, 1h].
func sweepInterval(ttl time.Duration) time.Duration {
	interval := min(ttl/10, 1*time.Hour)
	return max(interval, 1*time.Minute)
}

// Start runs the pruner loop.
func (p *Pruner) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial prune
	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	removed, err := p.store.PruneExpired(ctx)
	if err != nil {
		slog.Error("Failed to prune expired snapshots", "error", err)
		return
	}
	if removed > 0 {
		slog.Debug("Pruned expired snapshots", "count", removed)
	}
}
