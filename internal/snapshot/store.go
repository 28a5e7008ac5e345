// Package snapshot persists the last-known-good result of each refreshed
// view so degraded fetches can surface stale-but-real data instead of an
// empty page. The fetch layer itself never reads snapshots; only the
// refresher and the CLI do.
package snapshot

import (
	"context"
	"time"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
)

// DefaultTTL is how long a snapshot stays servable.
const DefaultTTL = 24 * time.Hour

// Entry describes one stored snapshot for status/maintenance tooling.
type Entry struct {
	Key string
	// TTL is the remaining time before the snapshot expires.
	// Negative means no expiry is tracked.
	TTL time.Duration
}

// Store is the snapshot repository. Load methods return (nil, nil) when no
// snapshot exists for the key.
type Store interface {
	SaveListings(ctx context.Context, key string, page *domain.ListingPage) error
	LoadListings(ctx context.Context, key string) (*domain.ListingPage, error)

	SaveDashboard(ctx context.Context, key string, dash *domain.AgentDashboard) error
	LoadDashboard(ctx context.Context, key string) (*domain.AgentDashboard, error)

	// Entries lists stored snapshots (both kinds).
	Entries(ctx context.Context) ([]Entry, error)

	// Flush removes all snapshots.
	Flush(ctx context.Context) error

	Close() error
}
