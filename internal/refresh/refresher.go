// Package refresh keeps configured marketplace views warm. Each view is
// refetched on an adaptive interval and its last live result is saved as a
// snapshot, so operators can see stale-but-real data while the upstream is
// degraded. The fetch layer itself stays snapshot-free.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Royalwole/sesame-sub004/internal/core/config"
	"github.com/Royalwole/sesame-sub004/internal/core/domain"
	"github.com/Royalwole/sesame-sub004/internal/marketplace"
	"github.com/Royalwole/sesame-sub004/internal/metrics"
	"github.com/Royalwole/sesame-sub004/internal/snapshot"
)

// Fetcher is the slice of the marketplace client the refresher uses.
type Fetcher interface {
	ListListings(ctx context.Context, query marketplace.ListingQuery) (*domain.ListingPage, error)
	AgentListings(ctx context.Context, agentID string, query marketplace.ListingQuery) (*domain.ListingPage, error)
	FetchAgentDashboard(ctx context.Context, agentID string) (*domain.AgentDashboard, error)
}

// View describes one view kept warm by a Refresher.
type View struct {
	Name    string
	Kind    config.ViewKind
	AgentID string
	Query   marketplace.ListingQuery
}

// ViewFromConfig maps a configured view onto a refreshable one.
func ViewFromConfig(vc config.ViewConfig) View {
	return View{
		Name:    vc.Name,
		Kind:    vc.Kind,
		AgentID: vc.AgentID,
		Query: marketplace.ListingQuery{
			Status:      vc.Status,
			ListingType: vc.ListingType,
			City:        vc.City,
			State:       vc.State,
			Page:        vc.Page,
			Limit:       vc.Limit,
		},
	}
}

// Refresher refetches one view on an adaptive interval: degraded runs
// double the wait (bounded at 8x), a live result resets it. Not safe for
// concurrent use; each view gets its own Refresher.
type Refresher struct {
	view    View
	fetcher Fetcher
	store   snapshot.Store

	baseInterval time.Duration
	maxInterval  time.Duration
	interval     time.Duration
}

// NewRefresher builds a refresher for one view.
func NewRefresher(view View, fetcher Fetcher, store snapshot.Store, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Refresher{
		view:         view,
		fetcher:      fetcher,
		store:        store,
		baseInterval: interval,
		maxInterval:  8 * interval,
		interval:     interval,
	}
}

// Interval returns the wait before the next run.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Start runs the refresh loop until ctx is done. The first refresh runs
// immediately.
func (r *Refresher) Start(ctx context.Context) {
	slog.Info("Starting view refresher", "view", r.view.Name, "interval", r.baseInterval)

	r.RefreshOnce(ctx)

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping view refresher", "view", r.view.Name)
			return
		case <-timer.C:
			r.RefreshOnce(ctx)
			timer.Reset(r.interval)
		}
	}
}

// RefreshOnce performs a single refresh run and adjusts the interval.
func (r *Refresher) RefreshOnce(ctx context.Context) {
	var degraded bool
	var err error

	switch r.view.Kind {
	case config.ViewDashboard:
		degraded, err = r.refreshDashboard(ctx)
	case config.ViewAgent:
		degraded, err = r.refreshAgent(ctx)
	default:
		degraded, err = r.refreshListings(ctx)
	}

	switch {
	case errors.Is(err, context.Canceled):
		// Shutting down.
	case err != nil:
		metrics.RefreshRunsTotal.WithLabelValues(r.view.Name, "error").Inc()
		slog.Error("View refresh failed", "view", r.view.Name, "error", err)
		r.stretch()
	case degraded:
		metrics.RefreshRunsTotal.WithLabelValues(r.view.Name, "fallback").Inc()
		r.stretch()
	default:
		metrics.RefreshRunsTotal.WithLabelValues(r.view.Name, "success").Inc()
		r.reset()
	}
}

func (r *Refresher) refreshListings(ctx context.Context) (bool, error) {
	page, err := r.fetcher.ListListings(ctx, r.view.Query)
	if err != nil {
		return false, err
	}
	if page.Fallback {
		r.reportStaleListings(ctx, page.FallbackReason)
		return true, nil
	}
	r.saveListings(ctx, page)
	return false, nil
}

func (r *Refresher) refreshAgent(ctx context.Context) (bool, error) {
	page, err := r.fetcher.AgentListings(ctx, r.view.AgentID, r.view.Query)
	if err != nil {
		return false, err
	}
	if page.Fallback {
		r.reportStaleListings(ctx, page.FallbackReason)
		return true, nil
	}
	r.saveListings(ctx, page)
	return false, nil
}

func (r *Refresher) refreshDashboard(ctx context.Context) (bool, error) {
	dash, err := r.fetcher.FetchAgentDashboard(ctx, r.view.AgentID)
	if err != nil {
		return false, err
	}
	if dash.Fallback {
		r.reportStaleDashboard(ctx, dash.FallbackReason)
		return true, nil
	}
	if err := r.store.SaveDashboard(ctx, r.view.Name, dash); err != nil {
		metrics.SnapshotOpsTotal.WithLabelValues("save", "error").Inc()
		slog.Warn("Failed to save view snapshot", "view", r.view.Name, "error", err)
		return false, nil
	}
	metrics.SnapshotOpsTotal.WithLabelValues("save", "ok").Inc()
	return false, nil
}

func (r *Refresher) saveListings(ctx context.Context, page *domain.ListingPage) {
	if err := r.store.SaveListings(ctx, r.view.Name, page); err != nil {
		metrics.SnapshotOpsTotal.WithLabelValues("save", "error").Inc()
		slog.Warn("Failed to save view snapshot", "view", r.view.Name, "error", err)
		return
	}
	metrics.SnapshotOpsTotal.WithLabelValues("save", "ok").Inc()
}

func (r *Refresher) reportStaleListings(ctx context.Context, reason string) {
	page, err := r.store.LoadListings(ctx, r.view.Name)
	if err != nil {
		metrics.SnapshotOpsTotal.WithLabelValues("load", "error").Inc()
		slog.Warn("Failed to load view snapshot", "view", r.view.Name, "error", err)
		return
	}
	if page == nil {
		metrics.SnapshotOpsTotal.WithLabelValues("load", "miss").Inc()
		slog.Warn("View degraded with no snapshot to serve",
			"view", r.view.Name, "reason", reason)
		return
	}
	metrics.SnapshotOpsTotal.WithLabelValues("load", "ok").Inc()
	slog.Warn("View degraded, stale snapshot available",
		"view", r.view.Name, "reason", reason, "snapshot_age", time.Since(page.FetchedAt))
}

func (r *Refresher) reportStaleDashboard(ctx context.Context, reason string) {
	dash, err := r.store.LoadDashboard(ctx, r.view.Name)
	if err != nil {
		metrics.SnapshotOpsTotal.WithLabelValues("load", "error").Inc()
		slog.Warn("Failed to load view snapshot", "view", r.view.Name, "error", err)
		return
	}
	if dash == nil {
		metrics.SnapshotOpsTotal.WithLabelValues("load", "miss").Inc()
		slog.Warn("View degraded with no snapshot to serve",
			"view", r.view.Name, "reason", reason)
		return
	}
	metrics.SnapshotOpsTotal.WithLabelValues("load", "ok").Inc()
	slog.Warn("View degraded, stale snapshot available",
		"view", r.view.Name, "reason", reason, "snapshot_age", time.Since(dash.FetchedAt))
}

func (r *Refresher) stretch() {
	next := r.interval * 2
	if next > r.maxInterval {
		next = r.maxInterval
	}
	if next != r.interval {
		slog.Info("Stretching refresh interval after degraded run",
			"view", r.view.Name, "interval", next)
	}
	r.interval = next
}

func (r *Refresher) reset() {
	if r.interval != r.baseInterval {
		slog.Info("Resetting refresh interval after live result",
			"view", r.view.Name, "interval", r.baseInterval)
	}
	r.interval = r.baseInterval
}
