// Package control assembles the application: snapshot storage, the shared
// fetch orchestrator, the marketplace client, one refresher per configured
// view and the health server, with a single Start/Stop lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Royalwole/sesame-sub004/internal/core/config"
	"github.com/Royalwole/sesame-sub004/internal/core/worker"
	"github.com/Royalwole/sesame-sub004/internal/fetch"
	"github.com/Royalwole/sesame-sub004/internal/health"
	"github.com/Royalwole/sesame-sub004/internal/marketplace"
	"github.com/Royalwole/sesame-sub004/internal/refresh"
	"github.com/Royalwole/sesame-sub004/internal/snapshot"
)

// Service is the main application struct that manages the refresher lifecycle.
type Service struct {
	cfg          config.AppConfig
	store        snapshot.Store
	redis        *snapshot.RedisStore
	pruner       *worker.Pruner
	client       *marketplace.Client
	refreshers   []*refresh.Refresher
	healthServer *health.Server
	log          *slog.Logger
}

// NewService creates a Service with all dependencies initialized.
func NewService(cfg config.AppConfig) (*Service, error) {

	// 1. Initialize snapshot storage
	var store snapshot.Store
	var redisStore *snapshot.RedisStore
	var pruner *worker.Pruner

	if cfg.Redis.URL != "" {
		var err error
		redisStore, err = snapshot.NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis store: %w", err)
		}
		store = redisStore
		slog.Info("Using Redis snapshot store")
	} else {
		// Redis expires keys itself; the memory store needs a sweeper.
		memStore := snapshot.NewMemoryStore()
		store = memStore
		pruner = worker.NewPruner(memStore, snapshot.DefaultTTL)
		slog.Info("Using in-memory snapshot store")
	}

	// 2. Initialize the shared fetch layer
	tracker := fetch.NewHealthTracker()
	orch := fetch.NewOrchestrator(fetch.NewHTTPClient(), tracker)

	client, err := marketplace.NewClient(marketplace.Config{
		BaseURL:    cfg.API.BaseURL,
		SignInPath: cfg.API.SignInPath,
	}, orch)
	if err != nil {
		return nil, fmt.Errorf("failed to init marketplace client: %w", err)
	}

	// 3. One refresher per configured view
	refreshers := make([]*refresh.Refresher, 0, len(cfg.Refresh.Views))
	for _, vc := range cfg.Refresh.Views {
		view := refresh.ViewFromConfig(vc)
		refreshers = append(refreshers, refresh.NewRefresher(view, client, store, cfg.Refresh.Interval))
		slog.Info("View refresher initialized", "view", view.Name, "kind", view.Kind)
	}

	// 4. Health monitor and server
	monitor := health.NewMonitor(tracker)
	healthServer := health.NewServer(monitor, cfg.Server.Port)

	return &Service{
		cfg:          cfg,
		store:        store,
		redis:        redisStore,
		pruner:       pruner,
		client:       client,
		refreshers:   refreshers,
		healthServer: healthServer,
		log:          slog.Default(),
	}, nil
}

// Start starts the service and all its components. Refreshers stop when ctx
// is canceled; the health server runs until Stop.
func (s *Service) Start(ctx context.Context) error {
	// Start health server
	go func() {
		if err := s.healthServer.Start(); err != nil {
			s.log.Error("Health server failed", "error", err)
		}
	}()

	// Start view refreshers
	for _, r := range s.refreshers {
		go r.Start(ctx)
	}

	// Start snapshot pruner
	if s.pruner != nil {
		go s.pruner.Start(ctx)
	}

	return nil
}

// Stop stops the service.
func (s *Service) Stop(ctx context.Context) error {
	s.log.Info("Stopping service...")

	// Close Redis
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn("Failed to close Redis", "error", err)
		}
	}

	// Stop health server
	return s.healthServer.Stop(ctx)
}
