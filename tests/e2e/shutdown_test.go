package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/Royalwole/sesame-sub004/internal/control"
	"github.com/Royalwole/sesame-sub004/internal/core/config"
)

func TestGracefulShutdown(t *testing.T) {
	// Unreachable backend: the refresher sits in its retry loop the whole
	// time, so shutdown has to cut through an in-flight backoff.
	cfg := config.AppConfig{
		API: config.APIConfig{BaseURL: "http://localhost:18545"},
		Refresh: config.RefreshConfig{
			Interval: time.Minute,
			Views: []config.ViewConfig{
				{Name: "homepage", Kind: config.ViewListings, Limit: 5},
			},
		},
	}

	svc, err := control.NewService(cfg)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Let it run for a bit
	time.Sleep(2 * time.Second)

	// Trigger shutdown
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := svc.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
