package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingStore struct {
	calls atomic.Int32
}

func (s *countingStore) PruneExpired(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestSweepInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{24 * time.Hour, time.Hour},
		{time.Hour, 6 * time.Minute},
		{5 * time.Minute, time.Minute},
		{0, time.Minute},
	}

	for _, tt := range tests {
		if got := sweepInterval(tt.ttl); got != tt.want {
			t.Errorf("sweepInterval(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestPrunerRunsImmediately(t *testing.T) {
	store := &countingStore{}
	p := NewPruner(store, 24*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for store.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("initial prune did not run")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop on context cancel")
	}
}
