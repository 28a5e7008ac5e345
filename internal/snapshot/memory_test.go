package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
)

func TestMemoryStore_ListingsRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	page := &domain.ListingPage{
		Listings:   []domain.Listing{{ID: "507f1f77bcf86cd799439011", Title: "Test House"}},
		Pagination: domain.NewPaginationMeta(1, 1, 10),
		FetchedAt:  time.Now(),
	}

	if err := store.SaveListings(ctx, "default", page); err != nil {
		t.Fatalf("SaveListings failed: %v", err)
	}

	got, err := store.LoadListings(ctx, "default")
	if err != nil {
		t.Fatalf("LoadListings failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if len(got.Listings) != 1 || got.Listings[0].Title != "Test House" {
		t.Errorf("unexpected snapshot content: %+v", got)
	}
}

func TestMemoryStore_MissingKey(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.LoadListings(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing key, got %+v", got)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.SaveListings(ctx, "default", domain.EmptyListingPage(1, 10)); err != nil {
		t.Fatalf("SaveListings failed: %v", err)
	}

	// Advance past the TTL
	store.now = func() time.Time { return now.Add(DefaultTTL + time.Minute) }

	got, err := store.LoadListings(ctx, "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected expired snapshot to be nil, got %+v", got)
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no live entries, got %d", len(entries))
	}
}

func TestMemoryStore_PruneExpired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	_ = store.SaveListings(ctx, "old", domain.EmptyListingPage(1, 10))

	// "fresh" is saved later, so only "old" crosses the TTL below.
	store.now = func() time.Time { return now.Add(time.Hour) }
	_ = store.SaveListings(ctx, "fresh", domain.EmptyListingPage(1, 10))

	store.now = func() time.Time { return now.Add(DefaultTTL + time.Minute) }

	removed, err := store.PruneExpired(ctx)
	if err != nil {
		t.Fatalf("PruneExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 entry pruned, got %d", removed)
	}

	entries, _ := store.Entries(ctx)
	if len(entries) != 1 {
		t.Errorf("expected 1 live entry, got %d", len(entries))
	}

	got, err := store.LoadListings(ctx, "fresh")
	if err != nil {
		t.Fatalf("LoadListings failed: %v", err)
	}
	if got == nil {
		t.Error("fresh snapshot should survive the prune")
	}
}

func TestMemoryStore_Flush(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.SaveListings(ctx, "a", domain.EmptyListingPage(1, 10))
	_ = store.SaveDashboard(ctx, "b", domain.EmptyAgentDashboard("agent-1"))

	entries, _ := store.Entries(ctx)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries before flush, got %d", len(entries))
	}

	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	entries, _ = store.Entries(ctx)
	if len(entries) != 0 {
		t.Errorf("expected 0 entries after flush, got %d", len(entries))
	}
}
