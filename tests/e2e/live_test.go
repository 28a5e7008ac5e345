package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Royalwole/sesame-sub004/internal/marketplace"
)

func TestMarketplaceFetch_Live(t *testing.T) {
	if os.Getenv("E2E_LIVE") == "" {
		t.Skip("Skipping live E2E test. Set E2E_LIVE=true to run.")
	}
	baseURL := os.Getenv("SESAME_API_URL")
	if baseURL == "" {
		t.Skip("SESAME_API_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := marketplace.NewClient(marketplace.Config{BaseURL: baseURL}, nil)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	page, err := client.ListListings(ctx, marketplace.ListingQuery{Limit: 5})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}
	if page.Fallback {
		t.Fatalf("Expected live data, got fallback: %s", page.FallbackReason)
	}
	t.Logf("SUCCESS: Fetched %d listings (total %d)", len(page.Listings), page.Pagination.Total)

	if len(page.Listings) == 0 {
		t.Log("No listings available to round-trip, skipping lookup")
		return
	}

	id := page.Listings[0].ID
	listing, res, err := client.GetListingByID(ctx, id)
	if err != nil {
		t.Fatalf("GetListingByID failed: %v", err)
	}
	if listing == nil {
		t.Fatalf("Lookup degraded: %s (request %s, %d attempts)",
			res.FallbackReason, res.RequestID, res.Attempts)
	}
	if listing.ID != id {
		t.Errorf("Identity mismatch: asked for %s, got %s", id, listing.ID)
	}
	t.Logf("SUCCESS: Round-tripped listing %s via strategy %q", listing.ID, res.Strategy)
}
