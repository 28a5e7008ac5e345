package marketplace

import (
	"context"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
	"github.com/Royalwole/sesame-sub004/internal/fetch"
)

// ListListings fetches one filtered page of listings. Upstream failures
// never surface as errors: exhausted retries produce a fallback page with
// empty data and the failure reason. The error is non-nil only for
// auth-required redirects and caller cancellation.
func (c *Client) ListListings(ctx context.Context, query ListingQuery) (*domain.ListingPage, error) {
	q := query.normalized()

	res, err := c.orch.Do(ctx, fetch.Request{
		URL:      c.base + "/api/listings?" + q.encode().Encode(),
		Endpoint: "listings",
		Profile:  fetch.ListProfile,
	})
	if err != nil {
		return nil, c.handleFetchError(err, "/api/listings")
	}
	return c.listingPage(res, q), nil
}
