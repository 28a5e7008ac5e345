package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
	"github.com/Royalwole/sesame-sub004/internal/fetch"
)

// GetListingByID resolves one listing by document id, escalating across
// progressively more permissive upstream strategies on later attempts. An
// id that fails the 24-hex shape check is rejected before any network call.
//
// The returned result carries the fetch trace (request id, attempts,
// strategy, id-match flag). A nil listing with result.Fallback set means
// retries were exhausted; NotFound distinguishes a confirmed 404.
func (c *Client) GetListingByID(ctx context.Context, id string) (*domain.Listing, *fetch.Result, error) {
	if !domain.IsValidListingID(id) {
		return nil, nil, &fetch.Error{
			Kind:    fetch.KindValidation,
			Message: fmt.Sprintf("invalid listing id %q: want 24 hex characters", id),
		}
	}

	primary := c.base + "/api/listings/" + id
	res, err := c.orch.Do(ctx, fetch.Request{
		Endpoint: "listing_by_id",
		Profile:  fetch.EntityProfile,
		Strategies: []fetch.Strategy{
			{Name: "primary", URL: primary},
			{Name: "recovery", URL: primary + "?fallback=true", TolerateIDMismatch: true},
			{Name: "legacy_recovery", URL: c.base + "/api/listings/get-listing-by-id?id=" + id + "&recovery=true", TolerateIDMismatch: true},
		},
		RequestedID: id,
		ExtractID:   extractListingID,
	})
	if err != nil {
		return nil, nil, c.handleFetchError(err, "/api/listings/"+id)
	}
	if res.Fallback {
		return nil, res, nil
	}

	listing, err := decodeListing(res.Payload)
	if err != nil || listing == nil {
		slog.Warn("Listing payload had unexpected shape",
			"request_id", res.RequestID, "listing_id", id, "error", err)
		res.Fallback = true
		res.FallbackReason = "unexpected response shape"
		return nil, res, nil
	}
	return listing, res, nil
}

// NotFound reports whether a degraded lookup was a confirmed upstream 404
// rather than a transient failure, so callers can suppress retry prompts.
func NotFound(res *fetch.Result) bool {
	return res != nil && res.Fallback && res.LastStatus == http.StatusNotFound
}

// extractListingID digs the document id out of an entity envelope. The
// legacy backend answers with either a listing or a data wrapper.
func extractListingID(payload json.RawMessage) string {
	var env struct {
		Listing struct {
			ID string `json:"_id"`
		} `json:"listing"`
		Data struct {
			ID string `json:"_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return ""
	}
	if env.Listing.ID != "" {
		return env.Listing.ID
	}
	return env.Data.ID
}

func decodeListing(payload json.RawMessage) (*domain.Listing, error) {
	var env struct {
		Listing *domain.Listing `json:"listing"`
		Data    *domain.Listing `json:"data"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("failed to decode listing envelope: %w", err)
	}
	if env.Listing != nil {
		return env.Listing, nil
	}
	return env.Data, nil
}
