package marketplace

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
	"github.com/Royalwole/sesame-sub004/internal/fetch"
)

// AgentListings fetches one page of an agent's own listings. It behaves
// like ListListings with one added policy: when the page degrades to
// fallback, a one-shot session check runs and the user is notified if the
// session turned out to be unauthenticated, since an expired session is
// the usual cause of an agent's dashboard going empty. The check never
// runs on the success path.
func (c *Client) AgentListings(ctx context.Context, agentID string, query ListingQuery) (*domain.ListingPage, error) {
	q := query.normalized()
	q.AgentID = agentID

	res, err := c.orch.Do(ctx, fetch.Request{
		URL:      c.base + "/api/listings/agent?" + q.encode().Encode(),
		Endpoint: "agent_listings",
		Profile:  fetch.ListProfile,
	})
	if err != nil {
		return nil, c.handleFetchError(err, "/api/listings/agent")
	}

	page := c.listingPage(res, q)
	if page.Fallback {
		c.checkSessionAfterFallback(ctx, agentID)
	}
	return page, nil
}

// FetchAgentDashboard fetches the agent dashboard counters and recent
// listings. Fallback yields zeroed stats and an empty recent list so
// dashboards render an empty state rather than crash.
func (c *Client) FetchAgentDashboard(ctx context.Context, agentID string) (*domain.AgentDashboard, error) {
	path := "/api/agents/" + url.PathEscape(agentID) + "/dashboard"

	res, err := c.orch.Do(ctx, fetch.Request{
		URL:      c.base + path,
		Endpoint: "agent_dashboard",
		Profile:  fetch.GenericProfile,
	})
	if err != nil {
		return nil, c.handleFetchError(err, path)
	}
	if res.Fallback {
		return fallbackDashboard(res, agentID), nil
	}

	var env struct {
		Stats  domain.DashboardStats `json:"stats"`
		Recent []domain.Listing      `json:"recentListings"`
	}
	if err := json.Unmarshal(res.Payload, &env); err != nil {
		slog.Warn("Dashboard payload had unexpected shape",
			"request_id", res.RequestID, "agent_id", agentID, "error", err)
		dash := fallbackDashboard(res, agentID)
		dash.FallbackReason = "unexpected response shape"
		return dash, nil
	}

	dash := &domain.AgentDashboard{
		AgentID:   agentID,
		Stats:     env.Stats,
		Recent:    env.Recent,
		RequestID: res.RequestID,
		FetchedAt: res.FinishedAt,
	}
	if dash.Recent == nil {
		dash.Recent = []domain.Listing{}
	}
	return dash, nil
}

func fallbackDashboard(res *fetch.Result, agentID string) *domain.AgentDashboard {
	dash := domain.EmptyAgentDashboard(agentID)
	dash.FallbackReason = res.FallbackReason
	dash.RequestID = res.RequestID
	dash.FetchedAt = res.FinishedAt
	return dash
}

// checkSessionAfterFallback is the degraded-branch policy for agent-scoped
// fetches: probe the session once, notify on a confirmed expiry, and stay
// quiet when the probe itself fails.
func (c *Client) checkSessionAfterFallback(ctx context.Context, agentID string) {
	authed, err := c.auth.IsAuthenticated(ctx)
	if err != nil {
		slog.Warn("Session check after fallback failed",
			"agent_id", agentID, "error", err)
		return
	}
	if !authed {
		c.notify.Notify("Your session has expired. Sign in again to see your listings.")
	}
}
