// Package marketplace exposes the domain fetch functions of the listing
// service: filtered listing pages, single-listing lookup with upstream
// strategy escalation, agent-scoped pages and the agent dashboard. Each
// function configures the shared retry orchestrator and translates its
// outcome into a domain value that is always safe to render.
package marketplace

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
	"github.com/Royalwole/sesame-sub004/internal/fetch"
)

// Config configures a marketplace client.
type Config struct {
	// BaseURL is the upstream API origin, e.g. https://api.example.com.
	BaseURL string

	// SignInPath is where auth redirects point. Defaults to /auth/sign-in.
	SignInPath string

	// Collaborators. Nil fields get working defaults: a session probe
	// against the backend, and slog-backed notifier and navigator.
	Auth      AuthChecker
	Notifier  Notifier
	Navigator Navigator
}

// Client issues domain fetches through one shared orchestrator.
type Client struct {
	base   string
	signIn string
	orch   *fetch.Orchestrator
	auth   AuthChecker
	notify Notifier
	nav    Navigator
}

// NewClient builds a client. A nil orchestrator gets a default one with a
// fresh pooled transport.
func NewClient(cfg Config, orch *fetch.Orchestrator) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("marketplace base URL is required")
	}
	if cfg.SignInPath == "" {
		cfg.SignInPath = "/auth/sign-in"
	}
	if orch == nil {
		orch = fetch.NewOrchestrator(nil, nil)
	}

	c := &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		signIn: cfg.SignInPath,
		orch:   orch,
		auth:   cfg.Auth,
		notify: cfg.Notifier,
		nav:    cfg.Navigator,
	}
	if c.auth == nil {
		c.auth = NewSessionAuthChecker(c.base)
	}
	if c.notify == nil {
		c.notify = slogNotifier{}
	}
	if c.nav == nil {
		c.nav = slogNavigator{}
	}
	return c, nil
}

// Orchestrator exposes the underlying orchestrator for health reporting.
func (c *Client) Orchestrator() *fetch.Orchestrator {
	return c.orch
}

// handleFetchError fires the sign-in navigation on auth-required failures
// and passes every error through to the caller unchanged.
func (c *Client) handleFetchError(err error, originalPath string) error {
	var fe *fetch.Error
	if errors.As(err, &fe) && fe.Kind == fetch.KindAuthRequired {
		c.nav.SignIn(signInURL(c.signIn, originalPath))
	}
	return err
}

// listingPage decodes a list envelope, substituting the canonical empty
// page when the fetch degraded to fallback.
func (c *Client) listingPage(res *fetch.Result, q ListingQuery) *domain.ListingPage {
	if res.Fallback {
		return fallbackPage(res, q)
	}

	var env struct {
		Listings   []domain.Listing       `json:"listings"`
		Pagination *domain.PaginationMeta `json:"pagination"`
	}
	if err := json.Unmarshal(res.Payload, &env); err != nil {
		slog.Warn("Listing payload had unexpected shape",
			"request_id", res.RequestID, "error", err)
		page := fallbackPage(res, q)
		page.FallbackReason = "unexpected response shape"
		return page
	}

	page := &domain.ListingPage{
		Listings:  env.Listings,
		RequestID: res.RequestID,
		FetchedAt: res.FinishedAt,
	}
	if page.Listings == nil {
		page.Listings = []domain.Listing{}
	}
	if env.Pagination != nil && env.Pagination.Limit > 0 {
		page.Pagination = *env.Pagination
	} else {
		page.Pagination = domain.NewPaginationMeta(len(page.Listings), q.Page, q.Limit)
	}
	return page
}

func fallbackPage(res *fetch.Result, q ListingQuery) *domain.ListingPage {
	page := domain.EmptyListingPage(q.Page, q.Limit)
	page.FallbackReason = res.FallbackReason
	page.RequestID = res.RequestID
	page.FetchedAt = res.FinishedAt
	return page
}
