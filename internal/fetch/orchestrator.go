// Package fetch implements the resilient fetch client: a retry orchestrator
// over a deadline-bounded HTTP transport and a response classifier. Callers
// describe one logical fetch as a Request; the orchestrator hides the
// attempt loop and always terminates in a Result or a typed error, never a
// panic or an unclassified failure.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Royalwole/sesame-sub004/internal/metrics"
)

// Profile bundles the timeout/retry/backoff parameters of one call site.
// The three fixed profiles below are part of the backend compatibility
// contract and must not drift.
type Profile struct {
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	BackoffCap  time.Duration
	CacheBuster string
}

var (
	// ListProfile covers paginated list endpoints.
	ListProfile = Profile{
		Timeout:     15 * time.Second,
		MaxRetries:  2,
		BackoffBase: 500 * time.Millisecond,
		BackoffCap:  2 * time.Second,
		CacheBuster: "_cb",
	}

	// EntityProfile covers single-entity lookups, which run longer because
	// they escalate across upstream strategies.
	EntityProfile = Profile{
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		BackoffBase: 500 * time.Millisecond,
		BackoffCap:  5 * time.Second,
		CacheBuster: "_nocache",
	}

	// GenericProfile covers everything else.
	GenericProfile = Profile{
		Timeout:     15 * time.Second,
		MaxRetries:  2,
		BackoffBase: 500 * time.Millisecond,
		BackoffCap:  2 * time.Second,
		CacheBuster: "_t",
	}
)

// Strategy is one upstream lookup variant for entity resolution. Strategies
// are tried in order across attempts; a tolerant strategy accepts a payload
// whose entity id differs from the requested one.
type Strategy struct {
	Name               string
	URL                string
	TolerateIDMismatch bool
}

// Request describes one logical fetch. It is immutable across attempts
// except for the per-attempt cache-buster value and retry-count header.
type Request struct {
	// URL is the target when no strategy ladder is configured.
	URL string

	// Endpoint labels metrics, logs and health tracking, e.g. "listings".
	Endpoint string

	// Header holds extra headers merged under the standard set.
	Header http.Header

	Profile    Profile
	Strategies []Strategy

	// RequestedID enables the identity consistency check when non-empty.
	RequestedID string

	// ExtractID pulls the entity id out of a success payload. Required
	// when RequestedID is set; a payload without an id skips the check.
	ExtractID func(payload json.RawMessage) string
}

// strategyFor selects the upstream variant for a 0-based attempt. Attempts
// beyond the ladder reuse its last entry.
func (r Request) strategyFor(attempt int) Strategy {
	if len(r.Strategies) == 0 {
		return Strategy{Name: "primary", URL: r.URL}
	}
	if attempt >= len(r.Strategies) {
		attempt = len(r.Strategies) - 1
	}
	return r.Strategies[attempt]
}

// Result is the terminal outcome of one logical fetch.
type Result struct {
	// Payload holds the raw success body. Nil on fallback; the caller
	// substitutes its domain-appropriate empty value.
	Payload json.RawMessage

	Fallback       bool
	FallbackReason string

	// LastStatus is the HTTP status of the last error response, so a
	// degraded caller can tell a confirmed 404 from transient exhaustion.
	LastStatus int

	RequestID string
	Attempts  int
	Strategy  string

	// IDMatch records the identity consistency check: nil when no check
	// ran, false when a tolerant strategy resolved a different entity.
	IDMatch *bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// Orchestrator executes logical fetches to completion, hiding the attempt
// loop from callers. It is safe for concurrent use; each call owns its own
// retry state.
type Orchestrator struct {
	client *http.Client
	health *HealthTracker
}

// NewOrchestrator wires the orchestrator to its transport once at
// construction. A nil client gets the default pooled client.
func NewOrchestrator(client *http.Client, health *HealthTracker) *Orchestrator {
	if client == nil {
		client = NewHTTPClient()
	}
	if health == nil {
		health = NewHealthTracker()
	}
	return &Orchestrator{client: client, health: health}
}

// Health exposes the tracker for health reporting.
func (o *Orchestrator) Health() *HealthTracker {
	return o.health
}

// Do runs req to a terminal outcome. The error is non-nil only for
// auth-required responses (typed *Error) and caller cancellation (the
// context's own error, untouched). All retryable failures exhaust into a
// fallback Result so callers always have a value to render.
func (o *Orchestrator) Do(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.NewString()
	res := &Result{RequestID: requestID, StartedAt: time.Now()}

	var lastMessage string

	for attempt := 0; ; attempt++ {
		strategy := req.strategyFor(attempt)
		target, err := withCacheBuster(strategy.URL, req.Profile.CacheBuster, fmt.Sprintf("%s-%d", requestID, attempt))
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "invalid request URL", Err: err}
		}

		res.Attempts = attempt + 1
		res.Strategy = strategy.Name

		start := time.Now()
		verdict, err := o.attempt(ctx, target, standardHeader(req.Header, requestID, attempt), req.Profile.Timeout)
		elapsed := time.Since(start)
		if err != nil {
			// Caller canceled or abandoned the call; nobody is listening.
			return nil, err
		}

		metrics.FetchAttemptsTotal.WithLabelValues(req.Endpoint, string(verdict.Class)).Inc()
		metrics.FetchLatency.WithLabelValues(req.Endpoint).Observe(elapsed.Seconds())

		if verdict.Class == ClassAuthRequired {
			o.health.RecordFailure(req.Endpoint)
			metrics.FetchOutcomesTotal.WithLabelValues(req.Endpoint, "auth_required").Inc()
			slog.Warn("Fetch requires authentication",
				"request_id", requestID,
				"endpoint", req.Endpoint,
				"attempt", attempt,
				"elapsed", elapsed)
			return nil, &Error{Kind: KindAuthRequired, Status: verdict.Status, Message: verdict.Message}
		}

		failMessage := verdict.Message
		if verdict.Class == ClassSuccess {
			accepted, mismatch := o.checkIdentity(req, strategy, verdict.Payload, res)
			if accepted {
				res.Payload = verdict.Payload
				res.FinishedAt = time.Now()
				o.health.RecordSuccess(req.Endpoint, elapsed)
				metrics.FetchOutcomesTotal.WithLabelValues(req.Endpoint, "success").Inc()
				slog.Debug("Fetch succeeded",
					"request_id", requestID,
					"endpoint", req.Endpoint,
					"attempt", attempt,
					"strategy", strategy.Name,
					"elapsed", elapsed)
				return res, nil
			}
			failMessage = mismatch
		}

		if verdict.Status != 0 {
			res.LastStatus = verdict.Status
		}

		lastMessage = failMessage
		o.health.RecordFailure(req.Endpoint)
		slog.Warn("Fetch attempt failed",
			"request_id", requestID,
			"endpoint", req.Endpoint,
			"attempt", attempt,
			"strategy", strategy.Name,
			"classification", string(verdict.Class),
			"reason", failMessage,
			"elapsed", elapsed)

		if attempt >= req.Profile.MaxRetries {
			break
		}

		delay := backoffDelay(attempt, req.Profile)
		select {
		case <-ctx.Done():
			// Cancellation during backoff aborts the scheduled retry.
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	res.Fallback = true
	res.FallbackReason = lastMessage
	res.FinishedAt = time.Now()
	o.health.RecordFallback(req.Endpoint)
	metrics.FetchOutcomesTotal.WithLabelValues(req.Endpoint, "fallback").Inc()
	slog.Warn("Fetch exhausted retries, returning fallback",
		"request_id", requestID,
		"endpoint", req.Endpoint,
		"attempts", res.Attempts,
		"reason", lastMessage)
	return res, nil
}

// checkIdentity compares the payload's entity id against the requested one.
// A mismatch from a tolerant strategy is accepted and recorded on the
// result; from any other strategy it is a retryable failure.
func (o *Orchestrator) checkIdentity(req Request, strategy Strategy, payload json.RawMessage, res *Result) (accepted bool, mismatch string) {
	if req.RequestedID == "" || req.ExtractID == nil {
		return true, ""
	}
	got := req.ExtractID(payload)
	if got == "" {
		return true, ""
	}
	if got == req.RequestedID {
		match := true
		res.IDMatch = &match
		return true, ""
	}
	if strategy.TolerateIDMismatch {
		match := false
		res.IDMatch = &match
		slog.Warn("Accepting entity id mismatch from recovery strategy",
			"request_id", res.RequestID,
			"strategy", strategy.Name,
			"requested_id", req.RequestedID,
			"resolved_id", got)
		return true, ""
	}
	return false, fmt.Sprintf("entity id mismatch: requested %s, got %s", req.RequestedID, got)
}

// standardHeader builds the per-attempt header set: the cache-defeating
// trio, the request correlation id and the retry counter, with any extra
// request headers merged in first.
func standardHeader(extra http.Header, requestID string, attempt int) http.Header {
	h := http.Header{}
	for k, vs := range extra {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("X-Requested-With", "XMLHttpRequest")
	h.Set("X-Request-ID", requestID)
	h.Set("X-Retry-Count", strconv.Itoa(attempt))
	return h
}

// withCacheBuster appends the per-attempt cache-busting parameter so
// intermediate caches cannot replay a stale classification.
func withCacheBuster(rawURL, param, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(param, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
