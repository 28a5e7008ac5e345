package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AuthChecker reports whether the current session is authenticated. It is
// consulted only on the degraded branch of agent-scoped fetches, never on
// the hot path.
type AuthChecker interface {
	IsAuthenticated(ctx context.Context) (bool, error)
}

// Notifier receives user-visible messages on terminal failures and on
// fallback-data usage. Rendering is the collaborator's concern.
type Notifier interface {
	Notify(message string)
}

// Navigator receives the sign-in redirect target when a fetch discovers
// the session is gone.
type Navigator interface {
	SignIn(target string)
}

// signInURL builds the redirect target: the sign-in path with the original
// request path carried in redirect_url so the user lands back where the
// failed fetch originated.
func signInURL(signInPath, originalPath string) string {
	return signInPath + "?redirect_url=" + url.QueryEscape(originalPath)
}

// SessionAuthChecker probes the backend's session endpoint.
type SessionAuthChecker struct {
	base   string
	client *http.Client
}

// NewSessionAuthChecker builds a checker with a short fixed timeout; the
// probe runs off the hot path and must not inherit fetch retry behavior.
func NewSessionAuthChecker(baseURL string) *SessionAuthChecker {
	return &SessionAuthChecker{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SessionAuthChecker) IsAuthenticated(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/api/auth/check", nil)
	if err != nil {
		return false, fmt.Errorf("failed to build auth check request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("auth check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode auth check response: %w", err)
	}
	return body.Authenticated, nil
}

// slogNotifier and slogNavigator are the default collaborators for
// headless callers: they log instead of rendering.
type slogNotifier struct{}

func (slogNotifier) Notify(message string) {
	slog.Warn("User notification", "message", message)
}

type slogNavigator struct{}

func (slogNavigator) SignIn(target string) {
	slog.Info("Redirecting to sign-in", "target", target)
}
