package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NewHTTPClient returns the pooled client shared by all fetch attempts.
// No client-level timeout is set; each attempt carries its own deadline
// through its context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// attempt performs one network call under a hard per-attempt deadline and
// returns the classified verdict. The returned error is non-nil only when
// the parent context terminated (caller canceled or abandoned the call);
// every upstream failure mode is folded into the verdict instead.
func (o *Orchestrator) attempt(ctx context.Context, url string, header http.Header, timeout time.Duration) (Verdict, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, url, nil)
	if err != nil {
		return Verdict{Class: ClassNetworkError, Message: fmt.Sprintf("failed to build request: %v", err)}, nil
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return transportVerdict(ctx, err, timeout)
	}
	defer resp.Body.Close()

	// Exactly one body read per response.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportVerdict(ctx, err, timeout)
	}

	finalURL := resp.Request.URL.String()
	return Classify(ClassifyInput{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    finalURL,
		Redirected:  finalURL != url,
		Body:        body,
	}), nil
}

// transportVerdict distinguishes caller cancellation (propagated as an
// error) from the attempt's own deadline (a retryable timeout) and plain
// connection failures.
func transportVerdict(ctx context.Context, err error, timeout time.Duration) (Verdict, error) {
	if ctx.Err() != nil {
		return Verdict{}, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Verdict{Class: ClassTimeout, Message: fmt.Sprintf("request timed out after %s", timeout)}, nil
	}
	return Verdict{Class: ClassNetworkError, Message: fmt.Sprintf("network request failed: %v", err)}, nil
}
