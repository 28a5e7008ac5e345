package fetch

import (
	"sort"
	"sync"
	"time"
)

const (
	maxLatencyWindow = 100
	maxOutcomeWindow = 100
)

// EndpointStats is a point-in-time health snapshot for one endpoint group.
type EndpointStats struct {
	Endpoint       string
	Successes      int
	Failures       int
	Fallbacks      int
	ErrorRate      float64 // over the recent outcome window
	AverageLatency time.Duration
	LastSuccess    time.Time
	LastFailure    time.Time
}

// HealthTracker records per-endpoint fetch outcomes. Counters are lifetime
// totals; the error rate is computed over a rolling window of recent
// outcomes so old incidents age out.
type HealthTracker struct {
	mu        sync.RWMutex
	endpoints map[string]*endpointRecord
}

type endpointRecord struct {
	successes int
	failures  int
	fallbacks int

	recentOutcomes  []bool // true = success
	recentLatencies []time.Duration

	lastSuccess time.Time
	lastFailure time.Time
}

// NewHealthTracker creates an empty tracker.
func NewHealthTracker() *HealthTracker {
	return &HealthTracker{endpoints: make(map[string]*endpointRecord)}
}

func (t *HealthTracker) record(endpoint string) *endpointRecord {
	rec, ok := t.endpoints[endpoint]
	if !ok {
		rec = &endpointRecord{
			recentOutcomes:  make([]bool, 0, maxOutcomeWindow),
			recentLatencies: make([]time.Duration, 0, maxLatencyWindow),
		}
		t.endpoints[endpoint] = rec
	}
	return rec
}

// RecordSuccess notes a successful attempt and its latency.
func (t *HealthTracker) RecordSuccess(endpoint string, latency time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.record(endpoint)
	rec.successes++
	rec.lastSuccess = time.Now()

	rec.recentOutcomes = append(rec.recentOutcomes, true)
	if len(rec.recentOutcomes) > maxOutcomeWindow {
		rec.recentOutcomes = rec.recentOutcomes[1:]
	}
	rec.recentLatencies = append(rec.recentLatencies, latency)
	if len(rec.recentLatencies) > maxLatencyWindow {
		rec.recentLatencies = rec.recentLatencies[1:]
	}
}

// RecordFailure notes a failed attempt (any retryable classification or an
// auth rejection).
func (t *HealthTracker) RecordFailure(endpoint string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.record(endpoint)
	rec.failures++
	rec.lastFailure = time.Now()

	rec.recentOutcomes = append(rec.recentOutcomes, false)
	if len(rec.recentOutcomes) > maxOutcomeWindow {
		rec.recentOutcomes = rec.recentOutcomes[1:]
	}
}

// RecordFallback notes a logical fetch that exhausted its retries.
func (t *HealthTracker) RecordFallback(endpoint string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(endpoint).fallbacks++
}

// StatsFor returns the snapshot for one endpoint.
func (t *HealthTracker) StatsFor(endpoint string) (EndpointStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.endpoints[endpoint]
	if !ok {
		return EndpointStats{}, false
	}
	return rec.snapshot(endpoint), true
}

// Stats returns snapshots for all endpoints, sorted by name.
func (t *HealthTracker) Stats() []EndpointStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]EndpointStats, 0, len(t.endpoints))
	for name, rec := range t.endpoints {
		out = append(out, rec.snapshot(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

func (r *endpointRecord) snapshot(endpoint string) EndpointStats {
	stats := EndpointStats{
		Endpoint:    endpoint,
		Successes:   r.successes,
		Failures:    r.failures,
		Fallbacks:   r.fallbacks,
		LastSuccess: r.lastSuccess,
		LastFailure: r.lastFailure,
	}

	if n := len(r.recentOutcomes); n > 0 {
		failed := 0
		for _, ok := range r.recentOutcomes {
			if !ok {
				failed++
			}
		}
		stats.ErrorRate = float64(failed) / float64(n)
	}

	if n := len(r.recentLatencies); n > 0 {
		var total time.Duration
		for _, lat := range r.recentLatencies {
			total += lat
		}
		stats.AverageLatency = total / time.Duration(n)
	}

	return stats
}
