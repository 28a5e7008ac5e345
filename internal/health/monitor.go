package health

import (
	"context"
	"sync"
	"time"

	"github.com/Royalwole/sesame-sub004/internal/fetch"
)

// Status thresholds over the fetch layer's recent-outcome window.
const (
	degradedErrorRate = 0.3
	criticalErrorRate = 0.7
)

// Monitor derives endpoint health from the fetch layer's outcome tracker.
type Monitor struct {
	tracker *fetch.HealthTracker

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport map[string]EndpointHealth
}

// NewMonitor creates a new health monitor over a fetch tracker.
func NewMonitor(tracker *fetch.HealthTracker) *Monitor {
	return &Monitor{
		tracker:    tracker,
		lastReport: make(map[string]EndpointHealth),
	}
}

// CheckHealth evaluates every tracked endpoint. Reports are cached for a
// few seconds so health probes do not hammer the tracker lock.
func (m *Monitor) CheckHealth(ctx context.Context) map[string]EndpointHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < 10*time.Second && len(m.lastReport) > 0 {
		return m.lastReport
	}

	report := make(map[string]EndpointHealth)
	for _, stats := range m.tracker.Stats() {
		h := EndpointHealth{
			Endpoint:       stats.Endpoint,
			Status:         StatusHealthy,
			ErrorRate:      stats.ErrorRate,
			Fallbacks:      stats.Fallbacks,
			AverageLatency: stats.AverageLatency.String(),
		}

		switch {
		case stats.ErrorRate >= criticalErrorRate:
			h.Status = StatusCritical
		case stats.ErrorRate >= degradedErrorRate:
			h.Status = StatusDegraded
		}

		report[stats.Endpoint] = h
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}

// Report aggregates per-endpoint health into a full report, worst case wins.
func (m *Monitor) Report(ctx context.Context) HealthReport {
	endpoints := m.CheckHealth(ctx)

	status := StatusHealthy
	for _, ep := range endpoints {
		if ep.Status == StatusCritical {
			status = StatusCritical
			break
		}
		if ep.Status == StatusDegraded {
			status = StatusDegraded
		}
	}

	return HealthReport{SystemStatus: status, Endpoints: endpoints}
}
