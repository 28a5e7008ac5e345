// Package health provides system health monitoring and status reporting.
package health

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// EndpointHealth contains health metrics for one upstream endpoint group.
type EndpointHealth struct {
	Endpoint       string       `json:"endpoint"`
	Status         SystemStatus `json:"status"`
	ErrorRate      float64      `json:"error_rate"`
	Fallbacks      int          `json:"fallbacks"`
	AverageLatency string       `json:"average_latency"`
}

// HealthReport contains the full system health report.
type HealthReport struct {
	SystemStatus SystemStatus              `json:"system_status"`
	Endpoints    map[string]EndpointHealth `json:"endpoints"`
}
