package domain

import "time"

// DashboardStats aggregates an agent's listing counts.
type DashboardStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Sold    int `json:"sold"`
	Rented  int `json:"rented"`
	Pending int `json:"pending"`
}

// AgentDashboard is the dashboard-shaped fetch outcome for one agent.
type AgentDashboard struct {
	AgentID        string         `json:"agentId"`
	Stats          DashboardStats `json:"stats"`
	Recent         []Listing      `json:"recent"`
	Fallback       bool           `json:"fallback"`
	FallbackReason string         `json:"fallbackReason,omitempty"`
	RequestID      string         `json:"requestId,omitempty"`
	FetchedAt      time.Time      `json:"fetchedAt"`
}

// EmptyAgentDashboard is the canonical fallback value for dashboard fetches.
func EmptyAgentDashboard(agentID string) *AgentDashboard {
	return &AgentDashboard{
		AgentID:  agentID,
		Recent:   []Listing{},
		Fallback: true,
	}
}
