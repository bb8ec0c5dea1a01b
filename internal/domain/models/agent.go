package models

// AgentMetric is the backend's authoritative per-agent activity report.
type AgentMetric struct {
	Name           string  `json:"name"`
	IsActive       bool    `json:"is_active"`
	ActionCount    uint64  `json:"action_count"`
	LastAction     string  `json:"last_action"`
	LastActionTime *string `json:"last_action_time"`
}
