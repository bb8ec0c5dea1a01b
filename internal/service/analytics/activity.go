package analytics

import "driftwatch/internal/domain/models"

// AgentSpec declares one agent's place in the swarm chain. An empty
// ListensTo marks an entry agent with no upstream pheromone.
type AgentSpec struct {
	Name      string
	ListensTo string
}

// DefaultRoster mirrors the backend's agent chain.
var DefaultRoster = []AgentSpec{
	{Name: "Sensor"},
	{Name: "Analyst", ListensTo: models.PheromonePriceFreshness},
	{Name: "Guardian", ListensTo: models.PheromoneRebalanceOpportunity},
	{Name: "Trader", ListensTo: models.PheromoneExecutionPermit},
}

// AgentActivity is the resolved liveness of one agent. Source records
// which rule decided: the backend's own metric, the upstream pheromone
// fallback, or the entry rule.
type AgentActivity struct {
	Name    string              `json:"name"`
	Active  bool                `json:"active"`
	Source  string              `json:"source"`
	Metrics *models.AgentMetric `json:"metrics,omitempty"`
}

// ResolveActivity decides liveness per agent, each independently. A
// backend metric for the agent is authoritative. Without one, an entry
// agent is always active and the rest inherit their upstream pheromone's
// active flag (inactive when the pheromone is unknown). Agents reported
// by the backend but absent from the roster are appended as-is.
func ResolveActivity(roster []AgentSpec, agents []models.AgentMetric, pheromones []models.PheromoneStatus) []AgentActivity {
	byName := make(map[string]models.AgentMetric, len(agents))
	for _, a := range agents {
		byName[a.Name] = a
	}
	active := make(map[string]bool, len(pheromones))
	for _, p := range pheromones {
		active[p.Name] = p.IsActive
	}

	out := make([]AgentActivity, 0, len(roster)+len(agents))
	seen := make(map[string]bool, len(roster))
	for _, spec := range roster {
		seen[spec.Name] = true
		if m, ok := byName[spec.Name]; ok {
			out = append(out, AgentActivity{Name: spec.Name, Active: m.IsActive, Source: "metrics", Metrics: &m})
			continue
		}
		if spec.ListensTo == "" {
			out = append(out, AgentActivity{Name: spec.Name, Active: true, Source: "entry"})
			continue
		}
		out = append(out, AgentActivity{Name: spec.Name, Active: active[spec.ListensTo], Source: "signal"})
	}

	// Preserve backend order for agents outside the roster.
	for _, a := range agents {
		if seen[a.Name] {
			continue
		}
		m := a
		out = append(out, AgentActivity{Name: a.Name, Active: a.IsActive, Source: "metrics", Metrics: &m})
	}
	return out
}
