package analytics

import (
	"testing"

	"driftwatch/internal/domain/models"
)

func TestResolveActivityMetricsWin(t *testing.T) {
	agents := []models.AgentMetric{
		{Name: "Analyst", IsActive: false, ActionCount: 7},
	}
	pheromones := []models.PheromoneStatus{
		{Name: models.PheromonePriceFreshness, IsActive: true},
	}

	got := ResolveActivity(DefaultRoster, agents, pheromones)

	analyst := findActivity(t, got, "Analyst")
	// The pheromone says active, but the backend metric is authoritative.
	if analyst.Active {
		t.Errorf("Analyst should be inactive per metrics")
	}
	if analyst.Source != "metrics" {
		t.Errorf("Analyst source = %q, want metrics", analyst.Source)
	}
	if analyst.Metrics == nil || analyst.Metrics.ActionCount != 7 {
		t.Errorf("Analyst metrics not carried through: %+v", analyst.Metrics)
	}
}

func TestResolveActivitySignalFallback(t *testing.T) {
	pheromones := []models.PheromoneStatus{
		{Name: models.PheromonePriceFreshness, IsActive: true},
		{Name: models.PheromoneRebalanceOpportunity, IsActive: false},
	}

	got := ResolveActivity(DefaultRoster, nil, pheromones)

	if a := findActivity(t, got, "Analyst"); !a.Active || a.Source != "signal" {
		t.Errorf("Analyst = %+v, want active via signal", a)
	}
	if g := findActivity(t, got, "Guardian"); g.Active {
		t.Errorf("Guardian should be inactive, upstream pheromone is inactive")
	}
	// No pheromone reported for Trader's upstream: inactive.
	if tr := findActivity(t, got, "Trader"); tr.Active {
		t.Errorf("Trader should be inactive, upstream pheromone unknown")
	}
}

func TestResolveActivityEntryAlwaysActive(t *testing.T) {
	got := ResolveActivity(DefaultRoster, nil, nil)

	s := findActivity(t, got, "Sensor")
	if !s.Active {
		t.Fatalf("entry agent must be active without any data")
	}
	if s.Source != "entry" {
		t.Errorf("Sensor source = %q, want entry", s.Source)
	}
}

func TestResolveActivityKeepsUnknownAgents(t *testing.T) {
	agents := []models.AgentMetric{
		{Name: "Auditor", IsActive: true, ActionCount: 2},
	}

	got := ResolveActivity(DefaultRoster, agents, nil)

	if len(got) != len(DefaultRoster)+1 {
		t.Fatalf("activities = %d, want %d", len(got), len(DefaultRoster)+1)
	}
	a := findActivity(t, got, "Auditor")
	if !a.Active || a.Source != "metrics" {
		t.Errorf("Auditor = %+v, want active via metrics", a)
	}
}

func findActivity(t *testing.T, list []AgentActivity, name string) AgentActivity {
	t.Helper()
	for _, a := range list {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("agent %q not in activities %+v", name, list)
	return AgentActivity{}
}
