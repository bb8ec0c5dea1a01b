package models

import "time"

// Pheromone names the swarm backend is known to emit. The store and
// analytics treat names as opaque keys; these constants only feed the
// default agent roster and tests.
const (
	PheromonePriceFreshness       = "Price Freshness"
	PheromoneRebalanceOpportunity = "Rebalance Opportunity"
	PheromoneExecutionPermit      = "Execution Permit"
	PheromoneTradeExecuted        = "Trade Executed"
)

// PheromoneStatus is one signal's state as pushed by the backend.
type PheromoneStatus struct {
	Name      string  `json:"name"`
	Intensity float64 `json:"intensity"`
	Threshold float64 `json:"threshold"`
	IsActive  bool    `json:"is_active"`
}

// Event is a swarm activity record. ID and Timestamp are assigned on
// receipt; the backend sends only type, pheromone and intensity.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"event_type"`
	Pheromone string    `json:"pheromone"`
	Intensity float64   `json:"intensity"`
	Timestamp time.Time `json:"timestamp"`
}
