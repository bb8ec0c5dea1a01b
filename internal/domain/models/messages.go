package models

// Message type discriminants pushed by the swarm backend.
const (
	MsgPheromoneUpdate = "pheromone_update"
	MsgPortfolioUpdate = "portfolio_update"
	MsgAgentMetrics    = "agent_metrics"
	MsgTradeHistory    = "trade_history"
	MsgEvent           = "event"
)

// Command type discriminants sent to the swarm backend.
const (
	CmdSetAllocation = "set_allocation"
	CmdReset         = "reset"
	CmdGetStatus     = "get_status"
)

// Envelope carries only the discriminant; payloads are decoded per type.
type Envelope struct {
	Type string `json:"type"`
}

type PheromoneUpdate struct {
	Type       string            `json:"type"`
	Pheromones []PheromoneStatus `json:"pheromones"`
}

type PortfolioUpdate struct {
	Type      string         `json:"type"`
	Portfolio PortfolioState `json:"portfolio"`
}

type AgentMetricsUpdate struct {
	Type   string        `json:"type"`
	Agents []AgentMetric `json:"agents"`
}

type TradeHistoryUpdate struct {
	Type   string          `json:"type"`
	Trades []TradeLogEntry `json:"trades"`
}

type EventMessage struct {
	Type      string  `json:"type"`
	EventType string  `json:"event_type"`
	Pheromone string  `json:"pheromone"`
	Intensity float64 `json:"intensity"`
}

type SetAllocationCommand struct {
	Type      string  `json:"type"`
	StocksPct float64 `json:"stocks_pct"`
	BondsPct  float64 `json:"bonds_pct"`
}

type ResetCommand struct {
	Type string `json:"type"`
}

type StatusRequest struct {
	Type string `json:"type"`
}
