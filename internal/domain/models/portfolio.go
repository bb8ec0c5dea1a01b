package models

// PortfolioState mirrors the backend's portfolio snapshot. LastTradeTime is
// null until the swarm's first trade.
type PortfolioState struct {
	TotalValue    float64 `json:"total_value"`
	StocksValue   float64 `json:"stocks_value"`
	BondsValue    float64 `json:"bonds_value"`
	StocksPct     float64 `json:"stocks_pct"`
	BondsPct      float64 `json:"bonds_pct"`
	LastTradeTime *string `json:"last_trade_time"`
}

// TradeLogEntry is one executed trade as reported by the backend.
// Timestamp stays the RFC3339 string it arrived as.
type TradeLogEntry struct {
	ID             string  `json:"id"`
	Timestamp      string  `json:"timestamp"`
	Action         string  `json:"action"`
	Symbol         string  `json:"symbol"`
	Amount         float64 `json:"amount"`
	Price          float64 `json:"price"`
	PortfolioValue float64 `json:"portfolio_value"`
	DriftBefore    float64 `json:"drift_before"`
	DriftAfter     float64 `json:"drift_after"`
}
