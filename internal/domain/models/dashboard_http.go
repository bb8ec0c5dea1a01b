package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type AllocationRequest struct {
	StocksPct float64 `json:"stocks_pct" validate:"gte=0,lte=100"`
	BondsPct  float64 `json:"bonds_pct" validate:"gte=0,lte=100"`
}

type TradesRequest struct {
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
	Limit int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type HistoryRequest struct {
	Name string `param:"name" json:"name" validate:"required"`
}

// TargetStocks is a pointer so an absent query param can fall back to the
// configured default while an explicit 0 still means 0.
type DriftRequest struct {
	TargetStocks *float64 `query:"target_stocks" json:"target_stocks" validate:"omitempty,gte=0,lte=100"`
}

type SparklineRequest struct {
	Name   string  `query:"name" json:"name" validate:"required"`
	Width  float64 `query:"width" json:"width" default:"100" validate:"gt=0"`
	Height float64 `query:"height" json:"height" default:"30" validate:"gt=0"`
}

type GaugeRequest struct {
	Radius       float64  `query:"radius" json:"radius" default:"54" validate:"gt=0"`
	TargetStocks *float64 `query:"target_stocks" json:"target_stocks" validate:"omitempty,gte=0,lte=100"`
}
