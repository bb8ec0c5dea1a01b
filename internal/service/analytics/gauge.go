package analytics

import "math"

// GaugeArcs lays out the allocation ring: two contiguous arcs whose
// lengths are proportional shares of the circumference, plus the target
// marker angle in degrees where a 0% target sits at -90 (12 o'clock).
type GaugeArcs struct {
	Circumference float64 `json:"circumference"`
	StocksLength  float64 `json:"stocks_length"`
	BondsLength   float64 `json:"bonds_length"`
	BondsOffset   float64 `json:"bonds_offset"`
	MarkerAngle   float64 `json:"marker_angle"`
}

// Gauge computes the ring layout for a radius. The bonds arc starts where
// the stocks arc ends.
func Gauge(stocksPct, bondsPct, targetStocksPct, radius float64) GaugeArcs {
	circ := 2 * math.Pi * radius
	stocks := stocksPct / 100 * circ
	return GaugeArcs{
		Circumference: circ,
		StocksLength:  stocks,
		BondsLength:   bondsPct / 100 * circ,
		BondsOffset:   stocks,
		MarkerAngle:   targetStocksPct/100*360 - 90,
	}
}
