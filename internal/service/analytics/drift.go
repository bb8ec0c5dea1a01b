// Package analytics derives presentation values from reconciled swarm
// state. Everything here is a pure function of its inputs; nothing reads
// the store or the clock.
package analytics

import "math"

// Severity grades how far the portfolio drifted from its target split.
type Severity string

const (
	SeverityAligned  Severity = "aligned"
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityCritical Severity = "critical"
)

// Label is the display name for a severity tier.
func (s Severity) Label() string {
	switch s {
	case SeverityAligned:
		return "Aligned"
	case SeverityMinor:
		return "Minor"
	case SeverityModerate:
		return "Moderate"
	case SeverityCritical:
		return "Critical"
	default:
		return string(s)
	}
}

// Drift is the absolute distance, in percentage points, between current
// and target stock allocation.
func Drift(currentStocksPct, targetStocksPct float64) float64 {
	return math.Abs(currentStocksPct - targetStocksPct)
}

// ClassifySeverity buckets a drift value. Boundaries are inclusive on the
// milder side: a drift of exactly 2, 5 or 10 stays in the lower tier.
func ClassifySeverity(drift float64) Severity {
	switch {
	case drift <= 2:
		return SeverityAligned
	case drift <= 5:
		return SeverityMinor
	case drift <= 10:
		return SeverityModerate
	default:
		return SeverityCritical
	}
}

// DriftStatus pairs a computed drift with its severity tier.
type DriftStatus struct {
	CurrentStocksPct float64  `json:"current_stocks_pct"`
	TargetStocksPct  float64  `json:"target_stocks_pct"`
	Drift            float64  `json:"drift"`
	Severity         Severity `json:"severity"`
	Label            string   `json:"label"`
}

// NewDriftStatus computes drift and severity for a current/target pair.
func NewDriftStatus(currentStocksPct, targetStocksPct float64) DriftStatus {
	d := Drift(currentStocksPct, targetStocksPct)
	sev := ClassifySeverity(d)
	return DriftStatus{
		CurrentStocksPct: currentStocksPct,
		TargetStocksPct:  targetStocksPct,
		Drift:            d,
		Severity:         sev,
		Label:            sev.Label(),
	}
}
