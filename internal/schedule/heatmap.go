package schedule

import (
	"math"

	"github.com/resourceboard/backend/internal/models"
)

// Band is the discrete heatmap category for a day cell.
type Band string

const (
	BandLow      Band = "LOW"      // < 60%
	BandMedium   Band = "MEDIUM"   // 60–89%
	BandHigh     Band = "HIGH"     // 90–109%
	BandCritical Band = "CRITICAL" // >= 110%
	BandBlocked  Band = "BLOCKED"  // full-day unavailability, overrides the scale
)

// Display cap keeps runaway stacks readable.
const percentCap = 250

// Percent converts a load fraction to the rounded display percentage,
// capped at 250.
func Percent(load float64) int {
	p := int(math.Round(load * 100))
	if p > percentCap {
		return percentCap
	}
	return p
}

// Classify maps a load fraction to its heatmap band. A blocked day always
// renders as BLOCKED regardless of the numeric load. Thresholds are
// inclusive on the low end (exactly 60% is MEDIUM, 90% HIGH, 110% CRITICAL)
// and compare the raw percentage, not the rounded display value, so 59.9%
// stays LOW.
func Classify(load float64, blocked bool) Band {
	if blocked {
		return BandBlocked
	}
	p := load * 100
	switch {
	case p < 60:
		return BandLow
	case p < 90:
		return BandMedium
	case p < 110:
		return BandHigh
	default:
		return BandCritical
	}
}

// BarHeight is the stacked-bar size of a ticket as a fraction of a full-day
// cell. It reuses the load weights so bar sizing and load math never drift.
func BarHeight(t models.Ticket) float64 {
	return TicketWeight(t)
}
