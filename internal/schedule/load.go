package schedule

import (
	"strings"

	"github.com/resourceboard/backend/internal/models"
)

// Load weights per ticket class. Multiple same-day tickets stack additively,
// so a day can exceed 1.0.
const (
	WeightMajor   = 1.0
	WeightBug     = 0.2
	WeightDefault = 0.5

	blockLoad = 1.0
)

// Calculator computes per-day workloads over a loaded set of entities. All
// methods are pure; inverted ticket ranges (end before start) simply match
// no day and contribute nothing.
type Calculator struct {
	Tickets []models.Ticket
	Blocks  []models.AvailabilityBlock
}

// DayLoad is the result of a single (developer, date) load computation.
// Load is a fraction of one workday; 1.0 means fully booked.
type DayLoad struct {
	Load        float64 `json:"load"`
	Blocked     bool    `json:"blocked"`
	BlockReason string  `json:"block_reason,omitempty"`
}

// DailyLoad sums the weights of the developer's active tickets covering the
// given date and adds a flat full-day load for any unavailability block.
// When several blocks overlap the day only the first match supplies the
// surfaced reason.
func (c *Calculator) DailyLoad(devID, date string) DayLoad {
	var out DayLoad
	for _, t := range c.Tickets {
		if t.AssigneeID != devID || t.Status == models.StatusDone {
			continue
		}
		if t.StartDate <= date && t.EndDate >= date {
			out.Load += TicketWeight(t)
		}
	}
	for _, b := range c.Blocks {
		if b.DeveloperID != devID {
			continue
		}
		if b.StartDate <= date && b.EndDate >= date {
			out.Load += blockLoad
			out.Blocked = true
			out.BlockReason = b.Notes
			if out.BlockReason == "" {
				out.BlockReason = string(b.Type)
			}
			break
		}
	}
	return out
}

// TicketWeight classifies a ticket by its labels and title keywords.
// Precedence is Major over Bug over the default: a ticket tagged both Major
// and Bug weighs 1.0.
func TicketWeight(t models.Ticket) float64 {
	switch {
	case isMajor(t):
		return WeightMajor
	case isBug(t):
		return WeightBug
	default:
		return WeightDefault
	}
}

func isMajor(t models.Ticket) bool {
	if hasLabel(t.Labels, models.LabelMajor) {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), "major")
}

func isBug(t models.Ticket) bool {
	if hasLabel(t.Labels, models.LabelBug) {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), "bug")
}

func hasLabel(labels []string, target string) bool {
	for _, l := range labels {
		if strings.EqualFold(strings.TrimSpace(l), target) {
			return true
		}
	}
	return false
}

// ActiveTickets returns the developer's not-done tickets covering a date, in
// input order, for stacked-bar rendering.
func (c *Calculator) ActiveTickets(devID, date string) []models.Ticket {
	var out []models.Ticket
	for _, t := range c.Tickets {
		if t.AssigneeID != devID || t.Status == models.StatusDone {
			continue
		}
		if t.StartDate <= date && t.EndDate >= date {
			out = append(out, t)
		}
	}
	return out
}
