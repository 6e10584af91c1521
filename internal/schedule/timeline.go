package schedule

import (
	"time"

	"github.com/resourceboard/backend/internal/models"
)

// Column widths in pixels. Wide cells for a one-week view, narrower for
// longer windows, and a sliver for collapsed weekends.
const (
	DayWidthWide      = 160
	DayWidthNarrow    = 100
	WeekendSliverWide = 5
)

type Column struct {
	Date      string `json:"date"`
	Weekend   bool   `json:"weekend"`
	Collapsed bool   `json:"collapsed"`
	Width     int    `json:"width"`
	Today     bool   `json:"today"`
}

// DayWidth picks the uniform column width for a window size.
func DayWidth(days int) int {
	if days <= 7 {
		return DayWidthWide
	}
	return DayWidthNarrow
}

// Columns lays out the visible date cells. Weekends collapse to a fixed
// sliver unless showWeekends is set. Unparseable start dates yield an empty
// layout rather than an error.
func Columns(start string, days int, showWeekends bool, now time.Time) []Column {
	startDay, err := models.ParseDate(start)
	if err != nil {
		return nil
	}
	today := models.DateKey(now)
	width := DayWidth(days)

	out := make([]Column, 0, days)
	for i := 0; i < days; i++ {
		d := startDay.AddDate(0, 0, i)
		key := models.DateKey(d)
		weekend := d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
		col := Column{
			Date:    key,
			Weekend: weekend,
			Width:   width,
			Today:   key == today,
		}
		if weekend && !showWeekends {
			col.Collapsed = true
			col.Width = WeekendSliverWide
		}
		out = append(out, col)
	}
	return out
}

// NowOffset is the continuous pixel position of the current-time marker:
// fractional days since the window start times the uniform day width. The
// math ignores collapsed-weekend widths, so the marker drifts once a
// weekend in range is collapsed.
func NowOffset(now time.Time, start string, dayWidth int) float64 {
	startDay, err := models.ParseDate(start)
	if err != nil {
		return -1
	}
	return now.UTC().Sub(startDay).Hours() / 24 * float64(dayWidth)
}
