package service

import (
	"github.com/resourceboard/backend/internal/models"
	"github.com/resourceboard/backend/internal/schedule"
)

// TicketBar is one stacked bar in a day cell. Height is a fraction of the
// full cell, matching the ticket's load weight.
type TicketBar struct {
	Key    string              `json:"key"`
	Title  string              `json:"title"`
	Status models.TicketStatus `json:"status"`
	Height float64             `json:"height"`
}

type Cell struct {
	Date        string        `json:"date"`
	Percent     int           `json:"percent"`
	Band        schedule.Band `json:"band"`
	Blocked     bool          `json:"blocked"`
	BlockReason string        `json:"block_reason,omitempty"`
	Free        bool          `json:"free"`
	Collapsed   bool          `json:"collapsed"`
	Tickets     []TicketBar   `json:"tickets"`
}

type Row struct {
	Developer models.Developer `json:"developer"`
	WeekLoad  float64          `json:"week_load"`
	Critical  bool             `json:"critical"`
	Cells     []Cell           `json:"cells"`
}

type Board struct {
	Rows          []Row                  `json:"rows"`
	Columns       []schedule.Column      `json:"columns"`
	NowOffset     float64                `json:"now_offset"`
	Metrics       schedule.TeamMetrics   `json:"metrics"`
	Warning       schedule.WarningStatus `json:"warning"`
	BannerVisible bool                   `json:"banner_visible"`
	View          models.ViewConfig      `json:"view"`
}

// BuildBoard assembles the full dashboard payload for a view configuration:
// filtered and sorted developers, per-day cells with heatmap bands and
// stacked bars, timeline geometry, team metrics, and the warning state.
func (s *BoardService) BuildBoard(view models.ViewConfig) Board {
	snap := s.Snapshot()
	now := s.Now()
	today := models.DateKey(now)
	if view.StartDate == "" {
		view.StartDate = today
	}
	if view.Days <= 0 {
		view.Days = 14
	}
	if view.Sort == "" {
		view.Sort = models.SortLoadWeekDesc
	}

	calc := &schedule.Calculator{Tickets: snap.Tickets, Blocks: snap.Blocks}
	visible := schedule.FilterDevelopers(snap.Developers, view.Query)
	visible = calc.SortDevelopers(visible, view.Sort, view.StartDate, today)

	columns := schedule.Columns(view.StartDate, view.Days, view.ShowWeekends, now)
	rows := make([]Row, 0, len(visible))
	for _, dev := range visible {
		row := Row{
			Developer: dev,
			WeekLoad:  calc.AverageLoad(dev.ID, view.StartDate, 7),
			Cells:     make([]Cell, 0, len(columns)),
		}
		for _, col := range columns {
			day := calc.DailyLoad(dev.ID, col.Date)
			percent := schedule.Percent(day.Load)
			cell := Cell{
				Date:        col.Date,
				Percent:     percent,
				Band:        schedule.Classify(day.Load, day.Blocked),
				Blocked:     day.Blocked,
				BlockReason: day.BlockReason,
				Free:        !day.Blocked && percent < 60,
				Collapsed:   col.Collapsed,
				Tickets:     []TicketBar{},
			}
			if !col.Collapsed {
				for _, t := range calc.ActiveTickets(dev.ID, col.Date) {
					cell.Tickets = append(cell.Tickets, TicketBar{
						Key:    t.Key,
						Title:  t.Title,
						Status: t.Status,
						Height: schedule.BarHeight(t),
					})
				}
			}
			// Raw comparison, same as the band thresholds: a day whose badge
			// rounds up to 110 but sits below it stays HIGH and non-critical.
			if day.Load*100 >= 110 && !day.Blocked {
				row.Critical = true
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}

	warning := calc.EvaluateWarning(visible, view.StartDate)
	bannerVisible := warning.Level != schedule.WarnNone
	if s.Banner != nil {
		bannerVisible = s.Banner.Visible(warning)
	}

	return Board{
		Rows:          rows,
		Columns:       columns,
		NowOffset:     schedule.NowOffset(now, view.StartDate, schedule.DayWidth(view.Days)),
		Metrics:       calc.TeamMetrics(visible, today),
		Warning:       warning,
		BannerVisible: bannerVisible,
		View:          view,
	}
}
