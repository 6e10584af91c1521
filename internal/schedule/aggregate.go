package schedule

import (
	"math"
	"sort"
	"strings"

	"github.com/resourceboard/backend/internal/models"
)

// AverageLoad is the mean daily load fraction over windowDays consecutive
// calendar days starting at start (inclusive).
func (c *Calculator) AverageLoad(devID, start string, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	var total float64
	for i := 0; i < windowDays; i++ {
		total += c.DailyLoad(devID, models.AddDays(start, i)).Load
	}
	return total / float64(windowDays)
}

// FilterDevelopers keeps developers whose name contains the query,
// case-insensitively. An empty query keeps everyone.
func FilterDevelopers(devs []models.Developer, query string) []models.Developer {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return devs
	}
	out := make([]models.Developer, 0, len(devs))
	for _, d := range devs {
		if strings.Contains(strings.ToLower(d.Name), query) {
			out = append(out, d)
		}
	}
	return out
}

// SortDevelopers orders a copy of devs by the given option. Weekly loads are
// 7-day windows anchored at weekStart; "today" loads are single-day windows
// anchored at the real current date regardless of the view window. Sorting
// is stable, so resorting an ordered sequence leaves it unchanged.
func (c *Calculator) SortDevelopers(devs []models.Developer, option models.SortOption, weekStart, today string) []models.Developer {
	out := make([]models.Developer, len(devs))
	copy(out, devs)

	switch option {
	case models.SortAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case models.SortLoadTodayDesc:
		loads := c.loadIndex(out, today, 1)
		sort.SliceStable(out, func(i, j int) bool {
			return loads[out[i].ID] > loads[out[j].ID]
		})
	case models.SortOverbookedDesc:
		// Developers over 100% for the week come first; each partition is
		// ordered by descending weekly load. The boundary is strictly greater
		// than 1.0, unlike the inclusive escalation thresholds.
		loads := c.loadIndex(out, weekStart, 7)
		sort.SliceStable(out, func(i, j int) bool {
			overI, overJ := loads[out[i].ID] > 1.0, loads[out[j].ID] > 1.0
			if overI != overJ {
				return overI
			}
			return loads[out[i].ID] > loads[out[j].ID]
		})
	default: // LOAD_WEEK_DESC
		loads := c.loadIndex(out, weekStart, 7)
		sort.SliceStable(out, func(i, j int) bool {
			return loads[out[i].ID] > loads[out[j].ID]
		})
	}
	return out
}

func (c *Calculator) loadIndex(devs []models.Developer, start string, days int) map[string]float64 {
	loads := make(map[string]float64, len(devs))
	for _, d := range devs {
		loads[d.ID] = c.AverageLoad(d.ID, start, days)
	}
	return loads
}

// TeamMetrics summarizes today's load across the visible developers.
// Utilization caps each developer at 150% so one extreme outlier cannot
// dominate the team average.
type TeamMetrics struct {
	Utilization int `json:"utilization"`
	Free        int `json:"free"`
	Overbooked  int `json:"overbooked"`
}

func (c *Calculator) TeamMetrics(devs []models.Developer, today string) TeamMetrics {
	var m TeamMetrics
	if len(devs) == 0 {
		return m
	}
	var sum float64
	for _, d := range devs {
		load := c.AverageLoad(d.ID, today, 1)
		sum += math.Min(load*100, 150)
		if load < 0.5 {
			m.Free++
		}
		if load >= 1.0 {
			m.Overbooked++
		}
	}
	m.Utilization = int(math.Round(sum / float64(len(devs))))
	return m
}
