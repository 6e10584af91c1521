package schedule

import (
	"fmt"
	"sync"

	"github.com/resourceboard/backend/internal/models"
)

// WarningLevel is the single team-wide escalation severity. Levels form a
// priority ladder evaluated top down; only one is ever active.
type WarningLevel string

const (
	WarnNone   WarningLevel = "NONE"
	WarnYellow WarningLevel = "YELLOW"
	WarnOrange WarningLevel = "ORANGE"
	WarnRed    WarningLevel = "RED"
)

type WarningStatus struct {
	Level WarningLevel `json:"level"`
	Names []string     `json:"names"`
}

// EvaluateWarning derives the escalation level from 7-day average loads
// anchored at the view's start date. RED wins over ORANGE wins over YELLOW
// even when several conditions hold simultaneously.
func (c *Calculator) EvaluateWarning(devs []models.Developer, weekStart string) WarningStatus {
	var (
		over120 int
		over100 int
		total   float64
		names   []string
	)
	for _, d := range devs {
		load := c.AverageLoad(d.ID, weekStart, 7)
		total += load
		if load >= 1.2 {
			over120++
			names = append(names, fmt.Sprintf("%s %d%%", d.Name, Percent(load)))
		}
		if load >= 1.0 {
			over100++
		}
	}
	var avg float64
	if len(devs) > 0 {
		avg = total / float64(len(devs))
	}

	switch {
	case over120 >= 3:
		if len(names) > 3 {
			names = names[:3]
		}
		return WarningStatus{Level: WarnRed, Names: names}
	case over100 >= 5:
		return WarningStatus{Level: WarnOrange, Names: []string{}}
	case avg >= 0.9:
		return WarningStatus{Level: WarnYellow, Names: []string{}}
	default:
		return WarningStatus{Level: WarnNone, Names: []string{}}
	}
}

// Banner tracks dismissal of the warning display. With RearmOnChange set,
// any level transition clears a previous dismissal; without it a single
// dismissal sticks until the next full data reload.
type Banner struct {
	RearmOnChange bool

	mu        sync.Mutex
	dismissed bool
	lastLevel WarningLevel
}

func NewBanner(rearmOnChange bool) *Banner {
	return &Banner{RearmOnChange: rearmOnChange, lastLevel: WarnNone}
}

// Visible reports whether the banner should render for the current status
// and records the level for transition tracking.
func (b *Banner) Visible(status WarningStatus) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.RearmOnChange && status.Level != b.lastLevel {
		b.dismissed = false
	}
	b.lastLevel = status.Level
	if status.Level == WarnNone {
		return false
	}
	return !b.dismissed
}

func (b *Banner) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dismissed = true
}

// Reset re-arms the banner; called on every full data reload.
func (b *Banner) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dismissed = false
	b.lastLevel = WarnNone
}
