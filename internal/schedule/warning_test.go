package schedule

import (
	"testing"

	"github.com/resourceboard/backend/internal/models"
)

// overloadedTeam builds n developers all carrying the given full-window
// ticket labels, so each has the same weekly average.
func overloadedTeam(n int, labels ...[]string) ([]models.Developer, []models.Ticket) {
	var devs []models.Developer
	var tickets []models.Ticket
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		devs = append(devs, models.Developer{ID: id, Name: "Dev " + id})
		for _, l := range labels {
			tickets = append(tickets, models.Ticket{
				Key: id, AssigneeID: id, Status: models.StatusTodo,
				StartDate: "2026-01-01", EndDate: "2026-12-31", Labels: l,
			})
		}
	}
	return devs, tickets
}

func TestWarningNoneOnEmpty(t *testing.T) {
	calc := &Calculator{}
	got := calc.EvaluateWarning(nil, weekStart)
	if got.Level != WarnNone {
		t.Fatalf("expected NONE, got %s", got.Level)
	}
}

func TestWarningRedRequiresThreeOver120(t *testing.T) {
	// Major + Bug all week = 1.2 per developer.
	devs, tickets := overloadedTeam(3, []string{"Major"}, []string{"Bug"})
	calc := &Calculator{Tickets: tickets}
	got := calc.EvaluateWarning(devs, weekStart)
	if got.Level != WarnRed {
		t.Fatalf("expected RED, got %s", got.Level)
	}
	if len(got.Names) != 3 {
		t.Fatalf("expected 3 names, got %v", got.Names)
	}
	if got.Names[0] != "Dev a 120%" {
		t.Fatalf("unexpected name format: %q", got.Names[0])
	}
}

func TestWarningRedNamesCappedAtThree(t *testing.T) {
	devs, tickets := overloadedTeam(5, []string{"Major"}, []string{"Major"})
	calc := &Calculator{Tickets: tickets}
	got := calc.EvaluateWarning(devs, weekStart)
	if got.Level != WarnRed || len(got.Names) != 3 {
		t.Fatalf("expected RED with top 3 names, got %s %v", got.Level, got.Names)
	}
}

func TestWarningOrangeRequiresFiveOver100(t *testing.T) {
	devs, tickets := overloadedTeam(5, []string{"Major"})
	calc := &Calculator{Tickets: tickets}
	got := calc.EvaluateWarning(devs, weekStart)
	if got.Level != WarnOrange {
		t.Fatalf("expected ORANGE, got %s", got.Level)
	}
}

func TestWarningYellowOnHighAverage(t *testing.T) {
	// Two developers at exactly 1.0: over100=2 (below 5), avg=1.0 >= 0.9.
	devs, tickets := overloadedTeam(2, []string{"Major"})
	calc := &Calculator{Tickets: tickets}
	got := calc.EvaluateWarning(devs, weekStart)
	if got.Level != WarnYellow {
		t.Fatalf("expected YELLOW, got %s", got.Level)
	}
}

func TestWarningPriorityLadderRedWins(t *testing.T) {
	// Ten developers at 1.2: over120=10 >= 3, over100=10 >= 5, avg=1.2 >=
	// 0.9. All levels match; RED must win.
	devs, tickets := overloadedTeam(10, []string{"Major"}, []string{"Bug"})
	calc := &Calculator{Tickets: tickets}
	got := calc.EvaluateWarning(devs, weekStart)
	if got.Level != WarnRed {
		t.Fatalf("first-match-wins violated: expected RED, got %s", got.Level)
	}
}

func TestBannerRearmOnLevelChange(t *testing.T) {
	b := NewBanner(true)
	red := WarningStatus{Level: WarnRed}
	orange := WarningStatus{Level: WarnOrange}

	if !b.Visible(red) {
		t.Fatalf("fresh banner must be visible")
	}
	b.Dismiss()
	if b.Visible(red) {
		t.Fatalf("dismissed banner must stay hidden at the same level")
	}
	if !b.Visible(orange) {
		t.Fatalf("level transition must re-arm the banner")
	}
}

func TestBannerStickyDismissal(t *testing.T) {
	b := NewBanner(false)
	b.Dismiss()
	if b.Visible(WarningStatus{Level: WarnRed}) {
		t.Fatalf("sticky dismissal must survive a level change")
	}
	if b.Visible(WarningStatus{Level: WarnOrange}) {
		t.Fatalf("sticky dismissal must survive a level change")
	}
	b.Reset()
	if !b.Visible(WarningStatus{Level: WarnOrange}) {
		t.Fatalf("reset must re-arm the banner")
	}
}

func TestBannerHiddenAtNone(t *testing.T) {
	b := NewBanner(true)
	if b.Visible(WarningStatus{Level: WarnNone}) {
		t.Fatalf("NONE level never shows a banner")
	}
}
