package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/resourceboard/backend/internal/models"
	"github.com/resourceboard/backend/internal/normalize"
	"github.com/resourceboard/backend/internal/schedule"
)

// fakeSource records write-backs and lets tests fail individual fetches.
type fakeSource struct {
	devs    []normalize.Raw
	tickets []normalize.Raw
	blocks  []normalize.Raw

	devsErr   error
	blocksErr error
	insertErr error
	moveErr   error

	inserted []models.AvailabilityBlock
	moves    []string
}

func (f *fakeSource) FetchDevelopers(ctx context.Context) ([]normalize.Raw, error) {
	return f.devs, f.devsErr
}

func (f *fakeSource) FetchTickets(ctx context.Context, limit int) ([]normalize.Raw, error) {
	if limit > 0 && len(f.tickets) > limit {
		return f.tickets[:limit], nil
	}
	return f.tickets, nil
}

func (f *fakeSource) FetchBlocks(ctx context.Context) ([]normalize.Raw, error) {
	return f.blocks, f.blocksErr
}

func (f *fakeSource) InsertAvailability(ctx context.Context, block models.AvailabilityBlock) error {
	f.inserted = append(f.inserted, block)
	return f.insertErr
}

func (f *fakeSource) MoveTicket(ctx context.Context, key, assigneeID, date string) error {
	f.moves = append(f.moves, key)
	return f.moveErr
}

func (f *fakeSource) Ping(ctx context.Context) error { return nil }

func newTestService(src *fakeSource) *BoardService {
	svc := NewBoardService(src, zerolog.Nop(), 200, schedule.NewBanner(true))
	svc.Now = func() time.Time {
		return time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC) // a Monday
	}
	return svc
}

func defaultSource() *fakeSource {
	return &fakeSource{
		devs: []normalize.Raw{
			{"id": "dev-1", "jira_account_id": "acct-1", "display_name": "Alice Chen", "role": "Backend", "capacity": 8},
			{"id": "dev-2", "display_name": "Bob Smith"},
		},
		tickets: []normalize.Raw{
			{"key": "RB-1", "summary": "Critical outage", "status": "In Progress", "assignee_jira_id": "acct-1", "start_date": "2026-08-03", "end_date": "2026-08-07"},
			{"key": "RB-2", "summary": "Small chore", "status": "To Do", "assignee": "Bob Smith", "start_date": "2026-08-04", "end_date": "2026-08-05"},
		},
		blocks: []normalize.Raw{
			{"id": "blk-1", "developer_id": "dev-2", "reason": "Out of Office", "start_time": "2026-08-05T00:00:00Z", "end_time": "2026-08-06T00:00:00Z"},
		},
	}
}

func TestRefreshNormalizesSnapshot(t *testing.T) {
	src := defaultSource()
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	snap := svc.Snapshot()
	if len(snap.Developers) != 2 || len(snap.Tickets) != 2 || len(snap.Blocks) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d/%d/%d", len(snap.Developers), len(snap.Tickets), len(snap.Blocks))
	}
	if snap.Tickets[0].AssigneeID != "dev-1" {
		t.Fatalf("tracker id not resolved: %q", snap.Tickets[0].AssigneeID)
	}
	if snap.Tickets[1].AssigneeID != "dev-2" {
		t.Fatalf("display name not resolved: %q", snap.Tickets[1].AssigneeID)
	}
	if snap.Blocks[0].StartDate != "2026-08-05" {
		t.Fatalf("block dates not truncated: %q", snap.Blocks[0].StartDate)
	}
	if snap.LoadedAt.IsZero() {
		t.Fatal("expected LoadedAt to be set")
	}
}

func TestRefreshSurvivesBlocksFailure(t *testing.T) {
	src := defaultSource()
	src.blocksErr = errors.New("relation manual_availability does not exist")
	svc := newTestService(src)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("blocks failure must not abort refresh: %v", err)
	}
	snap := svc.Snapshot()
	if len(snap.Blocks) != 0 {
		t.Fatalf("expected empty blocks, got %d", len(snap.Blocks))
	}
	if len(snap.Developers) != 2 {
		t.Fatalf("developers should still load, got %d", len(snap.Developers))
	}
}

func TestRefreshAbortsOnDeveloperFailure(t *testing.T) {
	src := defaultSource()
	src.devsErr = errors.New("connection refused")
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRefreshRearmsBanner(t *testing.T) {
	src := defaultSource()
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	svc.Banner.Dismiss()
	if svc.Banner.Visible(schedule.WarningStatus{Level: schedule.WarnYellow}) {
		t.Fatal("banner should stay dismissed before reload")
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if !svc.Banner.Visible(schedule.WarningStatus{Level: schedule.WarnYellow}) {
		t.Fatal("reload must re-arm the banner")
	}
}

func TestAddAvailabilityIsOptimistic(t *testing.T) {
	src := defaultSource()
	src.insertErr = errors.New("write timeout")
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	block := svc.AddAvailability(context.Background(), "dev-1", models.AvailabilityOOO, "2026-08-10", "", "PTO")
	if block.ID == "" {
		t.Fatal("expected generated id")
	}
	if block.EndDate != "2026-08-10" {
		t.Fatalf("empty end must default to start, got %q", block.EndDate)
	}

	snap := svc.Snapshot()
	if len(snap.Blocks) != 2 {
		t.Fatalf("block must stay in snapshot despite write failure, got %d", len(snap.Blocks))
	}
	if len(src.inserted) != 1 {
		t.Fatalf("expected one write-back attempt, got %d", len(src.inserted))
	}
}

func TestMoveTicketCollapsesToTargetDay(t *testing.T) {
	src := defaultSource()
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if !svc.MoveTicket(context.Background(), "RB-1", "dev-2", "2026-08-06") {
		t.Fatal("expected ticket to be found")
	}
	snap := svc.Snapshot()
	moved := snap.Tickets[0]
	if moved.AssigneeID != "dev-2" || moved.StartDate != "2026-08-06" || moved.EndDate != "2026-08-06" {
		t.Fatalf("unexpected moved ticket: %+v", moved)
	}
	if len(src.moves) != 1 {
		t.Fatalf("expected one store write, got %d", len(src.moves))
	}
}

func TestMoveTicketUnknownKey(t *testing.T) {
	src := defaultSource()
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if svc.MoveTicket(context.Background(), "RB-999", "dev-1", "2026-08-06") {
		t.Fatal("unknown key must report not found")
	}
	if len(src.moves) != 0 {
		t.Fatalf("no store write expected, got %d", len(src.moves))
	}
}

func TestBuildBoardDefaults(t *testing.T) {
	src := defaultSource()
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	board := svc.BuildBoard(models.ViewConfig{})
	if board.View.StartDate != "2026-08-03" {
		t.Fatalf("start must default to today, got %q", board.View.StartDate)
	}
	if board.View.Days != 14 || board.View.Sort != models.SortLoadWeekDesc {
		t.Fatalf("unexpected view defaults: %+v", board.View)
	}
	if len(board.Columns) != 14 {
		t.Fatalf("expected 14 columns, got %d", len(board.Columns))
	}
	if len(board.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(board.Rows))
	}
	for _, row := range board.Rows {
		if len(row.Cells) != 14 {
			t.Fatalf("expected 14 cells per row, got %d", len(row.Cells))
		}
	}
	if board.NowOffset <= 0 {
		t.Fatalf("now falls inside the window, offset %f", board.NowOffset)
	}
}

func TestBuildBoardCellSemantics(t *testing.T) {
	src := defaultSource()
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	board := svc.BuildBoard(models.ViewConfig{Sort: models.SortAlphabetical, StartDate: "2026-08-03", Days: 7})
	if board.Rows[0].Developer.Name != "Alice Chen" {
		t.Fatalf("alphabetical sort expected Alice first, got %q", board.Rows[0].Developer.Name)
	}

	// RB-1 carries the Major label (critical in title) so Alice runs at 100%.
	alice := board.Rows[0].Cells[0]
	if alice.Percent != 100 || alice.Band != schedule.BandHigh {
		t.Fatalf("unexpected cell: %+v", alice)
	}
	if alice.Free {
		t.Fatal("loaded day must not be free")
	}
	if len(alice.Tickets) != 1 || alice.Tickets[0].Key != "RB-1" {
		t.Fatalf("unexpected bars: %+v", alice.Tickets)
	}

	// Bob's OOO block on the 5th flips the blocked override.
	bob := board.Rows[1].Cells[2]
	if !bob.Blocked || bob.Band != schedule.BandBlocked {
		t.Fatalf("expected blocked cell, got %+v", bob)
	}

	// Bob is idle on the 3rd.
	idle := board.Rows[1].Cells[0]
	if !idle.Free || idle.Percent != 0 {
		t.Fatalf("expected free cell, got %+v", idle)
	}
}

func TestBuildBoardCriticalFlagTracksBand(t *testing.T) {
	src := defaultSource()
	// One default ticket plus three bugs stack to a hair under 110% in float
	// arithmetic: the badge rounds to 110 but the band stays HIGH, so the row
	// must not be flagged critical. The genuinely overloaded developer must.
	src.tickets = []normalize.Raw{
		{"key": "N-1", "summary": "Refresh landing page", "status": "To Do", "assignee_jira_id": "acct-1", "start_date": "2026-08-03", "end_date": "2026-08-03"},
		{"key": "N-2", "summary": "Fix login bug", "status": "To Do", "assignee_jira_id": "acct-1", "start_date": "2026-08-03", "end_date": "2026-08-03"},
		{"key": "N-3", "summary": "Fix logout bug", "status": "To Do", "assignee_jira_id": "acct-1", "start_date": "2026-08-03", "end_date": "2026-08-03"},
		{"key": "N-4", "summary": "Fix avatar bug", "status": "To Do", "assignee_jira_id": "acct-1", "start_date": "2026-08-03", "end_date": "2026-08-03"},
		{"key": "C-1", "summary": "Critical outage", "status": "In Progress", "assignee": "Bob Smith", "start_date": "2026-08-03", "end_date": "2026-08-03"},
		{"key": "C-2", "summary": "Fix checkout bug", "status": "To Do", "assignee": "Bob Smith", "start_date": "2026-08-03", "end_date": "2026-08-03"},
	}
	src.blocks = nil
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	board := svc.BuildBoard(models.ViewConfig{Sort: models.SortAlphabetical, StartDate: "2026-08-03", Days: 7})

	alice := board.Rows[0]
	if alice.Cells[0].Percent != 110 || alice.Cells[0].Band != schedule.BandHigh {
		t.Fatalf("unexpected cell: %+v", alice.Cells[0])
	}
	if alice.Critical {
		t.Fatal("badge rounding must not flag the row critical")
	}

	bob := board.Rows[1]
	if bob.Cells[0].Band != schedule.BandCritical {
		t.Fatalf("expected CRITICAL cell, got %+v", bob.Cells[0])
	}
	if !bob.Critical {
		t.Fatal("expected critical row for a 120% day")
	}
}

func TestBuildBoardFiltersByQuery(t *testing.T) {
	src := defaultSource()
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	board := svc.BuildBoard(models.ViewConfig{Query: "bob"})
	if len(board.Rows) != 1 || board.Rows[0].Developer.Name != "Bob Smith" {
		t.Fatalf("unexpected filter result: %+v", board.Rows)
	}
}

func TestBuildBoardWeekendCellsCarryNoBars(t *testing.T) {
	src := defaultSource()
	src.tickets = append(src.tickets, normalize.Raw{
		"key": "RB-3", "summary": "Weekend stretch", "status": "To Do",
		"assignee_jira_id": "acct-1", "start_date": "2026-08-03", "end_date": "2026-08-09",
	})
	svc := newTestService(src)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	board := svc.BuildBoard(models.ViewConfig{Sort: models.SortAlphabetical, StartDate: "2026-08-03", Days: 7})
	saturday := board.Rows[0].Cells[5]
	if !saturday.Collapsed {
		t.Fatal("expected saturday collapsed")
	}
	if len(saturday.Tickets) != 0 {
		t.Fatalf("collapsed cells must not render bars, got %d", len(saturday.Tickets))
	}
}
