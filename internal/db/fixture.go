package db

import (
	"context"
	"sync"
	"time"

	"github.com/resourceboard/backend/internal/models"
	"github.com/resourceboard/backend/internal/normalize"
)

// Fixture is an in-memory Source seeded with demo data, used when no
// database is configured so the board stays usable without a backend.
type Fixture struct {
	mu         sync.Mutex
	developers []normalize.Raw
	tickets    []normalize.Raw
	blocks     []normalize.Raw
}

func NewFixture(now time.Time) *Fixture {
	today := models.DateKey(now)
	return &Fixture{
		developers: []normalize.Raw{
			{"id": "dev-1", "display_name": "Alice Chen", "role": "Frontend Lead", "capacity": 8},
			{"id": "dev-2", "display_name": "Bob Smith", "role": "Backend Engineer", "capacity": 8},
			{"id": "dev-3", "display_name": "Charlie Kim", "role": "Full Stack", "capacity": 8},
		},
		tickets: []normalize.Raw{
			{"key": "PROJ-101", "summary": "Major refactor of billing pipeline", "status": "In Progress", "assignee_id": "dev-1", "start_date": models.AddDays(today, -2), "end_date": models.AddDays(today, 2), "priority": "High"},
			{"key": "PROJ-102", "summary": "Fix login bug on Safari", "status": "To Do", "assignee_id": "dev-1", "start_date": today, "end_date": models.AddDays(today, 1), "priority": "Medium"},
			{"key": "PROJ-103", "summary": "Update API documentation", "status": "To Do", "assignee_id": "dev-2", "start_date": today, "end_date": models.AddDays(today, 3), "priority": "Low"},
			{"key": "PROJ-104", "summary": "Critical outage follow-up", "status": "In Progress", "assignee_id": "dev-3", "start_date": models.AddDays(today, -1), "end_date": models.AddDays(today, 4), "priority": "High"},
			{"key": "PROJ-105", "summary": "Polish settings page", "status": "Done", "assignee_id": "dev-2", "start_date": models.AddDays(today, -5), "end_date": today, "priority": "Medium"},
		},
		blocks: []normalize.Raw{
			{"id": "blk-1", "developer_id": "dev-2", "reason": "Out of Office", "start_date": models.AddDays(today, 2), "end_date": models.AddDays(today, 3)},
		},
	}
}

func (f *Fixture) FetchDevelopers(ctx context.Context) ([]normalize.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyRaw(f.developers), nil
}

func (f *Fixture) FetchTickets(ctx context.Context, limit int) ([]normalize.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := copyRaw(f.tickets)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Fixture) FetchBlocks(ctx context.Context) ([]normalize.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyRaw(f.blocks), nil
}

func (f *Fixture) InsertAvailability(ctx context.Context, block models.AvailabilityBlock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reason := block.Notes
	if reason == "" {
		reason = string(block.Type)
	}
	f.blocks = append(f.blocks, normalize.Raw{
		"id":           block.ID,
		"developer_id": block.DeveloperID,
		"reason":       reason,
		"start_date":   block.StartDate,
		"end_date":     block.EndDate,
	})
	return nil
}

func (f *Fixture) MoveTicket(ctx context.Context, key, assigneeID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t["key"] == key {
			t["assignee_id"] = assigneeID
			t["start_date"] = date
			t["end_date"] = date
		}
	}
	return nil
}

func (f *Fixture) Ping(ctx context.Context) error {
	return nil
}

func copyRaw(in []normalize.Raw) []normalize.Raw {
	out := make([]normalize.Raw, len(in))
	for i, r := range in {
		m := make(normalize.Raw, len(r))
		for k, v := range r {
			m[k] = v
		}
		out[i] = m
	}
	return out
}
