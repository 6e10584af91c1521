package ai

import (
	"context"

	"github.com/resourceboard/backend/internal/models"
)

// SchedulePayload is the opaque-to-us JSON handed to the summarizer: just
// enough of each entity to reason about allocation, nothing presentational.
type SchedulePayload struct {
	Developers []DeveloperSummary `json:"developers"`
	Tickets    []TicketSummary    `json:"tickets"`
	Blocks     []BlockSummary     `json:"blocks"`
}

type DeveloperSummary struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type TicketSummary struct {
	Key      string `json:"key"`
	Assignee string `json:"assignee"`
	Status   string `json:"status"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type BlockSummary struct {
	Developer string `json:"developer"`
	Type      string `json:"type"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// Summarizer turns a schedule payload into free-form prose. Failures are
// recovered by the caller with FallbackSummary; they never propagate to the
// board.
type Summarizer interface {
	AnalyzeSchedule(ctx context.Context, payload SchedulePayload) (string, error)
}

const FallbackSummary = "Failed to analyze schedule. Please try again later."

func BuildPayload(devs []models.Developer, tickets []models.Ticket, blocks []models.AvailabilityBlock) SchedulePayload {
	p := SchedulePayload{
		Developers: make([]DeveloperSummary, 0, len(devs)),
		Tickets:    make([]TicketSummary, 0, len(tickets)),
		Blocks:     make([]BlockSummary, 0, len(blocks)),
	}
	for _, d := range devs {
		p.Developers = append(p.Developers, DeveloperSummary{Name: d.Name, Role: d.Role})
	}
	for _, t := range tickets {
		p.Tickets = append(p.Tickets, TicketSummary{
			Key:      t.Key,
			Assignee: t.AssigneeID,
			Status:   string(t.Status),
			Start:    t.StartDate,
			End:      t.EndDate,
		})
	}
	for _, b := range blocks {
		p.Blocks = append(p.Blocks, BlockSummary{
			Developer: b.DeveloperID,
			Type:      string(b.Type),
			Start:     b.StartDate,
			End:       b.EndDate,
		})
	}
	return p
}
