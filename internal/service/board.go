package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/resourceboard/backend/internal/db"
	"github.com/resourceboard/backend/internal/models"
	"github.com/resourceboard/backend/internal/normalize"
	"github.com/resourceboard/backend/internal/schedule"
)

// Snapshot is the canonical in-memory state for one data-load session.
// Collections are replaced wholesale on refresh; mutations swap whole
// slices under the service lock.
type Snapshot struct {
	Developers []models.Developer
	Tickets    []models.Ticket
	Blocks     []models.AvailabilityBlock
	LoadedAt   time.Time
}

// BoardService loads raw records from the source, normalizes them, and
// serves computed board views. Single-writer: all mutations go through the
// service lock.
type BoardService struct {
	Source      db.Source
	Logger      zerolog.Logger
	TicketLimit int
	Banner      *schedule.Banner
	Now         func() time.Time

	mu   sync.RWMutex
	snap Snapshot
}

func NewBoardService(source db.Source, logger zerolog.Logger, ticketLimit int, banner *schedule.Banner) *BoardService {
	return &BoardService{
		Source:      source,
		Logger:      logger,
		TicketLimit: ticketLimit,
		Banner:      banner,
		Now:         time.Now,
	}
}

// Refresh re-fetches all three collections sequentially. Developer and
// ticket failures abort the load; a blocks failure degrades to an empty set
// so the board still renders. The warning banner re-arms on every reload.
func (s *BoardService) Refresh(ctx context.Context) error {
	now := s.Now()

	rawDevs, err := s.Source.FetchDevelopers(ctx)
	if err != nil {
		return err
	}
	lookup := normalize.BuildLookup(rawDevs)
	devs := make([]models.Developer, 0, len(rawDevs))
	for _, raw := range rawDevs {
		devs = append(devs, normalize.Developer(raw))
	}

	rawTickets, err := s.Source.FetchTickets(ctx, s.TicketLimit)
	if err != nil {
		return err
	}
	tickets := make([]models.Ticket, 0, len(rawTickets))
	for _, raw := range rawTickets {
		tickets = append(tickets, normalize.Ticket(raw, lookup, now))
	}

	var blocks []models.AvailabilityBlock
	rawBlocks, err := s.Source.FetchBlocks(ctx)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("availability fetch failed, continuing without blocks")
	} else {
		blocks = make([]models.AvailabilityBlock, 0, len(rawBlocks))
		for _, raw := range rawBlocks {
			blocks = append(blocks, normalize.Block(raw, now))
		}
	}

	s.mu.Lock()
	s.snap = Snapshot{Developers: devs, Tickets: tickets, Blocks: blocks, LoadedAt: now}
	s.mu.Unlock()
	if s.Banner != nil {
		s.Banner.Reset()
	}

	s.Logger.Info().
		Int("developers", len(devs)).
		Int("tickets", len(tickets)).
		Int("blocks", len(blocks)).
		Msg("board snapshot refreshed")
	return nil
}

func (s *BoardService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// AddAvailability appends the block optimistically and writes it through on
// a best-effort basis: a remote failure is logged, never rolled back.
func (s *BoardService) AddAvailability(ctx context.Context, devID string, blockType models.AvailabilityType, start, end, notes string) models.AvailabilityBlock {
	now := s.Now()
	if end == "" {
		end = start
	}
	entropy := rand.New(rand.NewSource(now.UnixNano()))
	block := models.AvailabilityBlock{
		ID:          ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(entropy, 0)).String(),
		DeveloperID: devID,
		Type:        blockType,
		StartDate:   models.DateOnly(start),
		EndDate:     models.DateOnly(end),
		Notes:       notes,
	}

	s.mu.Lock()
	s.snap.Blocks = append(s.snap.Blocks, block)
	s.mu.Unlock()

	if err := s.Source.InsertAvailability(ctx, block); err != nil {
		s.Logger.Error().Err(err).Str("developer_id", devID).Msg("availability insert failed")
	}
	return block
}

// MoveTicket reassigns a ticket and collapses it onto the target day,
// optimistically first, then best-effort against the store.
func (s *BoardService) MoveTicket(ctx context.Context, key, devID, date string) bool {
	date = models.DateOnly(date)
	found := false

	s.mu.Lock()
	tickets := make([]models.Ticket, len(s.snap.Tickets))
	copy(tickets, s.snap.Tickets)
	for i, t := range tickets {
		if t.ID == key || t.Key == key {
			tickets[i].AssigneeID = devID
			tickets[i].StartDate = date
			tickets[i].EndDate = date
			found = true
		}
	}
	s.snap.Tickets = tickets
	s.mu.Unlock()

	if !found {
		return false
	}
	if err := s.Source.MoveTicket(ctx, key, devID, date); err != nil {
		s.Logger.Error().Err(err).Str("key", key).Msg("ticket move write failed")
	}
	return true
}
