package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/resourceboard/backend/internal/service"
)

// Refresher re-fetches the board snapshot on a schedule. The default spec is
// every minute, which also keeps the now-marker feed fresh for clients that
// poll the board.
type Refresher struct {
	board *service.BoardService
	log   zerolog.Logger
	c     *cron.Cron
}

func NewRefresher(board *service.BoardService, spec string, log zerolog.Logger) (*Refresher, error) {
	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
	r := &Refresher{board: board, log: log, c: c}
	if _, err := c.AddFunc(spec, r.refresh); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Refresher) Start() { r.c.Start() }
func (r *Refresher) Stop()  { r.c.Stop() }

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := r.board.Refresh(ctx); err != nil {
		r.log.Error().Err(err).Msg("scheduled refresh failed")
	}
}
