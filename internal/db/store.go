package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resourceboard/backend/internal/models"
	"github.com/resourceboard/backend/internal/normalize"
)

// Source supplies the three raw record collections and accepts the two
// write-back operations. Implemented by the Postgres store and by the
// in-memory fixture used when no database is configured.
type Source interface {
	FetchDevelopers(ctx context.Context) ([]normalize.Raw, error)
	FetchTickets(ctx context.Context, limit int) ([]normalize.Raw, error)
	FetchBlocks(ctx context.Context) ([]normalize.Raw, error)
	InsertAvailability(ctx context.Context, block models.AvailabilityBlock) error
	MoveTicket(ctx context.Context, key, assigneeID, date string) error
	Ping(ctx context.Context) error
}

// ErrMissingSchema marks the condition where required tables have not been
// created yet; callers surface the setup script instead of a generic error.
var ErrMissingSchema = errors.New("required tables missing")

// SetupSQL creates the tables the board reads from, mirroring the tracker
// sync schema.
const SetupSQL = `create table if not exists developers ( id uuid default gen_random_uuid() primary key, jira_account_id text, display_name text, email text, role text, capacity int );
create table if not exists jira_tickets ( key text primary key, summary text, status text, assignee_jira_id text, assignee text, assignee_id uuid references developers(id), updated_at timestamptz, start_date date, end_date date, priority text );
create table if not exists manual_availability ( id uuid default gen_random_uuid() primary key, developer_id uuid references developers(id), start_time timestamptz, end_time timestamptz, reason text );`

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) FetchDevelopers(ctx context.Context) ([]normalize.Raw, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, jira_account_id, display_name, email, role, capacity FROM developers`)
	if err != nil {
		return nil, wrapSchemaErr(err)
	}
	return collectRaw(rows)
}

func (s *Store) FetchTickets(ctx context.Context, limit int) ([]normalize.Raw, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	rows, err := s.Pool.Query(ctx, `SELECT key, summary, status, assignee_jira_id, assignee, assignee_id, updated_at, start_date, end_date, priority FROM jira_tickets LIMIT $1`, limit)
	if err != nil {
		return nil, wrapSchemaErr(err)
	}
	return collectRaw(rows)
}

func (s *Store) FetchBlocks(ctx context.Context) ([]normalize.Raw, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, developer_id, start_time, end_time, reason FROM manual_availability`)
	if err != nil {
		return nil, wrapSchemaErr(err)
	}
	return collectRaw(rows)
}

func (s *Store) InsertAvailability(ctx context.Context, block models.AvailabilityBlock) error {
	reason := block.Notes
	if reason == "" {
		reason = string(block.Type)
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO manual_availability (developer_id, reason, start_time, end_time)
		VALUES ($1, $2, $3, $4)
	`, block.DeveloperID, reason, block.StartDate, block.EndDate)
	return wrapSchemaErr(err)
}

// MoveTicket writes the canonical developer id into assignee_id and clears
// the tracker-synced assignee columns, which take precedence in the
// resolution chain; otherwise the next fetch would resolve the ticket back
// to its pre-move assignee.
func (s *Store) MoveTicket(ctx context.Context, key, assigneeID, date string) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE jira_tickets
		SET assignee_id = $1, assignee_jira_id = NULL, assignee = NULL,
		    start_date = $2, end_date = $2, updated_at = NOW()
		WHERE key = $3
	`, assigneeID, date, key)
	return wrapSchemaErr(err)
}

// collectRaw turns a result set into generic field maps so the normalizer
// sees the same shape regardless of which source schema produced the rows.
func collectRaw(rows pgx.Rows) ([]normalize.Raw, error) {
	defer rows.Close()
	fields := rows.FieldDescriptions()
	var out []normalize.Raw
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		raw := make(normalize.Raw, len(fields))
		for i, f := range fields {
			raw[string(f.Name)] = values[i]
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}

func wrapSchemaErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return ErrMissingSchema
	}
	if strings.Contains(err.Error(), "does not exist") {
		return ErrMissingSchema
	}
	return err
}
