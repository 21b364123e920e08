package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/olxgpu"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Compile-time interface verification.
var _ olxgpu.RunService = (*RunService)(nil)

const runColumns = "id::text, base_url, page_limit, pages_visited, listings, skipped, failures, error, started_at, finished_at"

// RunService implements olxgpu.RunService using PostgreSQL.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records the start of a run.
func (s *RunService) CreateRun(ctx context.Context, run *olxgpu.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC().Truncate(time.Microsecond)
	run.FinishedAt = time.Time{}

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO runs (id, base_url, page_limit, started_at)
		VALUES ($1, $2, $3, $4)
	`, run.ID, run.BaseURL, run.PageLimit, run.StartedAt)

	return err
}

// FinishRun stores the outcome of a run.
func (s *RunService) FinishRun(ctx context.Context, id string, upd olxgpu.RunUpdate) (*olxgpu.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}

	row := s.db.pool.QueryRow(ctx, `
		UPDATE runs
		SET pages_visited = $1, listings = $2, skipped = $3, failures = $4, error = $5, finished_at = $6
		WHERE id = $7
		RETURNING `+runColumns,
		upd.PagesVisited, upd.Listings, upd.Skipped, upd.Failures, upd.Error,
		time.Now().UTC().Truncate(time.Microsecond), id)

	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*olxgpu.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}

	row := s.db.pool.QueryRow(ctx, "SELECT "+runColumns+" FROM runs WHERE id = $1", id)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter olxgpu.RunFilter) ([]*olxgpu.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE TRUE")

	if filter.ID != nil {
		if _, err := uuid.Parse(*filter.ID); err != nil {
			return nil, nil
		}
		args = append(args, *filter.ID)
		fmt.Fprintf(&query, " AND id = $%d", len(args))
	}

	query.WriteString(" ORDER BY started_at DESC, id DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*olxgpu.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// DeleteRun permanently removes a run and its listings.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}

	tag, err := s.db.pool.Exec(ctx, "DELETE FROM runs WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}
	return nil
}

func scanRun(row pgx.Row) (*olxgpu.Run, error) {
	var run olxgpu.Run
	var finishedAt *time.Time

	if err := row.Scan(&run.ID, &run.BaseURL, &run.PageLimit, &run.PagesVisited, &run.Listings,
		&run.Skipped, &run.Failures, &run.Error, &run.StartedAt, &finishedAt); err != nil {
		return nil, err
	}

	run.StartedAt = run.StartedAt.UTC()
	if finishedAt != nil {
		run.FinishedAt = finishedAt.UTC()
	}
	return &run, nil
}

// appendPagination appends LIMIT and OFFSET clauses if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		*args = append(*args, limit)
		fmt.Fprintf(query, " LIMIT $%d", len(*args))
	}
	if offset > 0 {
		*args = append(*args, offset)
		fmt.Fprintf(query, " OFFSET $%d", len(*args))
	}
}
