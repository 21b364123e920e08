package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/olxgpu"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ olxgpu.RunService = (*RunService)(nil)

const runColumns = "id, base_url, page_limit, pages_visited, listings, skipped, failures, error, started_at, finished_at"

// RunService implements olxgpu.RunService using SQLite.
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
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, base_url, page_limit, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.BaseURL, run.PageLimit, formatRFC3339(run.StartedAt))

	return err
}

// FinishRun stores the outcome of a run.
func (s *RunService) FinishRun(ctx context.Context, id string, upd olxgpu.RunUpdate) (*olxgpu.Run, error) {
	run, err := s.FindRunByID(ctx, id)
	if err != nil {
		return nil, err
	}

	run.PagesVisited = upd.PagesVisited
	run.Listings = upd.Listings
	run.Skipped = upd.Skipped
	run.Failures = upd.Failures
	run.Error = upd.Error
	run.FinishedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE runs
		SET pages_visited = ?, listings = ?, skipped = ?, failures = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, run.PagesVisited, run.Listings, run.Skipped, run.Failures, run.Error,
		formatRFC3339(run.FinishedAt), id)
	if err != nil {
		return nil, err
	}

	return run, nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*olxgpu.Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter olxgpu.RunFilter) ([]*olxgpu.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
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
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*olxgpu.Run, error) {
	var run olxgpu.Run
	var startedAt, finishedAt string

	if err := sc.Scan(&run.ID, &run.BaseURL, &run.PageLimit, &run.PagesVisited, &run.Listings,
		&run.Skipped, &run.Failures, &run.Error, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
