package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/crawl"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Compile-time interface verification.
var _ olxgpu.ListingService = (*ListingService)(nil)

// ListingService implements olxgpu.ListingService using PostgreSQL.
type ListingService struct {
	db *DB
}

// NewListingService creates a new ListingService.
func NewListingService(db *DB) *ListingService {
	return &ListingService{db: db}
}

// CreateListings stores listings for a run in one transaction.
func (s *ListingService) CreateListings(ctx context.Context, runID string, listings []olxgpu.Listing) error {
	for i := range listings {
		if err := listings[i].Validate(); err != nil {
			return err
		}
	}
	if _, err := uuid.Parse(runID); err != nil {
		return olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	}

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var next int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE((SELECT MAX(position) + 1 FROM listings WHERE run_id = r.id), 0)
		FROM runs r WHERE r.id = $1 FOR UPDATE
	`, runID).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	} else if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, l := range listings {
		batch.Queue(`
			INSERT INTO listings (run_id, position, model, price, state, raw_title, url, fingerprint)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, runID, next+i, l.Model, l.Price, string(l.Condition), l.RawTitle, l.URL, crawl.Fingerprint(l))
	}

	results := tx.SendBatch(ctx, batch)
	for i := range listings {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert listing %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindListings retrieves listings matching the filter in crawl order.
func (s *ListingService) FindListings(ctx context.Context, filter olxgpu.ListingFilter) ([]olxgpu.Listing, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT model, price, state, raw_title, url FROM listings WHERE TRUE")

	if filter.RunID != nil {
		if _, err := uuid.Parse(*filter.RunID); err != nil {
			return nil, nil
		}
		args = append(args, *filter.RunID)
		fmt.Fprintf(&query, " AND run_id = $%d", len(args))
	}
	if filter.Model != nil {
		args = append(args, *filter.Model)
		fmt.Fprintf(&query, " AND model = $%d", len(args))
	}
	if filter.Condition != nil {
		args = append(args, string(*filter.Condition))
		fmt.Fprintf(&query, " AND state = $%d", len(args))
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []olxgpu.Listing
	for rows.Next() {
		var l olxgpu.Listing
		var state string
		if err := rows.Scan(&l.Model, &l.Price, &state, &l.RawTitle, &l.URL); err != nil {
			return nil, err
		}
		l.Condition = olxgpu.ConditionFromString(state)
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// CountDuplicates returns how many listings of a run repeat the fingerprint
// of an earlier listing of the same run.
func (s *ListingService) CountDuplicates(ctx context.Context, runID string) (int, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return 0, nil
	}
	var n int
	err := s.db.pool.QueryRow(ctx, `
		SELECT COUNT(*) - COUNT(DISTINCT fingerprint) FROM listings WHERE run_id = $1
	`, runID).Scan(&n)
	return n, err
}
