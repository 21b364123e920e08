package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/crawl"
)

// Compile-time interface verification.
var _ olxgpu.ListingService = (*ListingService)(nil)

// ListingService implements olxgpu.ListingService using SQLite.
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

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&exists)
	if err == sql.ErrNoRows {
		return olxgpu.Errorf(olxgpu.ENOTFOUND, "run not found")
	} else if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position) + 1, 0) FROM listings WHERE run_id = ?", runID).Scan(&next); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listings (run_id, position, model, price, state, raw_title, url, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range listings {
		if _, err := stmt.ExecContext(ctx, runID, next+i, l.Model, nullInt(l.Price), string(l.Condition),
			l.RawTitle, l.URL, crawl.Fingerprint(l)); err != nil {
			return fmt.Errorf("insert listing %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FindListings retrieves listings matching the filter in crawl order.
func (s *ListingService) FindListings(ctx context.Context, filter olxgpu.ListingFilter) ([]olxgpu.Listing, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT model, price, state, raw_title, url FROM listings WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.Model != nil {
		query.WriteString(" AND model = ?")
		args = append(args, *filter.Model)
	}
	if filter.Condition != nil {
		query.WriteString(" AND state = ?")
		args = append(args, string(*filter.Condition))
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []olxgpu.Listing
	for rows.Next() {
		var l olxgpu.Listing
		var price sql.NullInt64
		var state string
		if err := rows.Scan(&l.Model, &price, &state, &l.RawTitle, &l.URL); err != nil {
			return nil, err
		}
		l.Price = intPtr(price)
		l.Condition = olxgpu.ConditionFromString(state)
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// CountDuplicates returns how many listings of a run repeat the fingerprint
// of an earlier listing of the same run.
func (s *ListingService) CountDuplicates(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) - COUNT(DISTINCT fingerprint) FROM listings WHERE run_id = ?
	`, runID).Scan(&n)
	return n, err
}
