package olxgpu

import (
	"context"
	"time"
)

// Run is the persisted record of one scrape.
type Run struct {
	ID           string    `json:"id"`
	BaseURL      string    `json:"baseUrl"`
	PageLimit    int       `json:"pageLimit"`
	PagesVisited int       `json:"pagesVisited"`
	Listings     int       `json:"listings"`
	Skipped      int       `json:"skipped"`
	Failures     int       `json:"failures"`
	Error        string    `json:"error"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.BaseURL == "" {
		return Errorf(EINVALID, "run base URL required")
	}
	if r.PageLimit < 1 {
		return Errorf(EINVALID, "run page limit must be at least 1")
	}
	return nil
}

// RunService represents a service for managing scrape runs.
type RunService interface {
	// CreateRun records the start of a run and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the outcome of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, id string, upd RunUpdate) (*Run, error)

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// DeleteRun permanently removes a run and its listings.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunUpdate represents the outcome fields set when a run finishes.
type RunUpdate struct {
	PagesVisited int    `json:"pagesVisited"`
	Listings     int    `json:"listings"`
	Skipped      int    `json:"skipped"`
	Failures     int    `json:"failures"`
	Error        string `json:"error"`
}
