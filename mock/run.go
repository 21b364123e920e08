package mock

import (
	"context"

	"github.com/fwojciec/olxgpu"
)

var (
	_ olxgpu.RunService     = (*RunService)(nil)
	_ olxgpu.ListingService = (*ListingService)(nil)
)

// RunService is a mock implementation of olxgpu.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *olxgpu.Run) error
	FinishRunFn   func(ctx context.Context, id string, upd olxgpu.RunUpdate) (*olxgpu.Run, error)
	FindRunByIDFn func(ctx context.Context, id string) (*olxgpu.Run, error)
	FindRunsFn    func(ctx context.Context, filter olxgpu.RunFilter) ([]*olxgpu.Run, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *olxgpu.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, id string, upd olxgpu.RunUpdate) (*olxgpu.Run, error) {
	return s.FinishRunFn(ctx, id, upd)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*olxgpu.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter olxgpu.RunFilter) ([]*olxgpu.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}

// ListingService is a mock implementation of olxgpu.ListingService.
type ListingService struct {
	CreateListingsFn  func(ctx context.Context, runID string, listings []olxgpu.Listing) error
	FindListingsFn    func(ctx context.Context, filter olxgpu.ListingFilter) ([]olxgpu.Listing, error)
	CountDuplicatesFn func(ctx context.Context, runID string) (int, error)
}

func (s *ListingService) CreateListings(ctx context.Context, runID string, listings []olxgpu.Listing) error {
	return s.CreateListingsFn(ctx, runID, listings)
}

func (s *ListingService) FindListings(ctx context.Context, filter olxgpu.ListingFilter) ([]olxgpu.Listing, error) {
	return s.FindListingsFn(ctx, filter)
}

func (s *ListingService) CountDuplicates(ctx context.Context, runID string) (int, error) {
	return s.CountDuplicatesFn(ctx, runID)
}
