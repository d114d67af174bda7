package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/olegsm/cinema-tickets/internal/model"
	"github.com/olegsm/cinema-tickets/internal/repository"
)

// ShowStore is the slice of the show repository the service depends on.
// DeleteByID is expected to cascade to the show's tickets.
type ShowStore interface {
	FindAll(ctx context.Context) ([]model.Show, error)
	FindByID(ctx context.Context, id uint64) (model.Show, error)
	Create(ctx context.Context, s *model.Show) error
	Update(ctx context.Context, s *model.Show) error
	DeleteByID(ctx context.Context, id uint64) error
}

// ShowService manages the show lifecycle used by the admin API and the
// browse pages.
type ShowService struct {
	shows ShowStore
}

// NewShowService constructs a ShowService.
func NewShowService(shows ShowStore) *ShowService {
	return &ShowService{shows: shows}
}

// FindAll returns all shows ordered by start time.
func (s *ShowService) FindAll(ctx context.Context) ([]model.Show, error) {
	return s.shows.FindAll(ctx)
}

// FindByID returns the show with the given id or ErrNotFound.
func (s *ShowService) FindByID(ctx context.Context, id uint64) (model.Show, error) {
	sh, err := s.shows.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Show{}, fmt.Errorf("show id %d: %w", id, ErrNotFound)
	}
	return sh, err
}

// Create stores a new show and populates its generated ID.
func (s *ShowService) Create(ctx context.Context, sh *model.Show) error {
	return s.shows.Create(ctx, sh)
}

// Update rewrites a show's mutable fields. Returns ErrNotFound when no
// such show exists.
func (s *ShowService) Update(ctx context.Context, sh *model.Show) error {
	err := s.shows.Update(ctx, sh)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("show id %d: %w", sh.ID, ErrNotFound)
	}
	return err
}

// DeleteByID removes a show together with all of its tickets (the
// repository cascades inside one transaction). Returns ErrNotFound when
// no such show exists.
func (s *ShowService) DeleteByID(ctx context.Context, id uint64) error {
	err := s.shows.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("show id %d: %w", id, ErrNotFound)
	}
	return err
}
