package author

import (
	"context"
	"errors"
)

// Service provides read access to authors.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}

// ListByYear returns the authors alive in year.
func (s *Service) ListByYear(ctx context.Context, year int) ([]Author, error) {
	return s.repo.ListAliveInYear(ctx, year)
}

// GetByID reports found=false when no author has the id.
func (s *Service) GetByID(ctx context.Context, id int64) (Author, bool, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Author{}, false, nil
		}
		return Author{}, false, err
	}
	return a, true, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
