package book

import (
	"context"
	"errors"
	"strings"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// ListByLanguage matches the language code case-insensitively.
func (s *Service) ListByLanguage(ctx context.Context, code string) ([]Book, error) {
	return s.repo.ListByLanguage(ctx, strings.ToLower(code))
}

// GetByID reports found=false when no book has the id.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, bool, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Book{}, false, nil
		}
		return Book{}, false, err
	}
	return b, true, nil
}

// Delete removes the book and its author links. Authors are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
