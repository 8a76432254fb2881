package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	ListByLanguage(ctx context.Context, language string) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	GetByTitle(ctx context.Context, title string) (Book, error)
	// Create inserts b and links it to b.Authors, which must already be
	// persisted. It returns ErrTitleExists when the title is taken.
	Create(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
