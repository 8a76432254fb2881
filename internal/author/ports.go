package author

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=author

// Repository defines the contract for author data storage.
type Repository interface {
	List(ctx context.Context) ([]Author, error)
	ListAliveInYear(ctx context.Context, year int) ([]Author, error)
	GetByID(ctx context.Context, id int64) (Author, error)
	GetByName(ctx context.Context, name string) (Author, error)
	// Save inserts the author, or resolves the existing row with the same
	// name, and sets a.ID.
	Save(ctx context.Context, a *Author) error
	Count(ctx context.Context) (int, error)
}
