package ingest

import (
	"context"

	"bookcatalog/internal/platform/gutendex"
)

// Source looks up books by title in an external catalogue.
type Source interface {
	SearchByTitle(ctx context.Context, title string) ([]gutendex.Candidate, error)
}

// Transactor runs fn so that every store call made with the ctx it receives
// commits or rolls back together.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type RunRepository interface {
	CreateRun(ctx context.Context, run *Run) error
	UpdateRun(ctx context.Context, run *Run) error
}
