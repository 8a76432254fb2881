package ingest

import (
	"errors"
	"time"

	"bookcatalog/internal/book"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the source has no match for a title.
var ErrNotFound = errors.New("no book found")

const (
	RunRunning   = "RUNNING"
	RunCompleted = "COMPLETED"
	RunFailed    = "FAILED"
)

// Result is the outcome of an import. Created is false when the book was
// already catalogued.
type Result struct {
	Book    book.Book
	Created bool
}

// Run is one entry of the import audit log.
type Run struct {
	ID         uuid.UUID
	Title      string
	Status     string
	BookID     *int64
	Created    bool
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}
