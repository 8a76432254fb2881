package ingest

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/gutendex"
	"bookcatalog/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_RunLifecycle(t *testing.T) {
	db, pool := testutil.PostgresDB(t)
	repo := NewPostgresRepo(db)
	ctx := context.Background()

	run := &Run{ID: uuid.New(), Title: "Emma", Status: RunRunning, StartedAt: time.Now()}
	require.NoError(t, repo.CreateRun(ctx, run))

	finished := time.Now()
	run.Status = RunFailed
	run.Error = "no book found with title: Emma"
	run.FinishedAt = &finished
	require.NoError(t, repo.UpdateRun(ctx, run))

	var (
		status  string
		errText string
		bookID  *int64
	)
	err := pool.QueryRow(ctx, `SELECT status, error, book_id FROM import_runs WHERE id = $1`, run.ID).Scan(&status, &errText, &bookID)
	require.NoError(t, err)
	assert.Equal(t, RunFailed, status)
	assert.Equal(t, run.Error, errText)
	assert.Nil(t, bookID)
}

type staticSource []gutendex.Candidate

func (s staticSource) SearchByTitle(ctx context.Context, title string) ([]gutendex.Candidate, error) {
	return s, nil
}

func TestService_Import_Postgres(t *testing.T) {
	db, _ := testutil.PostgresDB(t)
	books := book.NewPostgresRepo(db, 5*time.Second)
	authors := author.NewPostgresRepo(db, 5*time.Second)
	svc := NewService(staticSource{domCasmurro}, db, books, authors, NewPostgresRepo(db))
	ctx := context.Background()

	first, err := svc.Import(ctx, "Dom Casmurro")
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Len(t, first.Book.Authors, 2)

	second, err := svc.Import(ctx, "dom casmurro")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Book.ID, second.Book.ID)

	n, err := authors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := books.GetByID(ctx, first.Book.ID)
	require.NoError(t, err)
	assert.Equal(t, "pt", stored.Language)
	assert.Equal(t, 4120, stored.DownloadCount)
}
