package book

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/author"
	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_Lifecycle(t *testing.T) {
	db, _ := testutil.PostgresDB(t)
	authors := author.NewPostgresRepo(db, 5*time.Second)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	machado := &author.Author{Name: "Machado de Assis", BirthYear: intPtr(1839), DeathYear: intPtr(1908)}
	require.NoError(t, authors.Save(ctx, machado))

	dom := &Book{Title: "Dom Casmurro", Language: "pt", DownloadCount: 100, Authors: []author.Author{*machado, *machado}}
	require.NoError(t, repo.Create(ctx, dom))
	require.NotZero(t, dom.ID)

	bras := &Book{Title: "Memórias Póstumas de Brás Cubas", Language: "pt", Authors: []author.Author{*machado}}
	require.NoError(t, repo.Create(ctx, bras))

	t.Run("get by id loads authors once", func(t *testing.T) {
		got, err := repo.GetByID(ctx, dom.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dom Casmurro", got.Title)
		assert.Equal(t, "pt", got.Language)
		assert.Equal(t, 100, got.DownloadCount)
		require.Len(t, got.Authors, 1)
		assert.Equal(t, machado.ID, got.Authors[0].ID)
	})

	t.Run("duplicate title", func(t *testing.T) {
		err := repo.Create(ctx, &Book{Title: "Dom Casmurro", Language: "pt"})
		assert.ErrorIs(t, err, ErrTitleExists)
	})

	t.Run("list and filter", func(t *testing.T) {
		books, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, dom.ID, books[0].ID)

		books, err = repo.ListByLanguage(ctx, "pt")
		require.NoError(t, err)
		assert.Len(t, books, 2)

		books, err = repo.ListByLanguage(ctx, "en")
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("delete keeps authors", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, dom.ID))

		_, err := repo.GetByID(ctx, dom.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = authors.GetByID(ctx, machado.ID)
		assert.NoError(t, err)

		assert.ErrorIs(t, repo.Delete(ctx, dom.ID), ErrNotFound)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestPostgresRepo_CreateRollsBackWithTransaction(t *testing.T) {
	db, _ := testutil.PostgresDB(t)
	authors := author.NewPostgresRepo(db, 5*time.Second)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	err := db.InTx(ctx, func(ctx context.Context) error {
		a := &author.Author{Name: "Jane Austen"}
		if err := authors.Save(ctx, a); err != nil {
			return err
		}
		return repo.Create(ctx, &Book{Title: "Emma", Language: "en", Authors: []author.Author{*a, {Name: "Unsaved"}}})
	})
	require.Error(t, err)

	n, err := authors.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
