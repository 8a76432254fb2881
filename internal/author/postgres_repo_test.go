package author

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_SaveAndQuery(t *testing.T) {
	db, _ := testutil.PostgresDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	machado := &Author{Name: "Machado de Assis", BirthYear: intPtr(1839), DeathYear: intPtr(1908)}
	require.NoError(t, repo.Save(ctx, machado))
	assert.NotZero(t, machado.ID)

	t.Run("save resolves existing name", func(t *testing.T) {
		again := &Author{Name: "Machado de Assis"}
		require.NoError(t, repo.Save(ctx, again))
		assert.Equal(t, machado.ID, again.ID)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	require.NoError(t, repo.Save(ctx, &Author{Name: "Anonymous"}))
	require.NoError(t, repo.Save(ctx, &Author{Name: "Living Author", BirthYear: intPtr(1960)}))
	require.NoError(t, repo.Save(ctx, &Author{Name: "Died Unknown Birth", DeathYear: intPtr(1900)}))

	t.Run("list ordered by name", func(t *testing.T) {
		authors, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, authors, 4)
		assert.Equal(t, "Anonymous", authors[0].Name)
		assert.Equal(t, "Died Unknown Birth", authors[1].Name)
		assert.Equal(t, "Living Author", authors[2].Name)
		assert.Equal(t, "Machado de Assis", authors[3].Name)
	})

	t.Run("alive in year", func(t *testing.T) {
		authors, err := repo.ListAliveInYear(ctx, 1850)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, "Machado de Assis", authors[0].Name)

		for _, year := range []int{1839, 1908} {
			authors, err = repo.ListAliveInYear(ctx, year)
			require.NoError(t, err)
			require.Len(t, authors, 1, "year %d", year)
		}

		authors, err = repo.ListAliveInYear(ctx, 1920)
		require.NoError(t, err)
		assert.Empty(t, authors)

		authors, err = repo.ListAliveInYear(ctx, 1900)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, "Machado de Assis", authors[0].Name)

		authors, err = repo.ListAliveInYear(ctx, 2000)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, "Living Author", authors[0].Name)
	})

	t.Run("get by id and name", func(t *testing.T) {
		got, err := repo.GetByID(ctx, machado.ID)
		require.NoError(t, err)
		assert.Equal(t, "Machado de Assis", got.Name)

		got, err = repo.GetByName(ctx, "Machado de Assis")
		require.NoError(t, err)
		assert.Equal(t, machado.ID, got.ID)

		_, err = repo.GetByID(ctx, machado.ID+1000)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
