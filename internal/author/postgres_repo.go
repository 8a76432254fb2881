package author

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookcatalog/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
)

const selectColumns = `id, name, birth_year, death_year, created_at`

type PostgresRepo struct {
	db      *postgres.DB
	timeout time.Duration
}

func NewPostgresRepo(db *postgres.DB, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Author, error) {
	const query = `SELECT ` + selectColumns + ` FROM authors ORDER BY name ASC`
	return r.query(ctx, query)
}

func (r *PostgresRepo) ListAliveInYear(ctx context.Context, year int) ([]Author, error) {
	const query = `
		SELECT ` + selectColumns + `
		FROM authors
		WHERE birth_year <= $1
		  AND (death_year IS NULL OR death_year >= $1)
		ORDER BY name ASC`
	return r.query(ctx, query, year)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Author, error) {
	const query = `SELECT ` + selectColumns + ` FROM authors WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepo) GetByName(ctx context.Context, name string) (Author, error) {
	const query = `SELECT ` + selectColumns + ` FROM authors WHERE name = $1`
	return r.queryOne(ctx, query, name)
}

func (r *PostgresRepo) Save(ctx context.Context, a *Author) error {
	// The no-op update makes RETURNING yield the existing row on conflict.
	const sql = `
		INSERT INTO authors (name, birth_year, death_year)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.Conn(ctx).QueryRow(timeoutCtx, sql, a.Name, a.BirthYear, a.DeathYear).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("save author %q: %w", a.Name, err)
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var count int
	err := r.db.Conn(ctx).QueryRow(timeoutCtx, "SELECT COUNT(*) FROM authors").Scan(&count)
	return count, err
}

func (r *PostgresRepo) query(ctx context.Context, query string, args ...any) ([]Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Conn(ctx).Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Author{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.BirthYear, &a.DeathYear, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) queryOne(ctx context.Context, query string, arg any) (Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a Author
	err := r.db.Conn(ctx).QueryRow(timeoutCtx, query, arg).Scan(&a.ID, &a.Name, &a.BirthYear, &a.DeathYear, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, err
	}
	return a, nil
}
