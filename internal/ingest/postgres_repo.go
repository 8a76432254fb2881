package ingest

import (
	"context"

	"bookcatalog/internal/platform/postgres"
)

type PostgresRepo struct {
	db *postgres.DB
}

func NewPostgresRepo(db *postgres.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const sql = `
		INSERT INTO import_runs (id, title, status, started_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Conn(ctx).Exec(ctx, sql, run.ID, run.Title, run.Status, run.StartedAt)
	return err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE import_runs SET
			finished_at = $1,
			status = $2,
			book_id = $3,
			created = $4,
			error = $5
		WHERE id = $6`

	_, err := r.db.Conn(ctx).Exec(ctx, sql, run.FinishedAt, run.Status, run.BookID, run.Created, run.Error, run.ID)
	return err
}
