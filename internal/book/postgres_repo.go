package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookcatalog/internal/author"
	"bookcatalog/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
)

const selectColumns = `id, title, language, download_count, created_at`

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

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	const query = `SELECT ` + selectColumns + ` FROM books ORDER BY id ASC`
	return r.query(ctx, query)
}

func (r *PostgresRepo) ListByLanguage(ctx context.Context, language string) ([]Book, error) {
	const query = `SELECT ` + selectColumns + ` FROM books WHERE language = $1 ORDER BY id ASC`
	return r.query(ctx, query, language)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `SELECT ` + selectColumns + ` FROM books WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepo) GetByTitle(ctx context.Context, title string) (Book, error) {
	const query = `SELECT ` + selectColumns + ` FROM books WHERE title = $1`
	return r.queryOne(ctx, query, title)
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const insertBook = `
		INSERT INTO books (title, language, download_count)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	const linkAuthor = `
		INSERT INTO book_authors (book_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	conn := r.db.Conn(ctx)
	err := conn.QueryRow(timeoutCtx, insertBook, b.Title, b.Language, b.DownloadCount).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrTitleExists
		}
		return fmt.Errorf("insert book %q: %w", b.Title, err)
	}

	for _, a := range b.Authors {
		if a.ID == 0 {
			return fmt.Errorf("link author %q: author not persisted", a.Name)
		}
		if _, err := conn.Exec(timeoutCtx, linkAuthor, b.ID, a.ID); err != nil {
			return fmt.Errorf("link author %d to book %d: %w", a.ID, b.ID, err)
		}
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Conn(ctx).Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var count int
	err := r.db.Conn(ctx).QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&count)
	return count, err
}

func (r *PostgresRepo) query(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Conn(ctx).Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	books := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Language, &b.DownloadCount, &b.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		books = append(books, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachAuthors(timeoutCtx, r.db.Conn(ctx), books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *PostgresRepo) queryOne(ctx context.Context, query string, arg any) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	conn := r.db.Conn(ctx)
	var b Book
	err := conn.QueryRow(timeoutCtx, query, arg).Scan(&b.ID, &b.Title, &b.Language, &b.DownloadCount, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}

	books := []Book{b}
	if err := r.attachAuthors(timeoutCtx, conn, books); err != nil {
		return Book{}, err
	}
	return books[0], nil
}

// attachAuthors loads the authors of every book in one query.
func (r *PostgresRepo) attachAuthors(ctx context.Context, conn postgres.Querier, books []Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]int64, len(books))
	index := make(map[int64]int, len(books))
	for i := range books {
		ids[i] = books[i].ID
		index[books[i].ID] = i
		books[i].Authors = []author.Author{}
	}

	const query = `
		SELECT ba.book_id, a.id, a.name, a.birth_year, a.death_year, a.created_at
		FROM book_authors ba
		JOIN authors a ON a.id = ba.author_id
		WHERE ba.book_id = ANY($1)
		ORDER BY a.name ASC`

	rows, err := conn.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load book authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID int64
			a      author.Author
		)
		if err := rows.Scan(&bookID, &a.ID, &a.Name, &a.BirthYear, &a.DeathYear, &a.CreatedAt); err != nil {
			return err
		}
		i := index[bookID]
		books[i].Authors = append(books[i].Authors, a)
	}
	return rows.Err()
}
