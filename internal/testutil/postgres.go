package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"bookcatalog/internal/platform/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresDB connects to TEST_DB_DSN, applies the migrations and empties
// every table. The test is skipped when the variable is unset or the
// database is unreachable, unless TEST_DB_REQUIRED=1, in which case it
// fails instead.
func PostgresDB(t *testing.T) (*postgres.DB, *pgxpool.Pool) {
	t.Helper()
	skip := t.Skipf
	if os.Getenv("TEST_DB_REQUIRED") == "1" {
		skip = t.Fatalf
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		skip("Skipping integration test: TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, dsn)
	if err != nil {
		skip("Skipping integration test: cannot connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	sqlDB := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = sqlDB.Close() })

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.Up(sqlDB, MigrationsDir(t)); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	truncate := func() {
		_, err := pool.Exec(ctx, `TRUNCATE import_runs, book_authors, books, authors RESTART IDENTITY CASCADE`)
		if err != nil {
			t.Fatalf("truncate tables: %v", err)
		}
	}
	truncate()
	t.Cleanup(truncate)

	return postgres.New(pool), pool
}

// MigrationsDir returns the absolute path of db/migrations.
func MigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file lives in internal/testutil/, so repo root is ../..
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")
}
