// Package pgtest has helpers for tests that run with or without a real database.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NoTx runs fn directly; in-memory repositories have nothing to roll back.
type NoTx struct{}

func (NoTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// Pool connects to POSTGRES_TEST_DSN and applies migrations, or skips the test.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	if err := postgres.Migrate(dsn); err != nil {
		pool.Close()
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
