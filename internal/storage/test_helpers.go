package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fraud-desk/internal/config"
)

// testContext creates a context with timeout for tests
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func testEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testPostgres connects to the local development database with a fresh schema,
// skipping the test when it is unreachable or the run is -short
func testPostgres(t *testing.T) *PostgresDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := &config.PostgresConfig{
		Host:           testEnv("POSTGRES_HOST", "localhost"),
		Port:           testEnv("POSTGRES_PORT", "5432"),
		Database:       testEnv("POSTGRES_DB", "fraud_desk"),
		User:           testEnv("POSTGRES_USER", "fraud_desk"),
		Password:       testEnv("POSTGRES_PASSWORD", "fraud_desk_dev_password"),
		MaxConnections: 5,
	}

	ctx := testContext(t)
	db, err := NewPostgresDB(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping test - Postgres not available: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if _, err := db.Pool().Exec(ctx, `TRUNCATE fraud_reports, investigations RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate error = %v", err)
	}
	return db
}
