// Package testutil starts throwaway PostgreSQL and Kafka containers for the
// integration-tagged tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// AuditDatabase is a disposable PostgreSQL instance for audit sink tests.
type AuditDatabase struct {
	DSN  string
	Pool *pgxpool.Pool
}

// PredictionRow is one stored row of credit_predictions.
type PredictionRow struct {
	LimitBal float64
	Age      int
	Risk     string
}

// NewAuditDatabase starts PostgreSQL with an empty credit_risk database.
// The container is terminated when t finishes.
func NewAuditDatabase(ctx context.Context, t *testing.T) *AuditDatabase {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("credit_risk"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { terminate(t, "postgres", container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	return &AuditDatabase{DSN: dsn, Pool: pool}
}

// TableExists reports whether a table is present in the public schema.
func (db *AuditDatabase) TableExists(ctx context.Context, t *testing.T, table string) bool {
	t.Helper()
	var exists bool
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
		table,
	).Scan(&exists))
	return exists
}

// Predictions returns the audit rows in insertion order.
func (db *AuditDatabase) Predictions(ctx context.Context, t *testing.T) []PredictionRow {
	t.Helper()
	rows, err := db.Pool.Query(ctx, `SELECT limit_bal, age, risk FROM credit_predictions ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var out []PredictionRow
	for rows.Next() {
		var r PredictionRow
		require.NoError(t, rows.Scan(&r.LimitBal, &r.Age, &r.Risk))
		out = append(out, r)
	}
	require.NoError(t, rows.Err())
	return out
}

func terminate(t *testing.T, name string, c testcontainers.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Terminate(ctx); err != nil {
		t.Logf("warning: failed to terminate %s container: %v", name, err)
	}
}
