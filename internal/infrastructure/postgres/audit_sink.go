package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS credit_predictions (
	id         SERIAL PRIMARY KEY,
	limit_bal  DOUBLE PRECISION,
	age        INTEGER,
	risk       VARCHAR(20),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertSQL = `INSERT INTO credit_predictions (limit_bal, age, risk, created_at) VALUES ($1, $2, $3, $4)`

// Conn is the part of *pgx.Conn the audit sink uses.
type Conn interface {
	Beginner
	Close(ctx context.Context) error
}

// ConnectFunc opens a connection.
type ConnectFunc func(ctx context.Context, dsn string) (Conn, error)

// Connect opens a single pgx connection.
func Connect(ctx context.Context, dsn string) (Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// AuditSink appends audit records to the credit_predictions table. Every
// write opens its own connection and closes it before returning.
type AuditSink struct {
	dsn     string
	connect ConnectFunc
}

// NewAuditSink creates an AuditSink. A nil connect uses Connect.
func NewAuditSink(dsn string, connect ConnectFunc) *AuditSink {
	if connect == nil {
		connect = Connect
	}
	return &AuditSink{dsn: dsn, connect: connect}
}

// Name identifies the sink in logs and metrics.
func (s *AuditSink) Name() string { return "postgres" }

// Record creates the table if needed and inserts one row in a transaction.
func (s *AuditSink) Record(ctx context.Context, rec model.AuditRecord) (err error) {
	conn, err := s.connect(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("postgres: connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = fmt.Errorf("postgres: close: %w", cerr)
		}
	}()

	return WithTransaction(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createTableSQL); err != nil {
			return fmt.Errorf("postgres: create table: %w", err)
		}
		if _, err := tx.Exec(ctx, insertSQL,
			rec.CreditLimit().InexactFloat64(),
			rec.Age(),
			rec.Category().String(),
			rec.CreatedAt(),
		); err != nil {
			return fmt.Errorf("postgres: insert audit record: %w", err)
		}
		return nil
	})
}
