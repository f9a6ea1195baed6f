package payment

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/onnwee/walletpay/internal/tracing"
)

// journalSchema creates the journal table. The table carries only the fields the
// orchestrator writes; the merchant system of record lives behind the backend RPCs.
const journalSchema = `
CREATE TABLE IF NOT EXISTS payment_journal (
	id            BIGSERIAL PRIMARY KEY,
	order_id      TEXT NOT NULL,
	payment_id    TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	amount        NUMERIC NOT NULL,
	txid          TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	recorded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresJournal implements Journal backed by a Postgres table.
type PostgresJournal struct {
	db *sql.DB
}

// NewPostgresJournal opens a journal against the given database URL and ensures
// the journal table exists.
func NewPostgresJournal(ctx context.Context, databaseURL string) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, journalSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}
	return &PostgresJournal{db: db}, nil
}

// RecordTerminal inserts one journal row for the intent's terminal state.
func (j *PostgresJournal) RecordTerminal(ctx context.Context, intent *Intent) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "payment_journal", "insert")
	defer func() { endSpan(err) }()

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO payment_journal (order_id, payment_id, status, amount, txid, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		intent.OrderID, intent.PaymentID, string(intent.Status), intent.Amount, intent.TxID, intent.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to insert journal row: %w", err)
	}
	return nil
}

// CountByOrderID returns how many journal rows exist for an order ID.
func (j *PostgresJournal) CountByOrderID(ctx context.Context, orderID string) (int, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		`SELECT count(*) FROM payment_journal WHERE order_id = $1`, orderID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count journal rows: %w", err)
	}
	return count, nil
}

// Close releases the underlying database handle.
func (j *PostgresJournal) Close() error {
	return j.db.Close()
}
