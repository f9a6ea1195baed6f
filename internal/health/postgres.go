package health

import (
	"context"
	"database/sql"
)

// PostgresChecker implements health checking for the payment journal database.
type PostgresChecker struct {
	db *sql.DB
}

// NewPostgresChecker creates a new Postgres health checker.
func NewPostgresChecker(db *sql.DB) *PostgresChecker {
	return &PostgresChecker{
		db: db,
	}
}

// HealthCheck pings the database.
func (p *PostgresChecker) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
