package postgres

import (
	"context"
	"database/sql"

	"github.com/gocomet/ride-ledger/pkg/database"
)

// schemaStatements create the ledger schema. Every statement is safe to re-run.
// support_tickets is created before rides so rides.support_id can reference it;
// the reverse reference is added afterwards behind a catalog check.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS passengers (
		passenger_id BIGSERIAL PRIMARY KEY,
		full_name    TEXT NOT NULL,
		phone        TEXT NOT NULL UNIQUE,
		email        TEXT UNIQUE,
		rating       DOUBLE PRECISION NOT NULL DEFAULT 5.0 CHECK (rating >= 0 AND rating <= 5)
	)`,
	`CREATE TABLE IF NOT EXISTS drivers (
		driver_id  BIGSERIAL PRIMARY KEY,
		full_name  TEXT NOT NULL,
		phone      TEXT NOT NULL UNIQUE,
		email      TEXT UNIQUE,
		rating     DOUBLE PRECISION NOT NULL DEFAULT 5.0 CHECK (rating >= 0 AND rating <= 5),
		balance    DOUBLE PRECISION NOT NULL DEFAULT 0,
		status     TEXT NOT NULL DEFAULT 'waiting' CHECK (status IN ('working', 'waiting', 'pending')),
		car_model  TEXT,
		car_number TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS support_tickets (
		support_id   BIGSERIAL PRIMARY KEY,
		passenger_id BIGINT REFERENCES passengers (passenger_id) ON DELETE CASCADE,
		driver_id    BIGINT REFERENCES drivers (driver_id) ON DELETE CASCADE,
		ride_id      BIGINT,
		category     TEXT NOT NULL CHECK (category IN ('complaint', 'question', 'suggestion', 'technical', 'payment', 'other')),
		description  TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'in_progress', 'closed')),
		priority     TEXT NOT NULL DEFAULT 'normal' CHECK (priority IN ('low', 'normal', 'high')),
		full_name    TEXT,
		phone        TEXT,
		email        TEXT,
		balance      DOUBLE PRECISION,
		response     TEXT,
		created_at   TIMESTAMP NOT NULL DEFAULT LOCALTIMESTAMP(0),
		resolved_at  TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS rides (
		ride_id      BIGSERIAL PRIMARY KEY,
		passenger_id BIGINT NOT NULL REFERENCES passengers (passenger_id) ON DELETE CASCADE,
		driver_id    BIGINT NOT NULL REFERENCES drivers (driver_id) ON DELETE CASCADE,
		support_id   BIGINT REFERENCES support_tickets (support_id) ON DELETE SET NULL,
		start_point  TEXT NOT NULL,
		end_point    TEXT NOT NULL,
		price        DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		created_at   TIMESTAMP NOT NULL DEFAULT LOCALTIMESTAMP(0),
		completed_at TIMESTAMP,
		status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'in_progress', 'active', 'completed', 'cancelled'))
	)`,
	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM pg_constraint WHERE conname = 'support_tickets_ride_id_fkey'
		) THEN
			ALTER TABLE support_tickets
				ADD CONSTRAINT support_tickets_ride_id_fkey
				FOREIGN KEY (ride_id) REFERENCES rides (ride_id) ON DELETE SET NULL;
		END IF;
	END
	$$`,
	`CREATE INDEX IF NOT EXISTS idx_rides_passenger_id ON rides (passenger_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_driver_id ON rides (driver_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_status ON rides (status)`,
	`CREATE INDEX IF NOT EXISTS idx_support_tickets_status ON support_tickets (status)`,
}

// Tables lists the ledger tables in dependency order
var Tables = []string{"passengers", "drivers", "support_tickets", "rides"}

// EnsureSchema creates the ledger tables, constraints and indexes if they are missing
func EnsureSchema(ctx context.Context, db *sql.DB) (err error) {
	const op = "schema.ensure"

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return database.Translate(op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schemaStatements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return database.Translate(op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return database.Translate(op, err)
	}
	return nil
}

// Truncate empties every ledger table and resets identities. Used by tests and seeding.
func Truncate(ctx context.Context, db *sql.DB) error {
	const op = "schema.truncate"
	_, err := db.ExecContext(ctx, `TRUNCATE rides, support_tickets, drivers, passengers RESTART IDENTITY CASCADE`)
	return database.Translate(op, err)
}
