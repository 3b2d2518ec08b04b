package stores

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRerouteHistoryQuery := `
	CREATE TABLE IF NOT EXISTS reroute_history (
        id TEXT PRIMARY KEY,
        trip_id TEXT NOT NULL,
        vehicle_id TEXT NOT NULL,
        ts TIMESTAMP NOT NULL,
        kind TEXT NOT NULL,
        reason TEXT NOT NULL,
        old_route_id TEXT NOT NULL,
        new_route_id TEXT NOT NULL,
        time_savings_minutes REAL NOT NULL,
        notification TEXT NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_reroute_history_trip_ts
    ON reroute_history(trip_id, ts);
	`

	statements := []string{
		createRerouteHistoryQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
