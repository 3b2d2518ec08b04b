package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fleet-safety-service/internal/domain"
)

// SqliteRerouteHistory is the SQLite-backed reroute log for single-node
// deployments. Same schema as the Postgres store, ? placeholders.
type SqliteRerouteHistory struct {
	DB *sql.DB
}

func NewSqliteRerouteHistory(db *sql.DB) *SqliteRerouteHistory {
	return &SqliteRerouteHistory{DB: db}
}

func (s *SqliteRerouteHistory) Append(ctx context.Context, rec domain.RerouteRecord) error {
	if s.DB == nil {
		return errors.New("reroute history: db is nil")
	}

	payload, err := json.Marshal(rec.Notification)
	if err != nil {
		return fmt.Errorf("append reroute history: marshal notification: %w", err)
	}

	q := `
	INSERT INTO reroute_history (
		id, trip_id, vehicle_id, ts, kind, reason,
		old_route_id, new_route_id, time_savings_minutes, notification
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q,
		rec.ID, rec.TripID, rec.VehicleID, rec.Timestamp, rec.Kind, rec.Reason,
		rec.OldRouteID, rec.NewRouteID, rec.TimeSavingsMinutes, string(payload),
	); err != nil {
		return fmt.Errorf("append reroute history id=%q: %w", rec.ID, err)
	}

	return nil
}

func (s *SqliteRerouteHistory) ByTrip(ctx context.Context, tripID string) ([]domain.RerouteRecord, error) {
	if s.DB == nil {
		return nil, errors.New("reroute history: db is nil")
	}

	q := `
	SELECT id, trip_id, vehicle_id, ts, kind, reason,
		old_route_id, new_route_id, time_savings_minutes, notification
	FROM reroute_history
	WHERE trip_id = ?
	ORDER BY ts;
	`

	rows, err := s.DB.QueryContext(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("reroute history by trip: query: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *SqliteRerouteHistory) Recent(ctx context.Context, limit int) ([]domain.RerouteRecord, error) {
	if s.DB == nil {
		return nil, errors.New("reroute history: db is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	q := `
	SELECT id, trip_id, vehicle_id, ts, kind, reason,
		old_route_id, new_route_id, time_savings_minutes, notification
	FROM reroute_history
	ORDER BY ts DESC
	LIMIT ?;
	`

	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("reroute history recent: query: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}
