package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/platform/obs"
)

// SQLRerouteHistory is a Postgres-backed append-only reroute log. The
// notification payload is stored as JSON alongside the indexed columns.
type SQLRerouteHistory struct {
	DB *sql.DB
}

func NewSQLRerouteHistory(db *sql.DB) *SQLRerouteHistory {
	return &SQLRerouteHistory{DB: db}
}

func (s *SQLRerouteHistory) Append(ctx context.Context, rec domain.RerouteRecord) (err error) {
	defer obs.Time(ctx, "reroute.history.Append")(&err)

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
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	if _, err := s.DB.ExecContext(ctx, q,
		rec.ID, rec.TripID, rec.VehicleID, rec.Timestamp, rec.Kind, rec.Reason,
		rec.OldRouteID, rec.NewRouteID, rec.TimeSavingsMinutes, string(payload),
	); err != nil {
		return fmt.Errorf("append reroute history id=%q: %w", rec.ID, err)
	}

	return nil
}

func (s *SQLRerouteHistory) ByTrip(ctx context.Context, tripID string) (_ []domain.RerouteRecord, err error) {
	defer obs.Time(ctx, "reroute.history.ByTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("reroute history: db is nil")
	}

	q := `
	SELECT id, trip_id, vehicle_id, ts, kind, reason,
		old_route_id, new_route_id, time_savings_minutes, notification
	FROM reroute_history
	WHERE trip_id = $1
	ORDER BY ts;
	`

	rows, err := s.DB.QueryContext(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("reroute history by trip: query: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *SQLRerouteHistory) Recent(ctx context.Context, limit int) (_ []domain.RerouteRecord, err error) {
	defer obs.Time(ctx, "reroute.history.Recent")(&err)

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
	LIMIT $1;
	`

	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("reroute history recent: query: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]domain.RerouteRecord, error) {
	var out []domain.RerouteRecord
	for rows.Next() {
		var rec domain.RerouteRecord
		var payload string
		if err := rows.Scan(
			&rec.ID, &rec.TripID, &rec.VehicleID, &rec.Timestamp, &rec.Kind, &rec.Reason,
			&rec.OldRouteID, &rec.NewRouteID, &rec.TimeSavingsMinutes, &payload,
		); err != nil {
			return nil, fmt.Errorf("reroute history: scan rows: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Notification); err != nil {
			return nil, fmt.Errorf("reroute history: unmarshal notification id=%q: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reroute history: row iteration: %w", err)
	}
	return out, nil
}
