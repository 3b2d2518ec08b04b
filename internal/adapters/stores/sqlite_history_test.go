package stores

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"fleet-safety-service/internal/domain"
)

func newSqliteHistory(t *testing.T) *SqliteRerouteHistory {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	require.NoError(t, InitSchema(db))
	return NewSqliteRerouteHistory(db)
}

func historyRecord(id, tripID string, ts time.Time) domain.RerouteRecord {
	return domain.RerouteRecord{
		ID:                 id,
		TripID:             tripID,
		VehicleID:          "v1",
		Timestamp:          ts,
		Kind:               "monitor",
		Reason:             "delay of 40 minutes exceeds threshold",
		OldRouteID:         "orig",
		NewRouteID:         "alt",
		TimeSavingsMinutes: 20,
		Notification: domain.Notification{
			TripID:    tripID,
			VehicleID: "v1",
			DriverID:  "d1",
			Type:      "reroute",
			Priority:  "normal",
			Message:   "Route updated",
			SentAt:    ts,
		},
	}
}

func TestSqliteHistoryAppendAndByTrip(t *testing.T) {
	h := newSqliteHistory(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, h.Append(ctx, historyRecord("r1", "t1", base)))
	require.NoError(t, h.Append(ctx, historyRecord("r2", "t1", base.Add(time.Hour))))
	require.NoError(t, h.Append(ctx, historyRecord("r3", "t2", base.Add(2*time.Hour))))

	recs, err := h.ByTrip(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "r1", recs[0].ID)
	assert.Equal(t, "r2", recs[1].ID)
	assert.Equal(t, "reroute", recs[0].Notification.Type)
	assert.Equal(t, "d1", recs[0].Notification.DriverID)
	assert.InDelta(t, 20, recs[0].TimeSavingsMinutes, 1e-9)

	empty, err := h.ByTrip(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSqliteHistoryRecent(t *testing.T) {
	h := newSqliteHistory(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, h.Append(ctx, historyRecord(id, "t1", base.Add(time.Duration(i)*time.Hour))))
	}

	recs, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r3", recs[0].ID, "most recent first")
	assert.Equal(t, "r2", recs[1].ID)
}

func TestMemoryStoresMatchHistoryContract(t *testing.T) {
	h := NewMemoryRerouteHistory()
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, h.Append(ctx, historyRecord("r1", "t1", base)))
	require.NoError(t, h.Append(ctx, historyRecord("r2", "t2", base)))

	recs, err := h.ByTrip(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	recent, err := h.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
