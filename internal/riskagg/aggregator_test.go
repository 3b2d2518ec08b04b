package riskagg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-safety-service/internal/adapters/stores"
	"fleet-safety-service/internal/domain"
)

func testAggregator(now time.Time) *Aggregator {
	agg := NewAggregator(stores.NewMemoryRiskStore(), stores.NewMemoryFatigueStore())
	agg.now = func() time.Time { return now }
	return agg
}

func speedingEvent(ts time.Time, overBy float64) domain.TelemetryEvent {
	return domain.TelemetryEvent{
		VehicleID:     "v1",
		Timestamp:     ts,
		SpeedMPH:      70 + overBy,
		SpeedLimitMPH: 70,
	}
}

func TestClassifySignals(t *testing.T) {
	now := time.Now()
	fd := 1.4

	ev := domain.TelemetryEvent{
		VehicleID:                "v1",
		Timestamp:                now,
		SpeedMPH:                 90,
		SpeedLimitMPH:            70,
		AccelerationG:            -0.6,
		FollowingDistanceSeconds: &fd,
	}

	signals := ClassifySignals(ev)
	require.Len(t, signals, 3)
	assert.Equal(t, "excessive_speeding", signals[0].Type)
	assert.Equal(t, domain.SeverityHigh, signals[0].Severity)
	assert.Equal(t, "harsh_braking", signals[1].Type)
	assert.Equal(t, "unsafe_following", signals[2].Type)
}

func TestClassifySignalsModerateSpeeding(t *testing.T) {
	signals := ClassifySignals(speedingEvent(time.Now(), 10))
	require.Len(t, signals, 1)
	assert.Equal(t, "speeding", signals[0].Type)
	assert.Equal(t, domain.SeverityMedium, signals[0].Severity)
}

func TestClassifySignalsDefaultLimit(t *testing.T) {
	// No posted limit assumes 70mph.
	signals := ClassifySignals(domain.TelemetryEvent{SpeedMPH: 88})
	require.Len(t, signals, 1)
	assert.Equal(t, "excessive_speeding", signals[0].Type)
}

func TestAnalyzeTelemetryIntervention(t *testing.T) {
	calm := AnalyzeTelemetry(domain.TelemetryEvent{SpeedMPH: 60, SpeedLimitMPH: 70})
	assert.False(t, calm.RequiresIntervention)
	assert.Empty(t, calm.Signals)

	risky := AnalyzeTelemetry(speedingEvent(time.Now(), 20))
	assert.True(t, risky.RequiresIntervention)
}

func TestUpdateVehicleRiskDecay(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	// An event older than the decay window contributes nothing.
	status, err := agg.UpdateVehicleRisk(ctx, "v1", []domain.TelemetryEvent{
		speedingEvent(now.Add(-31*time.Minute), 20),
	})
	require.NoError(t, err)
	assert.Zero(t, status.Score)
	assert.Equal(t, domain.SeverityLow, status.Level)

	// A fresh high-severity event contributes its full weight of 10.
	status, err = agg.UpdateVehicleRisk(ctx, "v2", []domain.TelemetryEvent{
		speedingEvent(now, 20),
	})
	require.NoError(t, err)
	assert.InDelta(t, 10, status.Score, 1e-9)
	assert.Equal(t, domain.SeverityMedium, status.Level)

	// A 15-minute-old event is decayed to half weight.
	status, err = agg.UpdateVehicleRisk(ctx, "v3", []domain.TelemetryEvent{
		speedingEvent(now.Add(-15*time.Minute), 20),
	})
	require.NoError(t, err)
	assert.InDelta(t, 5, status.Score, 1e-9)
}

func TestUpdateVehicleRiskAmplification(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	// Establish a small baseline average.
	_, err := agg.UpdateVehicleRisk(ctx, "v1", []domain.TelemetryEvent{
		speedingEvent(now, 10), // medium, weight 5
	})
	require.NoError(t, err)

	// Raw 30 versus stored average 0.5 deviates far over 50%, so the
	// composite is amplified by 1.2.
	status, err := agg.UpdateVehicleRisk(ctx, "v1", []domain.TelemetryEvent{
		speedingEvent(now, 20),
		{VehicleID: "v1", Timestamp: now, SpeedMPH: 60, SpeedLimitMPH: 70, AccelerationG: 0.5},
		{VehicleID: "v1", Timestamp: now, SpeedMPH: 60, SpeedLimitMPH: 70, AccelerationG: -0.5},
	})
	require.NoError(t, err)

	require.NotNil(t, status.DeviationFromAverage)
	assert.Greater(t, *status.DeviationFromAverage, 0.5)
	assert.InDelta(t, 36, status.Score, 1e-9) // 30 * 1.2
	assert.Equal(t, domain.SeverityCritical, status.Level)
}

func TestVehicleRiskStatusReadsStoredAverage(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	_, err := agg.UpdateVehicleRisk(ctx, "v1", []domain.TelemetryEvent{
		speedingEvent(now, 20),
	})
	require.NoError(t, err)

	// EMA after one update from zero: 10 * 0.1 = 1.
	status, err := agg.VehicleRiskStatus(ctx, "v1")
	require.NoError(t, err)
	assert.InDelta(t, 1, status.Score, 1e-9)

	// Unknown vehicles read as zero risk, not an error.
	unknown, err := agg.VehicleRiskStatus(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, unknown.Score)
	assert.Equal(t, domain.SeverityLow, unknown.Level)
}

func TestUpdateVehicleRiskRejectsEmptyID(t *testing.T) {
	agg := testAggregator(time.Now())
	_, err := agg.UpdateVehicleRisk(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRouteHazards(t *testing.T) {
	snowy := RouteHazards(domain.WeatherReport{Condition: domain.WeatherSnow})
	require.Len(t, snowy.Hazards, 1)
	assert.Equal(t, domain.SeverityHigh, snowy.RiskLevel)

	rainy := RouteHazards(domain.WeatherReport{Condition: domain.WeatherRain})
	assert.Equal(t, domain.SeverityMedium, rainy.RiskLevel)

	clear := RouteHazards(domain.WeatherReport{Condition: domain.WeatherClear})
	assert.Empty(t, clear.Hazards)
	assert.Equal(t, domain.SeverityLow, clear.RiskLevel)
}
