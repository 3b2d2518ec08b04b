package riskagg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-safety-service/internal/domain"
)

func TestAssessFatigueLongShiftIsCritical(t *testing.T) {
	// Midday to dodge the circadian window.
	now := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	require.NoError(t, agg.StartShift(ctx, "d1", now.Add(-12*time.Hour)))

	assessment, err := agg.AssessFatigue(ctx, "d1")
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityCritical, assessment.Risk)
	assert.Equal(t, "require_immediate_rest", assessment.Action)
	assert.InDelta(t, 12, assessment.HoursDriven, 1e-9)
	assert.False(t, assessment.Untracked)
}

func TestAssessFatigueOverdueBreak(t *testing.T) {
	now := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	require.NoError(t, agg.StartShift(ctx, "d1", now.Add(-8*time.Hour)))
	require.NoError(t, agg.RecordBreak(ctx, "d1", now.Add(-6*time.Hour)))

	assessment, err := agg.AssessFatigue(ctx, "d1")
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityHigh, assessment.Risk)
	assert.Equal(t, "recommend_break", assessment.Action)
	require.NotNil(t, assessment.HoursSinceBreak)
	assert.InDelta(t, 6, *assessment.HoursSinceBreak, 1e-9)
}

func TestAssessFatigueRecentBreakClears(t *testing.T) {
	now := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	require.NoError(t, agg.StartShift(ctx, "d1", now.Add(-8*time.Hour)))
	require.NoError(t, agg.RecordBreak(ctx, "d1", now.Add(-1*time.Hour)))

	assessment, err := agg.AssessFatigue(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityLow, assessment.Risk)
}

func TestAssessFatigueCircadianLow(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 30, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	require.NoError(t, agg.StartShift(ctx, "d1", now.Add(-2*time.Hour)))

	assessment, err := agg.AssessFatigue(ctx, "d1")
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityHigh, assessment.Risk)
	assert.Equal(t, "increase_monitoring", assessment.Action)
}

func TestAssessFatigueConsecutiveDays(t *testing.T) {
	now := time.Date(2026, 5, 8, 10, 0, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	// Seven shift starts on consecutive mornings.
	for day := 0; day < 7; day++ {
		start := time.Date(2026, 5, 1+day, 8, 0, 0, 0, time.UTC)
		require.NoError(t, agg.StartShift(ctx, "d1", start))
	}
	require.NoError(t, agg.StartShift(ctx, "d1", now.Add(-1*time.Hour)))

	assessment, err := agg.AssessFatigue(ctx, "d1")
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityMedium, assessment.Risk)
	assert.Equal(t, "monitor_closely", assessment.Action)
}

func TestAssessFatigueUntrackedDriver(t *testing.T) {
	now := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	agg := testAggregator(now)

	assessment, err := agg.AssessFatigue(context.Background(), "new-driver")
	require.NoError(t, err)

	assert.True(t, assessment.Untracked)
	assert.Equal(t, domain.SeverityLow, assessment.Risk)
	assert.Zero(t, assessment.HoursDriven)

	// The shift started by the first query persists for later assessments.
	again, err := agg.AssessFatigue(context.Background(), "new-driver")
	require.NoError(t, err)
	assert.False(t, again.Untracked)
}

func TestAssessFatigueRejectsEmptyID(t *testing.T) {
	agg := testAggregator(time.Now())
	_, err := agg.AssessFatigue(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStartShiftResetsBreakAndCountsDays(t *testing.T) {
	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	agg := testAggregator(now)
	ctx := context.Background()

	require.NoError(t, agg.StartShift(ctx, "d1", now.Add(-24*time.Hour)))
	require.NoError(t, agg.RecordBreak(ctx, "d1", now.Add(-20*time.Hour)))
	require.NoError(t, agg.StartShift(ctx, "d1", now))

	state, ok, err := agg.fatigue.Get(ctx, "d1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 2, state.ConsecutiveDays)
	assert.Nil(t, state.LastBreak, "new shift should clear the break marker")

	// A gap longer than 36 hours resets the streak.
	require.NoError(t, agg.StartShift(ctx, "d1", now.Add(48*time.Hour)))
	state, _, err = agg.fatigue.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.ConsecutiveDays)
}
