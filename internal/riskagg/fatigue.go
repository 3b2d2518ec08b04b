package riskagg

import (
	"context"
	"fmt"
	"time"

	"fleet-safety-service/internal/domain"
)

// Hours-of-service limits for fatigue classification.
const (
	maxShiftHours      = 11
	maxHoursWithoutBrk = 5
	maxConsecutiveDays = 6
)

// AssessFatigue classifies a driver's fatigue risk from shift length,
// break history, circadian timing, and consecutive days worked.
//
// A driver with no tracked shift is initialized with the shift starting
// now, and the assessment is marked Untracked so callers can distinguish
// "no data" from "no risk". Shift data is never fabricated backwards.
func (a *Aggregator) AssessFatigue(ctx context.Context, driverID string) (domain.FatigueAssessment, error) {
	if driverID == "" {
		return domain.FatigueAssessment{}, fmt.Errorf("assess fatigue: %w: empty driver id", domain.ErrValidation)
	}

	now := a.now()
	untracked := false

	state, err := a.fatigue.Update(ctx, driverID, func(s domain.FatigueState, ok bool) domain.FatigueState {
		if !ok || s.ShiftStart.IsZero() {
			untracked = true
			return domain.FatigueState{DriverID: driverID, ShiftStart: now}
		}
		return s
	})
	if err != nil {
		return domain.FatigueAssessment{}, fmt.Errorf("assess fatigue: store %s: %w", driverID, err)
	}

	hoursDriven := now.Sub(state.ShiftStart).Hours()

	var hoursSinceBreak *float64
	if state.LastBreak != nil {
		h := now.Sub(*state.LastBreak).Hours()
		hoursSinceBreak = &h
	}

	assessment := domain.FatigueAssessment{
		DriverID:        driverID,
		HoursDriven:     hoursDriven,
		HoursSinceBreak: hoursSinceBreak,
		Untracked:       untracked,
	}

	switch {
	case hoursDriven > maxShiftHours:
		assessment.Risk = domain.SeverityCritical
		assessment.Reason = fmt.Sprintf("Driver has been driving for %.1f hours (max %d)", hoursDriven, maxShiftHours)
		assessment.Action = "require_immediate_rest"

	case hoursSinceBreak != nil && *hoursSinceBreak > maxHoursWithoutBrk:
		assessment.Risk = domain.SeverityHigh
		assessment.Reason = fmt.Sprintf("%.1f hours since last break", *hoursSinceBreak)
		assessment.Action = "recommend_break"

	case now.Hour() >= 2 && now.Hour() < 6:
		assessment.Risk = domain.SeverityHigh
		assessment.Reason = "Circadian low period (2-6am)"
		assessment.Action = "increase_monitoring"

	case state.ConsecutiveDays > maxConsecutiveDays:
		assessment.Risk = domain.SeverityMedium
		assessment.Reason = fmt.Sprintf("%d consecutive days worked", state.ConsecutiveDays)
		assessment.Action = "monitor_closely"

	default:
		assessment.Risk = domain.SeverityLow
	}

	return assessment, nil
}

// StartShift records the beginning of a driver's shift, incrementing the
// consecutive-days counter when the previous shift was yesterday.
func (a *Aggregator) StartShift(ctx context.Context, driverID string, start time.Time) error {
	if driverID == "" {
		return fmt.Errorf("start shift: %w: empty driver id", domain.ErrValidation)
	}

	_, err := a.fatigue.Update(ctx, driverID, func(s domain.FatigueState, ok bool) domain.FatigueState {
		days := 1
		if ok && !s.ShiftStart.IsZero() {
			gap := start.Sub(s.ShiftStart)
			if gap > 0 && gap < 36*time.Hour {
				days = s.ConsecutiveDays + 1
			}
		}
		return domain.FatigueState{
			DriverID:        driverID,
			ShiftStart:      start,
			ConsecutiveDays: days,
		}
	})
	if err != nil {
		return fmt.Errorf("start shift: store %s: %w", driverID, err)
	}
	return nil
}

// RecordBreak records a rest break for the driver's current shift.
func (a *Aggregator) RecordBreak(ctx context.Context, driverID string, at time.Time) error {
	if driverID == "" {
		return fmt.Errorf("record break: %w: empty driver id", domain.ErrValidation)
	}

	_, err := a.fatigue.Update(ctx, driverID, func(s domain.FatigueState, ok bool) domain.FatigueState {
		if !ok || s.ShiftStart.IsZero() {
			s = domain.FatigueState{DriverID: driverID, ShiftStart: at}
		}
		s.LastBreak = &at
		return s
	})
	if err != nil {
		return fmt.Errorf("record break: store %s: %w", driverID, err)
	}
	return nil
}
