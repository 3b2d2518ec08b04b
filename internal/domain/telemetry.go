package domain

import "time"

// Severity grades telemetry risk signals and vehicle risk levels.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight returns the scoring weight of a signal severity.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	default:
		return 1
	}
}

// TelemetryEvent is a single transient reading from a vehicle. Raw events
// are not retained; only the decayed composite score survives them.
type TelemetryEvent struct {
	VehicleID     string    `json:"vehicle_id"`
	Timestamp     time.Time `json:"timestamp"`
	SpeedMPH      float64   `json:"speed_mph"`
	SpeedLimitMPH float64   `json:"speed_limit_mph"`
	AccelerationG float64   `json:"acceleration_g"`

	// FollowingDistanceSeconds is nil when the sensor is absent.
	FollowingDistanceSeconds *float64 `json:"following_distance_seconds,omitempty"`
}

// RiskSignal is one classified risk extracted from a telemetry event.
type RiskSignal struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Details  string   `json:"details"`
}

// TelemetryAnalysis is the per-event classification result.
type TelemetryAnalysis struct {
	VehicleID            string       `json:"vehicle_id"`
	Timestamp            time.Time    `json:"timestamp"`
	Signals              []RiskSignal `json:"risks"`
	RequiresIntervention bool         `json:"requires_intervention"`
}

// VehicleRiskStatus is the composite decayed risk view for one vehicle.
type VehicleRiskStatus struct {
	VehicleID string   `json:"vehicle_id"`
	Score     float64  `json:"risk_score"`
	Level     Severity `json:"risk_level"`

	// DeviationFromAverage is nil until a historical average exists.
	DeviationFromAverage *float64 `json:"deviation_from_average,omitempty"`
}

// FatigueState tracks one driver's shift for hours-of-service checks.
// Owned and mutated only by the fatigue assessor.
type FatigueState struct {
	DriverID        string     `json:"driver_id"`
	ShiftStart      time.Time  `json:"shift_start"`
	LastBreak       *time.Time `json:"last_break,omitempty"`
	ConsecutiveDays int        `json:"consecutive_days"`
}

// FatigueAssessment is the output of a driver fatigue query.
type FatigueAssessment struct {
	DriverID    string   `json:"driver_id"`
	Risk        Severity `json:"fatigue_risk"`
	Reason      string   `json:"reason,omitempty"`
	Action      string   `json:"action,omitempty"`
	HoursDriven float64  `json:"hours_driven"`

	// HoursSinceBreak is nil when no break has been recorded this shift.
	HoursSinceBreak *float64 `json:"hours_since_break,omitempty"`

	// Untracked is set when the driver had no shift data and tracking was
	// started by this query. Callers should treat the low risk as "no data"
	// rather than "no risk".
	Untracked bool `json:"untracked,omitempty"`
}

// RouteHazard is a weather-driven hazard on a planned route.
type RouteHazard struct {
	Type           string   `json:"type"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}

// HazardReport summarizes hazards along a route.
type HazardReport struct {
	Hazards   []RouteHazard `json:"hazards"`
	RiskLevel Severity      `json:"route_risk_level"`
}
