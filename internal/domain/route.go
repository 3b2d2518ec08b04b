package domain

import "time"

// RiskLevel classifies an overall route safety score into four tiers.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// ClassifyScore maps a 0-100 safety score to a risk level.
func ClassifyScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 60:
		return RiskMedium
	case score >= 40:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// RiskFactor is a single named contributor to a safety assessment.
// Impact is signed: negative values worsen the score.
type RiskFactor struct {
	Factor  string  `json:"factor"`
	Impact  float64 `json:"impact"`
	Details string  `json:"details"`
}

// Recommendation is a mitigation advisory produced alongside an assessment.
type Recommendation struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// SafetyAssessment is the full scoring output for one route.
// It is derived fresh on every scoring call and never cached.
type SafetyAssessment struct {
	Score           float64            `json:"safety_score"`
	Level           RiskLevel          `json:"risk_level"`
	Corridor        string             `json:"matched_corridor"`
	Components      map[string]float64 `json:"component_scores"`
	TopFactors      []RiskFactor       `json:"top_risk_factors"`
	Recommendations []Recommendation   `json:"recommendations"`
	EvaluatedAt     time.Time          `json:"evaluated_at"`
}

// RouteCandidate is one route option returned by the directions provider.
// Distance and duration fields are normalized at the provider boundary;
// callers enrich the candidate with a safety assessment and energy cost.
type RouteCandidate struct {
	ID                     string  `json:"id"`
	Summary                string  `json:"summary"`
	Polyline               string  `json:"polyline"`
	DistanceMiles          float64 `json:"distance_miles"`
	DurationMinutes        float64 `json:"duration_minutes"`
	TrafficDurationMinutes float64 `json:"duration_in_traffic_minutes"`
	RouteType              string  `json:"route_type,omitempty"`

	Safety *SafetyAssessment `json:"safety,omitempty"`
	Energy *EnergyCost       `json:"energy_cost,omitempty"`
}

// EffectiveDurationMinutes returns the traffic-adjusted duration when
// available, falling back to the nominal duration.
func (r RouteCandidate) EffectiveDurationMinutes() float64 {
	if r.TrafficDurationMinutes > 0 {
		return r.TrafficDurationMinutes
	}
	return r.DurationMinutes
}

// TrafficDelayPct returns the traffic delay as a percentage of the
// nominal duration. Zero when either duration is missing.
func (r RouteCandidate) TrafficDelayPct() float64 {
	if r.DurationMinutes <= 0 || r.TrafficDurationMinutes <= 0 {
		return 0
	}
	return (r.TrafficDurationMinutes - r.DurationMinutes) / r.DurationMinutes * 100
}

// AvgSpeedMPH returns the average speed implied by distance and nominal
// duration. Zero when duration is missing.
func (r RouteCandidate) AvgSpeedMPH() float64 {
	if r.DurationMinutes <= 0 {
		return 0
	}
	return r.DistanceMiles / (r.DurationMinutes / 60)
}
