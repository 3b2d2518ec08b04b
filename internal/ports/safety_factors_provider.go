package ports

import (
	"context"

	"fleet-safety-service/internal/domain"
)

// SafetyFactors is the external road-safety lookup result for a route.
type SafetyFactors struct {
	SafetyScore float64             // 0-100
	RiskFactors []domain.RiskFactor
}

// Contract for the external route-safety-factors lookup keyed by route
// geometry. Used only by the road-characteristics evaluator; an error from
// this provider triggers the evaluator's heuristic fallback and never fails
// an assessment.
type SafetyFactorsProvider interface {
	GetRouteSafetyFactors(ctx context.Context, polyline string) (SafetyFactors, error)
}
