package maps

import (
	"context"
	"fmt"

	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/ports"
)

// MockDirectionsProvider serves fixed candidate sets keyed by
// origin|destination. Missing pairs return an error, so tests can exercise
// the fetch-failure degradation paths.
type MockDirectionsProvider struct {
	m map[string][]domain.RouteCandidate
}

func NewMockDirectionsProvider() *MockDirectionsProvider {
	return &MockDirectionsProvider{m: make(map[string][]domain.RouteCandidate)}
}

func (p *MockDirectionsProvider) Set(origin, destination string, routes []domain.RouteCandidate) {
	p.m[origin+"|"+destination] = routes
}

func (p *MockDirectionsProvider) GetDirections(ctx context.Context, req ports.DirectionsRequest) ([]domain.RouteCandidate, error) {
	routes, ok := p.m[req.Origin+"|"+req.Destination]
	if !ok {
		return nil, fmt.Errorf("missing pair %q -> %q", req.Origin, req.Destination)
	}
	if !req.Alternatives && len(routes) > 1 {
		return routes[:1], nil
	}
	return routes, nil
}

// MockSafetyFactorsProvider returns a fixed result, or an error when Err is
// set, forcing the road evaluator's heuristic fallback.
type MockSafetyFactorsProvider struct {
	Result ports.SafetyFactors
	Err    error
}

func (p *MockSafetyFactorsProvider) GetRouteSafetyFactors(ctx context.Context, polyline string) (ports.SafetyFactors, error) {
	if p.Err != nil {
		return ports.SafetyFactors{}, p.Err
	}
	return p.Result, nil
}
