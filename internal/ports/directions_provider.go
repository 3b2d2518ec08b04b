package ports

import (
	"context"
	"time"

	"fleet-safety-service/internal/domain"
)

// DirectionsRequest describes one directions lookup.
type DirectionsRequest struct {
	Origin        string
	Destination   string
	DepartureTime time.Time
	Alternatives  bool
	Avoid         []string
}

// Contract for retrieving route candidates between two locations.
// Implementations normalize provider response shapes on ingestion, so
// callers always receive canonical RouteCandidates.
type DirectionsProvider interface {
	// Return one or more routes. The first route is the provider's
	// recommended route; the rest are alternatives when requested.
	GetDirections(ctx context.Context, req DirectionsRequest) ([]domain.RouteCandidate, error)
}
