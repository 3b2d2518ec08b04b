package ports

import (
	"context"

	"fleet-safety-service/internal/domain"
)

// TripStore holds the active-trip set for the rerouting engine. There is a
// single writer per trip key; Update provides the atomic read-modify-write
// used when a reroute commits.
type TripStore interface {
	Put(ctx context.Context, trip *domain.TripState) error
	Get(ctx context.Context, tripID string) (*domain.TripState, error)
	ByVehicle(ctx context.Context, vehicleID string) (*domain.TripState, error)
	List(ctx context.Context) ([]*domain.TripState, error)
	Remove(ctx context.Context, tripID string) error

	// Update applies fn to the stored trip under the trip's key lock.
	// Returns domain.ErrUnknownEntity when the trip is not tracked.
	Update(ctx context.Context, tripID string, fn func(*domain.TripState) error) error
}

// RiskStore keeps the running exponential average of composite risk per
// vehicle. Update must be atomic per key; different keys are independent.
type RiskStore interface {
	// Average returns the stored average and whether one exists.
	Average(ctx context.Context, vehicleID string) (float64, bool, error)

	// Update applies fn to the stored average under the vehicle's key lock
	// and stores the result. ok is false on first update for the vehicle.
	Update(ctx context.Context, vehicleID string, fn func(old float64, ok bool) float64) (float64, error)
}

// FatigueStore keeps per-driver shift state. Update must be atomic per key.
type FatigueStore interface {
	Get(ctx context.Context, driverID string) (domain.FatigueState, bool, error)
	Update(ctx context.Context, driverID string, fn func(state domain.FatigueState, ok bool) domain.FatigueState) (domain.FatigueState, error)
}

// RerouteHistory is the append-only log of committed reroutes. Records are
// never mutated after creation.
type RerouteHistory interface {
	Append(ctx context.Context, rec domain.RerouteRecord) error
	ByTrip(ctx context.Context, tripID string) ([]domain.RerouteRecord, error)
	Recent(ctx context.Context, limit int) ([]domain.RerouteRecord, error)
}
