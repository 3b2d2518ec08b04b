package domain

import "errors"

// Error taxonomy for the core. Provider outages are recovered locally with
// documented fallbacks and never surface through these sentinels; the one
// exception is ErrNoRouteFound, raised when no route data exists at all.
var (
	// ErrValidation marks malformed caller input rejected before scoring.
	ErrValidation = errors.New("validation")

	// ErrNoRouteFound means the directions provider returned no usable route.
	ErrNoRouteFound = errors.New("no route found")

	// ErrUnknownEntity means a trip, vehicle, or driver id is not tracked.
	ErrUnknownEntity = errors.New("unknown entity")
)
