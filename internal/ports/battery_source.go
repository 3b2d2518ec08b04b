package ports

import "context"

// BatteryStatus is a point-in-time battery reading for an electric vehicle.
// Known is false when no telemetry is available for the vehicle.
type BatteryStatus struct {
	Known    bool
	LevelPct float64
}

// Contract for reading EV battery levels during trip monitoring. The
// production source reads real telemetry; tests and demos inject a
// deterministic or seeded simulated source.
type BatteryStatusSource interface {
	BatteryStatus(ctx context.Context, vehicleID string) (BatteryStatus, error)
}
