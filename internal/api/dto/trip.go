package dto

import (
	"time"

	"fleet-safety-service/internal/domain"
)

// TripRequest registers a trip for monitoring.
type TripRequest struct {
	TripID                  string   `json:"trip_id"`
	VehicleID               string   `json:"vehicle_id"`
	DriverID                string   `json:"driver_id"`
	VehicleType             string   `json:"vehicle_type"`
	Origin                  string   `json:"origin"`
	Destination             string   `json:"destination"`
	CurrentLocation         string   `json:"current_location"`
	Route                   RouteDTO `json:"route"`
	PlannedRemainingMinutes float64  `json:"planned_remaining_duration_minutes"`
}

func (t TripRequest) ToDomain() *domain.TripState {
	return &domain.TripState{
		TripID:                  t.TripID,
		VehicleID:               t.VehicleID,
		DriverID:                t.DriverID,
		VehicleType:             domain.VehicleType(t.VehicleType),
		Origin:                  t.Origin,
		Destination:             t.Destination,
		CurrentLocation:         t.CurrentLocation,
		CurrentRoute:            t.Route.ToDomain(),
		RemainingPolyline:       t.Route.Polyline,
		PlannedRemainingMinutes: t.PlannedRemainingMinutes,
	}
}

// EmergencyRequest forces an immediate reroute for a vehicle.
type EmergencyRequest struct {
	Reason string `json:"reason"`
}

// TelemetryRequest is a batch of telemetry events for one vehicle.
type TelemetryRequest struct {
	Events []TelemetryEventDTO `json:"events"`
}

type TelemetryEventDTO struct {
	Timestamp                time.Time `json:"timestamp"`
	SpeedMPH                 float64   `json:"speed_mph"`
	SpeedLimitMPH            float64   `json:"speed_limit_mph"`
	AccelerationG            float64   `json:"acceleration_g"`
	FollowingDistanceSeconds *float64  `json:"following_distance_seconds"`
}

func (e TelemetryEventDTO) ToDomain(vehicleID string) domain.TelemetryEvent {
	return domain.TelemetryEvent{
		VehicleID:                vehicleID,
		Timestamp:                e.Timestamp,
		SpeedMPH:                 e.SpeedMPH,
		SpeedLimitMPH:            e.SpeedLimitMPH,
		AccelerationG:            e.AccelerationG,
		FollowingDistanceSeconds: e.FollowingDistanceSeconds,
	}
}

// ShiftRequest marks the start of a driver's shift.
type ShiftRequest struct {
	StartedAt *time.Time `json:"started_at"`
}

// BreakRequest records a rest break.
type BreakRequest struct {
	At *time.Time `json:"at"`
}

// EnergyRequest estimates cost and required stops for a planned distance.
type EnergyRequest struct {
	VehicleType   string  `json:"vehicle_type"`
	DistanceMiles float64 `json:"distance_miles"`
}
