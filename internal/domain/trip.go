package domain

import (
	"fmt"
	"strings"
	"time"
)

// TripState is one in-progress trip under monitoring. It is mutated only by
// the rerouting engine, and only when a reroute is committed.
type TripState struct {
	TripID          string      `json:"trip_id"`
	VehicleID       string      `json:"vehicle_id"`
	DriverID        string      `json:"driver_id"`
	VehicleType     VehicleType `json:"vehicle_type"`
	Origin          string      `json:"origin"`
	Destination     string      `json:"destination"`
	CurrentLocation string      `json:"current_location"`

	CurrentRoute            RouteCandidate `json:"current_route"`
	RemainingPolyline       string         `json:"remaining_route_polyline"`
	PlannedRemainingMinutes float64        `json:"planned_remaining_duration_minutes"`

	StartedAt time.Time `json:"started_at"`
}

// Validate rejects trips that cannot be monitored.
func (t TripState) Validate() error {
	if strings.TrimSpace(t.TripID) == "" {
		return fmt.Errorf("%w: trip_id must be non-empty", ErrValidation)
	}
	if strings.TrimSpace(t.VehicleID) == "" {
		return fmt.Errorf("%w: vehicle_id must be non-empty", ErrValidation)
	}
	if strings.TrimSpace(t.Destination) == "" {
		return fmt.Errorf("%w: destination must be non-empty", ErrValidation)
	}
	if err := t.VehicleType.Validate(); err != nil {
		return fmt.Errorf("trip %s: %w", t.TripID, err)
	}
	return nil
}

// MonitorLocation is where condition checks originate from: the vehicle's
// last known position, falling back to the trip origin.
func (t TripState) MonitorLocation() string {
	if t.CurrentLocation != "" {
		return t.CurrentLocation
	}
	return t.Origin
}

// Notification is the driver-facing payload emitted when a reroute commits.
type Notification struct {
	TripID    string    `json:"trip_id"`
	VehicleID string    `json:"vehicle_id"`
	DriverID  string    `json:"driver_id"`
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// RerouteRecord is an append-only history entry for a committed reroute.
type RerouteRecord struct {
	ID                 string       `json:"id"`
	TripID             string       `json:"trip_id"`
	VehicleID          string       `json:"vehicle_id"`
	Timestamp          time.Time    `json:"timestamp"`
	Kind               string       `json:"kind"` // "monitor" or "emergency"
	Reason             string       `json:"reason"`
	OldRouteID         string       `json:"old_route_id"`
	NewRouteID         string       `json:"new_route_id"`
	TimeSavingsMinutes float64      `json:"time_savings_minutes"`
	Notification       Notification `json:"notification"`
}
