package domain

import (
	"fmt"
	"strings"
)

// VehicleType identifies the fleet vehicle class, which determines fuel
// efficiency, range, and EV-specific risk checks.
type VehicleType string

const (
	VehicleLightTruck    VehicleType = "light_truck"
	VehicleHeavyTruck    VehicleType = "heavy_truck"
	VehicleVan           VehicleType = "van"
	VehicleElectricTruck VehicleType = "electric_truck"
	VehicleElectricVan   VehicleType = "electric_van"
)

// ValidVehicleTypes lists every accepted vehicle type.
var ValidVehicleTypes = []VehicleType{
	VehicleLightTruck,
	VehicleHeavyTruck,
	VehicleVan,
	VehicleElectricTruck,
	VehicleElectricVan,
}

// IsElectric reports whether the vehicle runs on battery power.
func (v VehicleType) IsElectric() bool {
	return strings.Contains(string(v), "electric")
}

// Validate rejects unknown vehicle types.
func (v VehicleType) Validate() error {
	for _, t := range ValidVehicleTypes {
		if v == t {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown vehicle type %q", ErrValidation, v)
}

// VehicleProfile is the read-only vehicle input to scoring and rerouting.
type VehicleProfile struct {
	Type VehicleType `json:"type"`
}

// DriverProfile is the read-only driver input to scoring.
type DriverProfile struct {
	YearsExperience       float64 `json:"years_experience"`
	TimesDrivenRoute      int     `json:"times_driven_route"`
	IncidentsPer100kMiles float64 `json:"incidents_per_100k_miles"`
}

// Validate rejects malformed driver profiles before scoring.
func (d DriverProfile) Validate() error {
	if d.YearsExperience < 0 {
		return fmt.Errorf("%w: years_experience must be non-negative", ErrValidation)
	}
	if d.TimesDrivenRoute < 0 {
		return fmt.Errorf("%w: times_driven_route must be non-negative", ErrValidation)
	}
	if d.IncidentsPer100kMiles < 0 {
		return fmt.Errorf("%w: incidents_per_100k_miles must be non-negative", ErrValidation)
	}
	return nil
}
