package domain

// Fuel and energy pricing assumptions. Diesel in GBP per litre, electricity
// at the average public fast-charging rate in GBP per kWh.
const (
	dieselPricePerLitre = 1.45
	energyPricePerKWh   = 0.45
)

// milesPerLitre by diesel vehicle type.
var milesPerLitre = map[VehicleType]float64{
	VehicleLightTruck: 4.0,
	VehicleHeavyTruck: 2.0,
	VehicleVan:        5.5,
}

// milesPerKWh by electric vehicle type.
var milesPerKWh = map[VehicleType]float64{
	VehicleElectricTruck: 1.5,
	VehicleElectricVan:   2.5,
}

// rangeMiles is the nominal operating range per vehicle type.
var rangeMiles = map[VehicleType]float64{
	VehicleLightTruck:    300,
	VehicleHeavyTruck:    500,
	VehicleVan:           400,
	VehicleElectricTruck: 250,
	VehicleElectricVan:   180,
}

// RangeMiles returns the nominal range for the vehicle type, defaulting to
// 300 miles for unknown types.
func (v VehicleType) RangeMiles() float64 {
	if r, ok := rangeMiles[v]; ok {
		return r
	}
	return 300
}

// EnergyCost is a fuel or charging cost estimate for one route.
type EnergyCost struct {
	FuelType    string  `json:"fuel_type"` // "diesel" or "electric"
	UnitsNeeded float64 `json:"units_needed"`
	UnitPrice   float64 `json:"unit_price"`
	TotalCost   float64 `json:"total_cost"`
	CostPerMile float64 `json:"cost_per_mile"`
}

// EstimateEnergyCost computes the fuel or charging cost for a distance.
func EstimateEnergyCost(distanceMiles float64, vehicleType VehicleType) EnergyCost {
	if distanceMiles < 0 {
		distanceMiles = 0
	}

	if vehicleType.IsElectric() {
		efficiency, ok := milesPerKWh[vehicleType]
		if !ok {
			efficiency = 2.0
		}
		kwh := distanceMiles / efficiency
		total := kwh * energyPricePerKWh
		return EnergyCost{
			FuelType:    "electric",
			UnitsNeeded: kwh,
			UnitPrice:   energyPricePerKWh,
			TotalCost:   total,
			CostPerMile: perMile(total, distanceMiles),
		}
	}

	mpl, ok := milesPerLitre[vehicleType]
	if !ok {
		mpl = 4.0
	}
	litres := distanceMiles / mpl
	total := litres * dieselPricePerLitre
	return EnergyCost{
		FuelType:    "diesel",
		UnitsNeeded: litres,
		UnitPrice:   dieselPricePerLitre,
		TotalCost:   total,
		CostPerMile: perMile(total, distanceMiles),
	}
}

func perMile(total, miles float64) float64 {
	if miles <= 0 {
		return 0
	}
	return total / miles
}

// RequiredStop is a fuel, charging, or rest stop a route needs.
type RequiredStop struct {
	Type            string `json:"type"` // "fuel", "charging", or "rest_break"
	Reason          string `json:"reason"`
	DurationMinutes int    `json:"estimated_duration_minutes"`
}

// PlanRequiredStops determines fuel/charging and rest stops for a route.
// A refuel is needed when the route consumes over 80% of the vehicle's
// range. Charging stops are long enough to double as the rest break.
func PlanRequiredStops(distanceMiles, durationHours float64, vehicleType VehicleType) []RequiredStop {
	var stops []RequiredStop

	if distanceMiles > vehicleType.RangeMiles()*0.8 {
		if vehicleType.IsElectric() {
			stops = append(stops, RequiredStop{
				Type:            "charging",
				Reason:          "route exceeds 80% of vehicle range",
				DurationMinutes: 45,
			})
		} else {
			stops = append(stops, RequiredStop{
				Type:            "fuel",
				Reason:          "route exceeds 80% of vehicle range",
				DurationMinutes: 15,
			})
		}
	}

	hasLongStop := false
	for _, s := range stops {
		if s.DurationMinutes >= 30 {
			hasLongStop = true
		}
	}

	if durationHours > 4 && !hasLongStop {
		stops = append(stops, RequiredStop{
			Type:            "rest_break",
			Reason:          "driver rest break required",
			DurationMinutes: 30,
		})
	}

	return stops
}
