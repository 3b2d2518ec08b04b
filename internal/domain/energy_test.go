package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimateEnergyCostDiesel(t *testing.T) {
	cost := EstimateEnergyCost(200, VehicleHeavyTruck)

	if cost.FuelType != "diesel" {
		t.Fatalf("fuel type = %q, want diesel", cost.FuelType)
	}
	// 200 miles at 2.0 mi/l is 100 litres.
	if !almostEqual(cost.UnitsNeeded, 100) {
		t.Fatalf("units = %v, want 100", cost.UnitsNeeded)
	}
	if !almostEqual(cost.TotalCost, 145) {
		t.Fatalf("total = %v, want 145", cost.TotalCost)
	}
	if !almostEqual(cost.CostPerMile, 0.725) {
		t.Fatalf("cost per mile = %v, want 0.725", cost.CostPerMile)
	}
}

func TestEstimateEnergyCostElectric(t *testing.T) {
	cost := EstimateEnergyCost(100, VehicleElectricVan)

	if cost.FuelType != "electric" {
		t.Fatalf("fuel type = %q, want electric", cost.FuelType)
	}
	// 100 miles at 2.5 mi/kWh is 40 kWh.
	if !almostEqual(cost.UnitsNeeded, 40) {
		t.Fatalf("units = %v, want 40", cost.UnitsNeeded)
	}
	if !almostEqual(cost.TotalCost, 18) {
		t.Fatalf("total = %v, want 18", cost.TotalCost)
	}
}

func TestEstimateEnergyCostNegativeDistance(t *testing.T) {
	cost := EstimateEnergyCost(-50, VehicleVan)
	if cost.TotalCost != 0 || cost.CostPerMile != 0 {
		t.Fatalf("negative distance should cost nothing, got %+v", cost)
	}
}

func TestPlanRequiredStops(t *testing.T) {
	tests := []struct {
		name     string
		miles    float64
		hours    float64
		vehicle  VehicleType
		want     []string
	}{
		{"short trip no stops", 100, 2, VehicleVan, nil},
		{"long diesel needs fuel and rest", 450, 9, VehicleHeavyTruck, []string{"fuel", "rest_break"}},
		{"ev charge covers rest break", 200, 5, VehicleElectricTruck, []string{"charging"}},
		{"long but in range needs rest only", 250, 5, VehicleHeavyTruck, []string{"rest_break"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stops := PlanRequiredStops(tt.miles, tt.hours, tt.vehicle)
			if len(stops) != len(tt.want) {
				t.Fatalf("got %d stops %+v, want %d", len(stops), stops, len(tt.want))
			}
			for i, s := range stops {
				if s.Type != tt.want[i] {
					t.Errorf("stop %d type = %q, want %q", i, s.Type, tt.want[i])
				}
			}
		})
	}
}

func TestVehicleTypeRange(t *testing.T) {
	if r := VehicleElectricVan.RangeMiles(); r != 180 {
		t.Fatalf("electric van range = %v, want 180", r)
	}
	if r := VehicleType("unknown").RangeMiles(); r != 300 {
		t.Fatalf("unknown type range = %v, want 300 default", r)
	}
}
