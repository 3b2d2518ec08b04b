package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet-safety-service/internal/config"
	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/ports"
)

func clearDayConditions() domain.ConditionsSnapshot {
	return domain.ConditionsSnapshot{
		Hour:         14,
		Weekday:      time.Tuesday,
		Weather:      domain.WeatherClear,
		TemperatureC: 18,
		WindSpeedKmh: 10,
		IsDay:        true,
	}
}

func motorwayRoute() domain.RouteCandidate {
	return domain.RouteCandidate{
		ID:                     "r1",
		Summary:                "M1 motorway",
		DistanceMiles:          200,
		DurationMinutes:        240,
		TrafficDurationMinutes: 240,
	}
}

func experiencedDriver() domain.DriverProfile {
	return domain.DriverProfile{YearsExperience: 8, TimesDrivenRoute: 15, IncidentsPer100kMiles: 0.2}
}

func TestScoreCleanMotorwayIsLowRisk(t *testing.T) {
	scorer := NewScorer(nil, config.Default().Corridors)

	assessment, err := scorer.Score(
		context.Background(),
		motorwayRoute(),
		experiencedDriver(),
		clearDayConditions(),
		domain.VehicleProfile{Type: domain.VehicleLightTruck},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score < 80 {
		t.Fatalf("score = %v, want >= 80", assessment.Score)
	}
	if assessment.Level != domain.RiskLow {
		t.Fatalf("level = %v, want LOW", assessment.Level)
	}
	if assessment.Corridor != "standard" {
		t.Fatalf("corridor = %q, want standard", assessment.Corridor)
	}
	if assessment.Score > 100 {
		t.Fatalf("score must be clamped to 100, got %v", assessment.Score)
	}
}

func TestScoreAdverseNightDropsScore(t *testing.T) {
	scorer := NewScorer(nil, config.Default().Corridors)
	ctx := context.Background()

	baseline, err := scorer.Score(ctx, motorwayRoute(), experiencedDriver(), clearDayConditions(),
		domain.VehicleProfile{Type: domain.VehicleLightTruck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	adverse := clearDayConditions()
	adverse.Hour = 23
	adverse.IsDay = false
	adverse.Weather = domain.WeatherSnow
	adverse.WindSpeedKmh = 60
	riskyDriver := domain.DriverProfile{YearsExperience: 1, TimesDrivenRoute: 0, IncidentsPer100kMiles: 1.5}

	degraded, err := scorer.Score(ctx, motorwayRoute(), riskyDriver, adverse,
		domain.VehicleProfile{Type: domain.VehicleLightTruck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if baseline.Score-degraded.Score < 20 {
		t.Fatalf("adverse conditions dropped score by only %v points", baseline.Score-degraded.Score)
	}
	if degraded.Level == domain.RiskLow {
		t.Fatalf("adverse conditions still classified LOW (score %v)", degraded.Score)
	}
	if len(degraded.TopFactors) != 3 {
		t.Fatalf("top factors = %d, want capped at 3", len(degraded.TopFactors))
	}
	for i := 1; i < len(degraded.TopFactors); i++ {
		prev := degraded.TopFactors[i-1].Impact
		cur := degraded.TopFactors[i].Impact
		if abs(cur) > abs(prev) {
			t.Fatalf("top factors not sorted by |impact|: %v before %v", prev, cur)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewScorer(nil, config.Default().Corridors)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	scorer.now = func() time.Time { return fixed }
	ctx := context.Background()

	first, err := scorer.Score(ctx, motorwayRoute(), experiencedDriver(), clearDayConditions(),
		domain.VehicleProfile{Type: domain.VehicleVan})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 20; i++ {
		again, err := scorer.Score(ctx, motorwayRoute(), experiencedDriver(), clearDayConditions(),
			domain.VehicleProfile{Type: domain.VehicleVan})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Score != first.Score {
			t.Fatalf("run %d: score %v differs from first %v", i, again.Score, first.Score)
		}
		if len(again.TopFactors) != len(first.TopFactors) {
			t.Fatalf("run %d: factor count changed", i)
		}
		for j := range again.TopFactors {
			if again.TopFactors[j].Factor != first.TopFactors[j].Factor {
				t.Fatalf("run %d: factor order changed", i)
			}
		}
	}
}

func TestScoreClampedToZero(t *testing.T) {
	corridors := []config.Corridor{
		{Name: "blackspot bypass", AnnualIncidents: 50, SeverityScore: 9.5},
	}
	scorer := NewScorer(nil, corridors)

	night := domain.ConditionsSnapshot{
		Hour:    3,
		Weather: domain.WeatherIce,
		IsDay:   false,
	}
	route := domain.RouteCandidate{
		Summary:                "blackspot bypass via city",
		DistanceMiles:          100,
		DurationMinutes:        80,
		TrafficDurationMinutes: 160,
	}
	badDriver := domain.DriverProfile{YearsExperience: 0, TimesDrivenRoute: 0, IncidentsPer100kMiles: 3}

	assessment, err := scorer.Score(context.Background(), route, badDriver, night,
		domain.VehicleProfile{Type: domain.VehicleElectricTruck})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score < 0 {
		t.Fatalf("score = %v, must never go below 0", assessment.Score)
	}
	if assessment.Level != domain.RiskCritical {
		t.Fatalf("level = %v, want CRITICAL", assessment.Level)
	}
}

func TestScoreRejectsInvalidInputs(t *testing.T) {
	scorer := NewScorer(nil, nil)
	ctx := context.Background()

	_, err := scorer.Score(ctx, motorwayRoute(),
		domain.DriverProfile{YearsExperience: -1},
		clearDayConditions(),
		domain.VehicleProfile{Type: domain.VehicleVan})
	if err == nil {
		t.Fatal("expected error for negative experience")
	}

	_, err = scorer.Score(ctx, motorwayRoute(), experiencedDriver(), clearDayConditions(),
		domain.VehicleProfile{Type: "tricycle"})
	if err == nil {
		t.Fatal("expected error for unknown vehicle type")
	}
}

type stubSafetyFactors struct {
	result ports.SafetyFactors
	err    error
}

func (s *stubSafetyFactors) GetRouteSafetyFactors(ctx context.Context, polyline string) (ports.SafetyFactors, error) {
	if s.err != nil {
		return ports.SafetyFactors{}, s.err
	}
	return s.result, nil
}

func TestRoadEvaluatorUsesProviderScore(t *testing.T) {
	provider := &stubSafetyFactors{result: ports.SafetyFactors{
		SafetyScore: 90,
		RiskFactors: []domain.RiskFactor{{Factor: "narrow_lanes", Impact: 0, Details: "Lane width below standard"}},
	}}
	scorer := NewScorer(provider, nil)

	route := motorwayRoute()
	route.Polyline = "abc123"

	ev := scorer.evaluateRoad(context.Background(), route)

	// (90 - 50) * 0.8 = 32.
	if ev.Impact != 32 {
		t.Fatalf("impact = %v, want 32", ev.Impact)
	}
	if len(ev.Factors) != 1 || ev.Factors[0].Impact != -5 {
		t.Fatalf("zero-impact provider factor should default to -5, got %+v", ev.Factors)
	}
}

func TestRoadEvaluatorFallsBackOnProviderError(t *testing.T) {
	provider := &stubSafetyFactors{err: errors.New("service unavailable")}
	scorer := NewScorer(provider, nil)

	route := motorwayRoute()
	route.Polyline = "abc123"

	ev := scorer.evaluateRoad(context.Background(), route)

	// Heuristic path: motorway designation awards +10.
	if ev.Impact != 10 {
		t.Fatalf("impact = %v, want 10 from heuristic", ev.Impact)
	}
}

func TestRoadHeuristicBranches(t *testing.T) {
	tests := []struct {
		name   string
		route  domain.RouteCandidate
		impact float64
	}{
		{
			"fast interstate",
			domain.RouteCandidate{Summary: "I-95 interstate", DistanceMiles: 140, DurationMinutes: 120},
			10 - 15, // highway bonus, high-speed penalty
		},
		{
			"city streets",
			domain.RouteCandidate{Summary: "local city roads", DistanceMiles: 20, DurationMinutes: 40},
			-5,
		},
		{
			"long slow urban crawl",
			domain.RouteCandidate{Summary: "A long way around", DistanceMiles: 60, DurationMinutes: 120},
			-10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := roadHeuristic(tt.route)
			if ev.Impact != tt.impact {
				t.Fatalf("impact = %v, want %v", ev.Impact, tt.impact)
			}
		})
	}
}
