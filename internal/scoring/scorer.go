package scoring

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fleet-safety-service/internal/config"
	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/ports"
)

// evaluation is the result of one factor evaluator: a signed score
// contribution plus the named risk factors behind it.
type evaluation struct {
	Impact  float64
	Factors []domain.RiskFactor

	// Corridor names the matched high-incident corridor, or "standard";
	// set only by the historical corridor evaluator.
	Corridor string
}

// Scorer converts route, driver, vehicle, and conditions inputs into a
// bounded 0-100 safety assessment. It holds no mutable state; every call is
// pure given its inputs plus the optional external safety-factors lookup.
type Scorer struct {
	safetyFactors ports.SafetyFactorsProvider // nil disables the external path
	corridors     []config.Corridor
	now           func() time.Time
}

func NewScorer(safetyFactors ports.SafetyFactorsProvider, corridors []config.Corridor) *Scorer {
	return &Scorer{
		safetyFactors: safetyFactors,
		corridors:     corridors,
		now:           time.Now,
	}
}

// Score runs the four factor evaluators and combines their contributions
// into a clamped 0-100 score with ranked top risk factors and mitigation
// recommendations. The evaluators are independent and run concurrently;
// the fan-in order is fixed so results are deterministic.
func (s *Scorer) Score(
	ctx context.Context,
	route domain.RouteCandidate,
	driver domain.DriverProfile,
	conditions domain.ConditionsSnapshot,
	vehicle domain.VehicleProfile,
) (domain.SafetyAssessment, error) {
	if err := driver.Validate(); err != nil {
		return domain.SafetyAssessment{}, fmt.Errorf("score route: %w", err)
	}
	if err := vehicle.Type.Validate(); err != nil {
		return domain.SafetyAssessment{}, fmt.Errorf("score route: %w", err)
	}

	var (
		wg   sync.WaitGroup
		road evaluation
		hist evaluation
		env  evaluation
		drv  evaluation
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		road = s.evaluateRoad(ctx, route)
	}()
	go func() {
		defer wg.Done()
		hist = s.evaluateCorridor(route)
	}()
	go func() {
		defer wg.Done()
		env = evaluateEnvironment(route, conditions, vehicle)
	}()
	go func() {
		defer wg.Done()
		drv = evaluateDriver(driver)
	}()
	wg.Wait()

	score := 100.0 + road.Impact + hist.Impact + env.Impact + drv.Impact
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := domain.ClassifyScore(score)

	// Fixed collection order keeps the sort deterministic across runs.
	all := make([]domain.RiskFactor, 0,
		len(road.Factors)+len(hist.Factors)+len(env.Factors)+len(drv.Factors))
	all = append(all, road.Factors...)
	all = append(all, hist.Factors...)
	all = append(all, env.Factors...)
	all = append(all, drv.Factors...)

	sort.SliceStable(all, func(i, j int) bool {
		return abs(all[i].Impact) > abs(all[j].Impact)
	})
	if len(all) > 3 {
		all = all[:3]
	}

	return domain.SafetyAssessment{
		Score:    score,
		Level:    level,
		Corridor: hist.Corridor,
		Components: map[string]float64{
			"road_characteristics":     road.Impact,
			"historical_safety":        hist.Impact,
			"environmental_conditions": env.Impact,
			"driver_fit":               drv.Impact,
		},
		TopFactors:      all,
		Recommendations: recommend(level, all, route),
		EvaluatedAt:     s.now(),
	}, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
