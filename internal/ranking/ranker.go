package ranking

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/scoring"
)

// Policy selects how a route is chosen from the scored candidates.
type Policy string

const (
	// PolicySafety picks the candidate with the highest safety score.
	PolicySafety Policy = "safety"
	// PolicySpeed picks the fastest candidate scoring at least the safety
	// floor, falling back to the safety rule when none qualifies.
	PolicySpeed Policy = "speed"
	// PolicyBalanced minimizes (100 - score) + duration/10.
	PolicyBalanced Policy = "balanced"
)

// speedFloor is the minimum safety score a candidate needs before the
// speed policy will consider it.
const speedFloor = 70.0

// TradeOff reports the cost of choosing the safest route over the fastest.
type TradeOff struct {
	TimePenaltyMinutes    float64 `json:"time_penalty_minutes"`
	SafetyAdvantagePoints float64 `json:"safety_advantage_points"`
	Recommendation        string  `json:"recommendation"`
}

// Comparison is the safest/fastest/shortest matrix over the candidates.
// Indexes refer to the original candidate order.
type Comparison struct {
	SafestIndex   int       `json:"safest_index"`
	FastestIndex  int       `json:"fastest_index"`
	ShortestIndex int       `json:"shortest_index"`
	TradeOff      *TradeOff `json:"trade_off,omitempty"`
}

// Request carries the candidates plus the shared scoring context.
type Request struct {
	Routes     []domain.RouteCandidate
	Driver     domain.DriverProfile
	Vehicle    domain.VehicleProfile
	Conditions domain.ConditionsSnapshot
	Policy     Policy
}

// Result preserves input order: Routes[i] is the scored version of the
// request's Routes[i].
type Result struct {
	Routes          []domain.RouteCandidate `json:"routes"`
	SelectedIndex   int                     `json:"selected_index"`
	SelectionReason string                  `json:"selection_reason"`
	FallbackApplied bool                    `json:"fallback_applied,omitempty"`
	Comparison      Comparison              `json:"comparison"`
}

// Ranker scores candidate routes concurrently and applies a selection
// policy. It holds no mutable state.
type Ranker struct {
	scorer *scoring.Scorer
}

func NewRanker(scorer *scoring.Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// RankRoutes scores every candidate, enriches it with an energy cost
// estimate, and selects one per the requested policy. Scoring runs in
// parallel; results are re-associated with their input index.
func (r *Ranker) RankRoutes(ctx context.Context, req Request) (Result, error) {
	if len(req.Routes) == 0 {
		return Result{}, fmt.Errorf("rank routes: %w", domain.ErrNoRouteFound)
	}
	if err := req.Driver.Validate(); err != nil {
		return Result{}, fmt.Errorf("rank routes: %w", err)
	}
	if err := req.Vehicle.Type.Validate(); err != nil {
		return Result{}, fmt.Errorf("rank routes: %w", err)
	}

	scored := make([]domain.RouteCandidate, len(req.Routes))

	g, gctx := errgroup.WithContext(ctx)
	for i := range req.Routes {
		g.Go(func() error {
			route := req.Routes[i]
			assessment, err := r.scorer.Score(gctx, route, req.Driver, req.Conditions, req.Vehicle)
			if err != nil {
				return fmt.Errorf("score candidate %d: %w", i, err)
			}
			route.Safety = &assessment
			cost := domain.EstimateEnergyCost(route.DistanceMiles, req.Vehicle.Type)
			route.Energy = &cost
			scored[i] = route
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("rank routes: %w", err)
	}

	selected, reason, fallback := selectRoute(scored, req.Policy)

	return Result{
		Routes:          scored,
		SelectedIndex:   selected,
		SelectionReason: reason,
		FallbackApplied: fallback,
		Comparison:      compare(scored),
	}, nil
}

func selectRoute(routes []domain.RouteCandidate, policy Policy) (index int, reason string, fallback bool) {
	switch policy {
	case PolicySpeed:
		best := -1
		for i, rt := range routes {
			if rt.Safety.Score < speedFloor {
				continue
			}
			if best < 0 || rt.EffectiveDurationMinutes() < routes[best].EffectiveDurationMinutes() {
				best = i
			}
		}
		if best >= 0 {
			return best, fmt.Sprintf("fastest route meeting safety floor %.0f", speedFloor), false
		}
		safest := safestIndex(routes)
		return safest, "no candidate met the safety floor; selected safest route instead", true

	case PolicyBalanced:
		best := 0
		bestCost := balancedCost(routes[0])
		for i := 1; i < len(routes); i++ {
			if c := balancedCost(routes[i]); c < bestCost {
				best, bestCost = i, c
			}
		}
		return best, "best balance of safety and duration", false

	default: // PolicySafety
		return safestIndex(routes), "highest safety score", false
	}
}

func balancedCost(r domain.RouteCandidate) float64 {
	return (100 - r.Safety.Score) + r.EffectiveDurationMinutes()/10
}

func safestIndex(routes []domain.RouteCandidate) int {
	best := 0
	for i := 1; i < len(routes); i++ {
		if routes[i].Safety.Score > routes[best].Safety.Score {
			best = i
		}
	}
	return best
}

func compare(routes []domain.RouteCandidate) Comparison {
	safest := safestIndex(routes)
	fastest, shortest := 0, 0
	for i := 1; i < len(routes); i++ {
		if routes[i].EffectiveDurationMinutes() < routes[fastest].EffectiveDurationMinutes() {
			fastest = i
		}
		if routes[i].DistanceMiles < routes[shortest].DistanceMiles {
			shortest = i
		}
	}

	c := Comparison{SafestIndex: safest, FastestIndex: fastest, ShortestIndex: shortest}

	if safest != fastest {
		advantage := routes[safest].Safety.Score - routes[fastest].Safety.Score
		penalty := routes[safest].EffectiveDurationMinutes() - routes[fastest].EffectiveDurationMinutes()
		recommendation := "either acceptable"
		if advantage > 20 {
			recommendation = "choose safest"
		}
		c.TradeOff = &TradeOff{
			TimePenaltyMinutes:    penalty,
			SafetyAdvantagePoints: advantage,
			Recommendation:        recommendation,
		}
	}

	return c
}
