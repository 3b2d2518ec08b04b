package scoring

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fleet-safety-service/internal/domain"
)

// Road characteristics evaluator, contribution range ±40.
//
// The primary path delegates to the external route-safety-factors lookup
// and maps its 0-100 tool score onto a contribution. When the lookup is
// unavailable the evaluator falls back silently to a heuristic over the
// route summary and average speed; an assessment never fails because this
// provider is down.
func (s *Scorer) evaluateRoad(ctx context.Context, route domain.RouteCandidate) evaluation {
	if s.safetyFactors != nil && route.Polyline != "" {
		factors, err := s.safetyFactors.GetRouteSafetyFactors(ctx, route.Polyline)
		if err == nil {
			impact := (factors.SafetyScore - 50) * 0.8
			if impact > 40 {
				impact = 40
			}
			if impact < -40 {
				impact = -40
			}

			rfs := make([]domain.RiskFactor, len(factors.RiskFactors))
			copy(rfs, factors.RiskFactors)
			for i := range rfs {
				if rfs[i].Impact == 0 {
					rfs[i].Impact = -5
				}
			}
			return evaluation{Impact: impact, Factors: rfs}
		}
	}

	return roadHeuristic(route)
}

var highwayDesignation = regexp.MustCompile(`^(m\d+|i-\d+|a\d+)$`)

// roadHeuristic estimates road risk from the route summary and implied
// average speed when the external lookup is unavailable.
func roadHeuristic(route domain.RouteCandidate) evaluation {
	summary := strings.ToLower(route.Summary)
	var ev evaluation

	switch {
	case summaryIsHighway(summary):
		ev.Impact += 10
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "divided_highway",
			Impact:  10,
			Details: "Divided highway or interstate routing",
		})
	case strings.Contains(summary, "local") || strings.Contains(summary, "city"):
		ev.Impact -= 5
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "local_urban_route",
			Impact:  -5,
			Details: "Local or urban roads with frequent intersections",
		})
	}

	avgSpeed := route.AvgSpeedMPH()
	if avgSpeed > 65 {
		ev.Impact -= 15
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "high_speed_route",
			Impact:  -15,
			Details: fmt.Sprintf("Average speed %.0f mph", avgSpeed),
		})
	}

	// Long but slow routes imply dense intersections and stops.
	if route.DistanceMiles > 50 && avgSpeed > 0 && avgSpeed < 35 {
		ev.Impact -= 10
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "complex_urban_route",
			Impact:  -10,
			Details: "Many intersections and stops",
		})
	}

	return ev
}

func summaryIsHighway(summary string) bool {
	for _, word := range strings.Fields(summary) {
		switch word {
		case "highway", "interstate", "motorway", "freeway":
			return true
		}
		if highwayDesignation.MatchString(word) {
			return true
		}
	}
	return false
}
