package scoring

import (
	"fmt"
	"sort"
	"strings"

	"fleet-safety-service/internal/config"
	"fleet-safety-service/internal/domain"
)

// Historical corridor evaluator, contribution range ±30.
//
// The route summary is matched against the configured high-incident
// corridor table by corridor name tokens. Matched corridors score by
// annual-incident bucket with a severity surcharge; unmatched routes get a
// distance-based exposure estimate against a baseline of 8 incidents/year.
func (s *Scorer) evaluateCorridor(route domain.RouteCandidate) evaluation {
	summary := strings.ToLower(route.Summary)

	var matched *config.Corridor
	for i := range s.corridors {
		for _, token := range strings.Fields(strings.ToLower(s.corridors[i].Name)) {
			if strings.Contains(summary, token) {
				matched = &s.corridors[i]
				break
			}
		}
		if matched != nil {
			break
		}
	}

	if matched == nil {
		// Longer routes mean more exposure; capped at 3x baseline.
		exposure := route.DistanceMiles / 100
		if exposure > 3 {
			exposure = 3
		}
		estimated := 8 * exposure

		var impact float64
		if estimated <= 10 {
			impact = 15
		}
		return evaluation{Impact: impact, Corridor: "standard"}
	}

	var impact float64
	switch {
	case matched.AnnualIncidents <= 5:
		impact = 30
	case matched.AnnualIncidents <= 10:
		impact = 15
	case matched.AnnualIncidents <= 20:
		impact = 0
	default:
		impact = -20
	}

	if matched.SeverityScore > 8.0 {
		impact -= 10
	}

	return evaluation{
		Impact:   impact,
		Corridor: matched.Name,
		Factors: []domain.RiskFactor{{
			Factor: "high_incident_corridor",
			// Report only the shortfall against a clean corridor.
			Impact: impact - 30,
			Details: fmt.Sprintf("%s: %d incidents/year, severity %.1f/10",
				matched.Name, matched.AnnualIncidents, matched.SeverityScore),
		}},
	}
}

// CorridorRisk is one corridor's aggregate risk for reporting.
type CorridorRisk struct {
	Corridor  config.Corridor `json:"corridor"`
	RiskScore float64         `json:"risk_score"`
}

// RankCorridors orders the corridor table by descending aggregate risk
// (annual incidents weighted by severity).
func RankCorridors(corridors []config.Corridor) []CorridorRisk {
	out := make([]CorridorRisk, 0, len(corridors))
	for _, c := range corridors {
		out = append(out, CorridorRisk{
			Corridor:  c,
			RiskScore: float64(c.AnnualIncidents) * c.SeverityScore,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RiskScore > out[j].RiskScore
	})
	return out
}
