package scoring

import (
	"strings"

	"fleet-safety-service/internal/domain"
)

// recommend maps risk level and top factors onto the fixed advisory table.
func recommend(level domain.RiskLevel, factors []domain.RiskFactor, route domain.RouteCandidate) []domain.Recommendation {
	var recs []domain.Recommendation

	if level == domain.RiskHigh || level == domain.RiskCritical {
		recs = append(recs, domain.Recommendation{
			Priority: "critical",
			Action:   "Consider alternative route",
			Reason:   "Route scored " + string(level) + " risk level",
		})
	}

	for _, f := range factors {
		switch {
		case strings.Contains(f.Factor, "night"):
			recs = append(recs, domain.Recommendation{
				Priority: "high",
				Action:   "Delay departure to daylight hours",
				Reason:   "Night driving significantly increases risk",
			})
		case strings.Contains(f.Factor, "weather"):
			recs = append(recs, domain.Recommendation{
				Priority: "high",
				Action:   "Monitor weather and consider delay",
				Reason:   f.Details,
			})
		case strings.Contains(f.Factor, "inexperienced"), strings.Contains(f.Factor, "unfamiliar"):
			recs = append(recs, domain.Recommendation{
				Priority: "medium",
				Action:   "Pair with experienced driver or provide route briefing",
				Reason:   f.Details,
			})
		case strings.Contains(f.Factor, "traffic"):
			recs = append(recs, domain.Recommendation{
				Priority: "medium",
				Action:   "Adjust departure time to avoid peak traffic",
				Reason:   f.Details,
			})
		case strings.Contains(f.Factor, "high_speed"):
			recs = append(recs, domain.Recommendation{
				Priority: "medium",
				Action:   "Enable speed monitoring alerts",
				Reason:   "High-speed corridor requires extra vigilance",
			})
		case strings.Contains(f.Factor, "ev_range"):
			recs = append(recs, domain.Recommendation{
				Priority: "high",
				Action:   "Ensure full charge before departure",
				Reason:   "Cold weather reduces EV range significantly",
			})
		}
	}

	// Fatigue management on long hauls regardless of factor mix.
	if route.DistanceMiles > 400 {
		recs = append(recs, domain.Recommendation{
			Priority: "medium",
			Action:   "Plan mandatory rest stops",
			Reason:   "Long-distance route requires fatigue management",
		})
	}

	return recs
}
