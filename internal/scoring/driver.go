package scoring

import (
	"fmt"

	"fleet-safety-service/internal/domain"
)

// Driver fit evaluator, contribution range ±10.
//
// Combines experience level, familiarity with this specific route, and the
// driver's historical incident rate.
func evaluateDriver(driver domain.DriverProfile) evaluation {
	var ev evaluation

	switch {
	case driver.YearsExperience >= 5:
		ev.Impact += 10
	case driver.YearsExperience >= 2:
		ev.Impact += 5
	default:
		ev.Impact -= 5
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "inexperienced_driver",
			Impact:  -5,
			Details: fmt.Sprintf("Driver has only %.1f years experience", driver.YearsExperience),
		})
	}

	switch {
	case driver.TimesDrivenRoute >= 10:
		ev.Impact += 5
	case driver.TimesDrivenRoute >= 1:
		ev.Impact += 2
	default:
		ev.Impact -= 3
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "unfamiliar_route",
			Impact:  -3,
			Details: "Driver has never driven this route",
		})
	}

	switch {
	case driver.IncidentsPer100kMiles < 0.5:
		ev.Impact += 5
	case driver.IncidentsPer100kMiles > 1.0:
		ev.Impact -= 10
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "poor_safety_record",
			Impact:  -10,
			Details: fmt.Sprintf("Driver incident rate: %.2f per 100k miles", driver.IncidentsPer100kMiles),
		})
	}

	return ev
}
