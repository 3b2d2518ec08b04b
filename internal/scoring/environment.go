package scoring

import (
	"fmt"

	"fleet-safety-service/internal/domain"
)

// weatherMultipliers are relative incident-rate multipliers versus clear
// conditions.
var weatherMultipliers = map[domain.WeatherCondition]float64{
	domain.WeatherClear:     1.0,
	domain.WeatherCloudy:    1.0,
	domain.WeatherRain:      2.1,
	domain.WeatherHeavyRain: 3.4,
	domain.WeatherSnow:      4.2,
	domain.WeatherIce:       5.8,
}

// Environmental conditions evaluator, contribution range ±20.
//
// Covers time of day, weather, wind, EV cold-weather range risk, and the
// route's current traffic delay.
func evaluateEnvironment(
	route domain.RouteCandidate,
	conditions domain.ConditionsSnapshot,
	vehicle domain.VehicleProfile,
) evaluation {
	var ev evaluation

	switch {
	case !conditions.IsDay:
		ev.Impact -= 15
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "night_driving",
			Impact:  -15,
			Details: "Night driving significantly increases risk",
		})
	case conditions.DuskOrDawn():
		ev.Impact -= 5
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "low_visibility_time",
			Impact:  -5,
			Details: "Dusk/dawn period with reduced visibility",
		})
	default:
		ev.Impact += 10
	}

	if conditions.Weather != domain.WeatherClear {
		multiplier, ok := weatherMultipliers[conditions.Weather]
		if !ok {
			multiplier = 1.0
		}
		impact := -10 * (multiplier - 1.0)
		ev.Impact += impact
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor: "adverse_weather_" + string(conditions.Weather),
			Impact: impact,
			Details: fmt.Sprintf("Weather conditions: %s (%.1fx risk multiplier)",
				conditions.Weather, multiplier),
		})
	} else {
		ev.Impact += 10
	}

	if conditions.WindSpeedKmh > 50 {
		ev.Impact -= 10
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "high_winds",
			Impact:  -10,
			Details: fmt.Sprintf("Wind speeds of %.0f km/h detected", conditions.WindSpeedKmh),
		})
	}

	// Cold weather cuts EV range.
	coldRisk := conditions.Weather == domain.WeatherSnow ||
		conditions.Weather == domain.WeatherIce ||
		conditions.TemperatureC < 0
	if vehicle.Type.IsElectric() && coldRisk {
		ev.Impact -= 5
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "ev_range_risk_cold",
			Impact:  -5,
			Details: "Cold weather significantly reduces EV range",
		})
	}

	delayPct := route.TrafficDelayPct()
	switch {
	case delayPct > 50:
		ev.Impact -= 10
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "heavy_traffic",
			Impact:  -10,
			Details: fmt.Sprintf("%.0f%% traffic delay", delayPct),
		})
	case delayPct > 20:
		ev.Impact -= 5
		ev.Factors = append(ev.Factors, domain.RiskFactor{
			Factor:  "moderate_traffic",
			Impact:  -5,
			Details: fmt.Sprintf("%.0f%% traffic delay", delayPct),
		})
	}

	return ev
}
