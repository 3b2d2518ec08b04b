package dto

import (
	"fmt"
	"time"

	"fleet-safety-service/internal/domain"
)

// RouteDTO is a route candidate as submitted by callers.
type RouteDTO struct {
	ID                     string  `json:"id"`
	Summary                string  `json:"summary"`
	Polyline               string  `json:"polyline"`
	DistanceMiles          float64 `json:"distance_miles"`
	DurationMinutes        float64 `json:"duration_minutes"`
	TrafficDurationMinutes float64 `json:"duration_in_traffic_minutes"`
	RouteType              string  `json:"route_type"`
}

func (r RouteDTO) ToDomain() domain.RouteCandidate {
	return domain.RouteCandidate{
		ID:                     r.ID,
		Summary:                r.Summary,
		Polyline:               r.Polyline,
		DistanceMiles:          r.DistanceMiles,
		DurationMinutes:        r.DurationMinutes,
		TrafficDurationMinutes: r.TrafficDurationMinutes,
		RouteType:              r.RouteType,
	}
}

// DriverDTO is the driver profile portion of a scoring request.
type DriverDTO struct {
	YearsExperience       float64 `json:"years_experience"`
	TimesDrivenRoute      int     `json:"times_driven_route"`
	IncidentsPer100kMiles float64 `json:"incidents_per_100k_miles"`
}

func (d DriverDTO) ToDomain() domain.DriverProfile {
	return domain.DriverProfile{
		YearsExperience:       d.YearsExperience,
		TimesDrivenRoute:      d.TimesDrivenRoute,
		IncidentsPer100kMiles: d.IncidentsPer100kMiles,
	}
}

// ConditionsDTO overrides the snapshot normally derived from live weather.
type ConditionsDTO struct {
	Hour         int     `json:"hour"`
	Weekday      int     `json:"weekday"`
	Weather      string  `json:"weather"`
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	IsDay        bool    `json:"is_day"`
}

func (c ConditionsDTO) ToDomain() (domain.ConditionsSnapshot, error) {
	w := domain.WeatherCondition(c.Weather)
	switch w {
	case domain.WeatherClear, domain.WeatherCloudy, domain.WeatherRain,
		domain.WeatherHeavyRain, domain.WeatherSnow, domain.WeatherIce:
	default:
		return domain.ConditionsSnapshot{}, fmt.Errorf("%w: unknown weather condition %q", domain.ErrValidation, c.Weather)
	}
	if c.Hour < 0 || c.Hour > 23 {
		return domain.ConditionsSnapshot{}, fmt.Errorf("%w: hour must be 0-23", domain.ErrValidation)
	}
	return domain.ConditionsSnapshot{
		Hour:         c.Hour,
		Weekday:      time.Weekday(c.Weekday),
		Weather:      w,
		TemperatureC: c.TemperatureC,
		WindSpeedKmh: c.WindSpeedKmh,
		IsDay:        c.IsDay,
	}, nil
}

// ScoreRequest scores one route. Conditions are optional; when omitted the
// service derives them from live weather at the given location.
type ScoreRequest struct {
	Route       RouteDTO       `json:"route"`
	Driver      DriverDTO      `json:"driver"`
	VehicleType string         `json:"vehicle_type"`
	Location    string         `json:"location"`
	Conditions  *ConditionsDTO `json:"conditions"`
}

// RankRequest ranks several candidates under a selection policy.
type RankRequest struct {
	Routes      []RouteDTO     `json:"routes"`
	Driver      DriverDTO      `json:"driver"`
	VehicleType string         `json:"vehicle_type"`
	Location    string         `json:"location"`
	Policy      string         `json:"policy"`
	Conditions  *ConditionsDTO `json:"conditions"`
}
