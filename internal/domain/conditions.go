package domain

import "time"

// WeatherCondition is the simplified condition vocabulary shared with the
// weather provider boundary.
type WeatherCondition string

const (
	WeatherClear     WeatherCondition = "clear"
	WeatherCloudy    WeatherCondition = "cloudy"
	WeatherRain      WeatherCondition = "rain"
	WeatherHeavyRain WeatherCondition = "heavy_rain"
	WeatherSnow      WeatherCondition = "snow"
	WeatherIce       WeatherCondition = "ice"
)

// WeatherReport is the normalized output of the weather provider.
type WeatherReport struct {
	Condition    WeatherCondition `json:"condition"`
	TemperatureC float64          `json:"temperature_c"`
	WindSpeedKmh float64          `json:"wind_speed_kmh"`
	IsDay        bool             `json:"is_day"`
}

// ConditionsSnapshot captures the moment a scoring call happens.
// It is constructed per call and never persisted.
type ConditionsSnapshot struct {
	Hour         int              `json:"hour"`
	Weekday      time.Weekday     `json:"weekday"`
	Weather      WeatherCondition `json:"weather"`
	TemperatureC float64          `json:"temperature_c"`
	WindSpeedKmh float64          `json:"wind_speed_kmh"`
	IsDay        bool             `json:"is_day"`
}

// SnapshotAt combines a weather report with a clock reading.
func SnapshotAt(w WeatherReport, t time.Time) ConditionsSnapshot {
	return ConditionsSnapshot{
		Hour:         t.Hour(),
		Weekday:      t.Weekday(),
		Weather:      w.Condition,
		TemperatureC: w.TemperatureC,
		WindSpeedKmh: w.WindSpeedKmh,
		IsDay:        w.IsDay,
	}
}

// DuskOrDawn reports whether the hour falls in the reduced-visibility
// windows 06:00-08:00 and 18:00-20:00.
func (c ConditionsSnapshot) DuskOrDawn() bool {
	return (c.Hour >= 6 && c.Hour < 8) || (c.Hour >= 18 && c.Hour < 20)
}
