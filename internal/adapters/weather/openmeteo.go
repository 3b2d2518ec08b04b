package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/platform/obs"
)

// defaultReport is what callers receive whenever the provider is
// unreachable or the location cannot be parsed. Weather never fails a
// scoring call.
var defaultReport = domain.WeatherReport{
	Condition:    domain.WeatherClear,
	TemperatureC: 10,
	WindSpeedKmh: 0,
	IsDay:        true,
}

// OpenMeteo fetches current weather from the Open-Meteo API. Locations are
// "lat,lng" strings; anything else falls back to the default report.
type OpenMeteo struct {
	session *http.Client
	baseURL string
}

func NewOpenMeteo() *OpenMeteo {
	return &OpenMeteo{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.open-meteo.com",
	}
}

// NewOpenMeteoWithBaseURL is used by tests to point at a stub server.
func NewOpenMeteoWithBaseURL(baseURL string) *OpenMeteo {
	om := NewOpenMeteo()
	om.baseURL = baseURL
	return om
}

func (o *OpenMeteo) GetWeather(ctx context.Context, location string) (domain.WeatherReport, error) {
	report, err := o.fetch(ctx, location)
	if err != nil {
		obs.Logger.WithError(err).WithField("location", location).
			Warn("weather lookup failed, using default report")
		return defaultReport, nil
	}
	return report, nil
}

func (o *OpenMeteo) fetch(ctx context.Context, location string) (domain.WeatherReport, error) {
	lat, lng, err := parseLatLng(location)
	if err != nil {
		return domain.WeatherReport{}, err
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', 4, 64))
	q.Set("current", "temperature_2m,weather_code,wind_speed_10m,is_day")

	endpoint := o.baseURL + "/v1/forecast?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := o.session.Do(req)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.WeatherReport{}, fmt.Errorf("fetch weather: status %d", resp.StatusCode)
	}

	var payload struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			WeatherCode int     `json:"weather_code"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			IsDay       int     `json:"is_day"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("decode weather response: %w", err)
	}

	return domain.WeatherReport{
		Condition:    conditionFromWMO(payload.Current.WeatherCode),
		TemperatureC: payload.Current.Temperature,
		WindSpeedKmh: payload.Current.WindSpeed,
		IsDay:        payload.Current.IsDay == 1,
	}, nil
}

func parseLatLng(location string) (lat, lng float64, err error) {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("location %q is not lat,lng", location)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("location %q: bad latitude", location)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("location %q: bad longitude", location)
	}
	return lat, lng, nil
}

// conditionFromWMO maps WMO weather interpretation codes to the condition
// enum used by the scorer.
func conditionFromWMO(code int) domain.WeatherCondition {
	switch {
	case code <= 1:
		return domain.WeatherClear
	case code <= 3, code == 45, code == 48:
		return domain.WeatherCloudy
	case code == 56, code == 57, code == 66, code == 67:
		return domain.WeatherIce
	case code == 65, code == 82:
		return domain.WeatherHeavyRain
	case code >= 51 && code <= 64, code == 80, code == 81:
		return domain.WeatherRain
	case code >= 71 && code <= 77, code == 85, code == 86:
		return domain.WeatherSnow
	default:
		return domain.WeatherCloudy
	}
}
