package ports

import (
	"context"

	"fleet-safety-service/internal/domain"
)

// Contract for retrieving current weather at a location ("lat,lng" or a
// place name). Implementations must return the default clear/10C/calm/day
// report instead of an error when the underlying provider is unreachable;
// the core never fabricates weather itself.
type WeatherProvider interface {
	GetWeather(ctx context.Context, location string) (domain.WeatherReport, error)
}
