package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/platform/obs"
	"fleet-safety-service/internal/ports"
)

// RedisWeatherCache memoizes weather lookups per location. Cache failures
// never block a lookup; the call falls through to the inner provider.
type RedisWeatherCache struct {
	client *redis.Client
	inner  ports.WeatherProvider
	ttl    time.Duration
}

func NewRedisWeatherCache(client *redis.Client, inner ports.WeatherProvider, ttl time.Duration) *RedisWeatherCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisWeatherCache{client: client, inner: inner, ttl: ttl}
}

func (c *RedisWeatherCache) key(location string) string {
	return "weather:" + strings.Join(strings.Fields(location), "")
}

func (c *RedisWeatherCache) GetWeather(ctx context.Context, location string) (_ domain.WeatherReport, err error) {
	defer obs.Time(ctx, "weather.cache.Get")(&err)

	key := c.key(location)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var report domain.WeatherReport
		if jerr := json.Unmarshal([]byte(raw), &report); jerr == nil {
			return report, nil
		}
		// Corrupt entry; fetch fresh and overwrite.
	} else if !errors.Is(err, redis.Nil) {
		obs.Logger.WithError(err).Warn("weather cache read failed")
	}

	report, err := c.inner.GetWeather(ctx, location)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("weather cache: inner lookup %q: %w", location, err)
	}

	if b, jerr := json.Marshal(report); jerr == nil {
		if serr := c.client.Set(ctx, key, b, c.ttl).Err(); serr != nil {
			obs.Logger.WithError(serr).Warn("weather cache write failed")
		}
	}

	return report, nil
}
