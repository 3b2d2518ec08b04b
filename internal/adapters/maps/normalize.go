package maps

import (
	"encoding/json"
	"fmt"

	"fleet-safety-service/internal/domain"
)

const metersPerMile = 1609.344

// flexValue decodes a numeric field that providers encode either as a bare
// number or as a {"value": n, "text": "..."} object.
type flexValue struct {
	Set   bool
	Value float64
}

func (f *flexValue) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.Set, f.Value = true, n
		return nil
	}

	var obj struct {
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("numeric field: %s", string(b))
	}
	f.Set, f.Value = true, obj.Value
	return nil
}

// rawRoute tolerates the field spellings seen across mapping providers.
// Bare-number duration fields are minutes; object forms carry seconds in
// "value". Distances in meters take precedence over pre-converted miles.
type rawRoute struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	Polyline string `json:"polyline"`
	Overview string `json:"overview_polyline"`
	Type     string `json:"route_type"`

	DistanceMeters flexValue `json:"distance"`
	DistanceMiles  flexValue `json:"distance_miles"`

	DurationMinutes flexValue `json:"duration_minutes"`
	Duration        flexValue `json:"duration"`

	TrafficMinutes flexValue `json:"duration_in_traffic_minutes"`
	Traffic        flexValue `json:"duration_in_traffic"`

	Legs []struct {
		Distance flexValue `json:"distance"`
		Duration flexValue `json:"duration"`
	} `json:"legs"`
}

type routeEnvelope struct {
	Routes []rawRoute `json:"routes"`
	Data   *struct {
		Routes []rawRoute `json:"routes"`
	} `json:"data"`
}

// decodeRoutes parses a directions response body into canonical candidates.
func decodeRoutes(body []byte) ([]domain.RouteCandidate, error) {
	var env routeEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	raws := env.Routes
	if len(raws) == 0 && env.Data != nil {
		raws = env.Data.Routes
	}
	if len(raws) == 0 {
		return nil, domain.ErrNoRouteFound
	}

	out := make([]domain.RouteCandidate, 0, len(raws))
	for i, r := range raws {
		out = append(out, normalizeRoute(r, i))
	}
	return out, nil
}

func normalizeRoute(r rawRoute, index int) domain.RouteCandidate {
	c := domain.RouteCandidate{
		ID:        r.ID,
		Summary:   r.Summary,
		Polyline:  r.Polyline,
		RouteType: r.Type,
	}
	if c.ID == "" {
		c.ID = fmt.Sprintf("route-%d", index)
	}
	if c.Polyline == "" {
		c.Polyline = r.Overview
	}

	switch {
	case r.DistanceMiles.Set:
		c.DistanceMiles = r.DistanceMiles.Value
	case r.DistanceMeters.Set:
		c.DistanceMiles = r.DistanceMeters.Value / metersPerMile
	default:
		for _, leg := range r.Legs {
			c.DistanceMiles += leg.Distance.Value / metersPerMile
		}
	}

	switch {
	case r.DurationMinutes.Set:
		c.DurationMinutes = r.DurationMinutes.Value
	case r.Duration.Set:
		c.DurationMinutes = r.Duration.Value / 60
	default:
		for _, leg := range r.Legs {
			c.DurationMinutes += leg.Duration.Value / 60
		}
	}

	switch {
	case r.TrafficMinutes.Set:
		c.TrafficDurationMinutes = r.TrafficMinutes.Value
	case r.Traffic.Set:
		c.TrafficDurationMinutes = r.Traffic.Value / 60
	}

	return c
}
