package maps

import (
	"errors"
	"testing"

	"fleet-safety-service/internal/domain"
)

func TestDecodeRoutesFlatMinutes(t *testing.T) {
	body := []byte(`{
		"routes": [
			{
				"id": "r1",
				"summary": "M1 motorway",
				"polyline": "abc",
				"distance_miles": 200,
				"duration_minutes": 240,
				"duration_in_traffic_minutes": 260
			}
		]
	}`)

	routes, err := decodeRoutes(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}

	r := routes[0]
	if r.ID != "r1" || r.Summary != "M1 motorway" || r.Polyline != "abc" {
		t.Fatalf("identity fields wrong: %+v", r)
	}
	if r.DistanceMiles != 200 || r.DurationMinutes != 240 || r.TrafficDurationMinutes != 260 {
		t.Fatalf("numeric fields wrong: %+v", r)
	}
}

func TestDecodeRoutesEnvelopeWithValueObjects(t *testing.T) {
	// Wrapped in a data envelope, meters and seconds in value objects.
	body := []byte(`{
		"data": {
			"routes": [
				{
					"summary": "A1 north",
					"overview_polyline": "xyz",
					"distance": {"value": 160934.4, "text": "100 mi"},
					"duration": {"value": 7200},
					"duration_in_traffic": {"value": 9000}
				}
			]
		}
	}`)

	routes, err := decodeRoutes(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := routes[0]
	if r.ID != "route-0" {
		t.Fatalf("id = %q, want generated route-0", r.ID)
	}
	if r.Polyline != "xyz" {
		t.Fatalf("polyline = %q, want overview fallback", r.Polyline)
	}
	if diff := r.DistanceMiles - 100; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("distance = %v, want 100 miles", r.DistanceMiles)
	}
	if r.DurationMinutes != 120 {
		t.Fatalf("duration = %v, want 120 minutes", r.DurationMinutes)
	}
	if r.TrafficDurationMinutes != 150 {
		t.Fatalf("traffic duration = %v, want 150 minutes", r.TrafficDurationMinutes)
	}
}

func TestDecodeRoutesLegTotals(t *testing.T) {
	body := []byte(`{
		"routes": [
			{
				"summary": "two leg run",
				"legs": [
					{"distance": {"value": 80467.2}, "duration": {"value": 3600}},
					{"distance": {"value": 80467.2}, "duration": {"value": 1800}}
				]
			}
		]
	}`)

	routes, err := decodeRoutes(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := routes[0]
	if diff := r.DistanceMiles - 100; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("distance = %v, want 100 miles from legs", r.DistanceMiles)
	}
	if r.DurationMinutes != 90 {
		t.Fatalf("duration = %v, want 90 minutes from legs", r.DurationMinutes)
	}
}

func TestDecodeRoutesEmpty(t *testing.T) {
	_, err := decodeRoutes([]byte(`{"routes": []}`))
	if !errors.Is(err, domain.ErrNoRouteFound) {
		t.Fatalf("err = %v, want ErrNoRouteFound", err)
	}

	_, err = decodeRoutes([]byte(`not json`))
	if err == nil {
		t.Fatal("expected decode error for invalid json")
	}
}
