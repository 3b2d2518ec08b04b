package scoring

import (
	"testing"

	"fleet-safety-service/internal/config"
	"fleet-safety-service/internal/domain"
)

func corridorScorer() *Scorer {
	return NewScorer(nil, []config.Corridor{
		{Name: "M25 London Orbital", AnnualIncidents: 45, SeverityScore: 7.2},
		{Name: "M6 Midlands", AnnualIncidents: 67, SeverityScore: 6.8},
		{Name: "A9 Scotland", AnnualIncidents: 34, SeverityScore: 8.1},
		{Name: "Coastal Quietway", AnnualIncidents: 3, SeverityScore: 2.0},
		{Name: "Northern Ringway", AnnualIncidents: 9, SeverityScore: 5.0},
		{Name: "Central Artery", AnnualIncidents: 18, SeverityScore: 6.0},
	})
}

func TestCorridorMatchBuckets(t *testing.T) {
	scorer := corridorScorer()

	tests := []struct {
		summary  string
		impact   float64
		corridor string
	}{
		{"via the coastal quietway", 30, "Coastal Quietway"},
		{"northern ringway northbound", 15, "Northern Ringway"},
		{"central artery through town", 0, "Central Artery"},
		{"M25 clockwise", -20, "M25 London Orbital"},
		// A9: 21+ incidents bucket does not apply (34 > 20 -> -20), severity
		// 8.1 adds a further -10.
		{"A9 north of Perth", -30, "A9 Scotland"},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			ev := scorer.evaluateCorridor(domain.RouteCandidate{Summary: tt.summary, DistanceMiles: 50})
			if ev.Impact != tt.impact {
				t.Fatalf("impact = %v, want %v", ev.Impact, tt.impact)
			}
			if ev.Corridor != tt.corridor {
				t.Fatalf("corridor = %q, want %q", ev.Corridor, tt.corridor)
			}
			if len(ev.Factors) != 1 || ev.Factors[0].Factor != "high_incident_corridor" {
				t.Fatalf("expected high_incident_corridor factor, got %+v", ev.Factors)
			}
		})
	}
}

func TestCorridorUnmatchedExposure(t *testing.T) {
	scorer := corridorScorer()

	// 100 miles: estimated 8 incidents <= 10 awards +15.
	short := scorer.evaluateCorridor(domain.RouteCandidate{Summary: "B1 shortcut", DistanceMiles: 100})
	if short.Impact != 15 {
		t.Fatalf("short route impact = %v, want 15", short.Impact)
	}
	if short.Corridor != "standard" {
		t.Fatalf("corridor = %q, want standard", short.Corridor)
	}

	// 200 miles: estimated 16 incidents, no award.
	long := scorer.evaluateCorridor(domain.RouteCandidate{Summary: "the long way round", DistanceMiles: 200})
	if long.Impact != 0 {
		t.Fatalf("long route impact = %v, want 0", long.Impact)
	}

	// Exposure multiplier caps at 3x regardless of distance.
	extreme := scorer.evaluateCorridor(domain.RouteCandidate{Summary: "grand tour", DistanceMiles: 5000})
	if extreme.Impact != 0 {
		t.Fatalf("extreme route impact = %v, want 0", extreme.Impact)
	}
}

func TestRankCorridorsDescending(t *testing.T) {
	ranked := RankCorridors(config.Default().Corridors)

	if len(ranked) != 3 {
		t.Fatalf("ranked %d corridors, want 3", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].RiskScore > ranked[i-1].RiskScore {
			t.Fatalf("corridors not sorted by descending risk: %v after %v",
				ranked[i].RiskScore, ranked[i-1].RiskScore)
		}
	}
	// M6: 67 * 6.8 = 455.6 is the highest aggregate.
	if ranked[0].Corridor.Name != "M6 Midlands" {
		t.Fatalf("highest risk corridor = %q, want M6 Midlands", ranked[0].Corridor.Name)
	}
}
