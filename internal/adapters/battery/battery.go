package battery

import (
	"context"
	"math/rand"
	"sync"

	"fleet-safety-service/internal/ports"
)

// SimulatedSource fabricates battery readings for demo deployments with no
// real telemetry feed. With the given probability a vehicle reads critically
// low; otherwise it reads a comfortable level. Seeded for reproducibility.
type SimulatedSource struct {
	mu      sync.Mutex
	rng     *rand.Rand
	lowProb float64
}

func NewSimulatedSource(seed int64, lowProb float64) *SimulatedSource {
	return &SimulatedSource{
		rng:     rand.New(rand.NewSource(seed)),
		lowProb: lowProb,
	}
}

func (s *SimulatedSource) BatteryStatus(ctx context.Context, vehicleID string) (ports.BatteryStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() < s.lowProb {
		return ports.BatteryStatus{Known: true, LevelPct: 5 + s.rng.Float64()*4}, nil
	}
	return ports.BatteryStatus{Known: true, LevelPct: 40 + s.rng.Float64()*55}, nil
}

// StaticSource returns fixed per-vehicle levels. Vehicles without an entry
// report an unknown status.
type StaticSource struct {
	Levels map[string]float64
}

func (s *StaticSource) BatteryStatus(ctx context.Context, vehicleID string) (ports.BatteryStatus, error) {
	level, ok := s.Levels[vehicleID]
	if !ok {
		return ports.BatteryStatus{}, nil
	}
	return ports.BatteryStatus{Known: true, LevelPct: level}, nil
}
