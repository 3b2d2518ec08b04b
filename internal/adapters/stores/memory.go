package stores

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fleet-safety-service/internal/domain"
)

// MemoryTripStore is the in-process active-trip map. Mutations happen under
// a single lock; the trip set is small (one entry per vehicle on the road).
type MemoryTripStore struct {
	mu    sync.RWMutex
	trips map[string]*domain.TripState
}

func NewMemoryTripStore() *MemoryTripStore {
	return &MemoryTripStore{trips: make(map[string]*domain.TripState)}
}

func (s *MemoryTripStore) Put(ctx context.Context, trip *domain.TripState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *trip
	s.trips[trip.TripID] = &cp
	return nil
}

func (s *MemoryTripStore) Get(ctx context.Context, tripID string) (*domain.TripState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[tripID]
	if !ok {
		return nil, fmt.Errorf("trip %s: %w", tripID, domain.ErrUnknownEntity)
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryTripStore) ByVehicle(ctx context.Context, vehicleID string) (*domain.TripState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.trips {
		if t.VehicleID == vehicleID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("vehicle %s: %w", vehicleID, domain.ErrUnknownEntity)
}

func (s *MemoryTripStore) List(ctx context.Context) ([]*domain.TripState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.TripState, 0, len(s.trips))
	for _, t := range s.trips {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TripID < out[j].TripID })
	return out, nil
}

func (s *MemoryTripStore) Remove(ctx context.Context, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[tripID]; !ok {
		return fmt.Errorf("trip %s: %w", tripID, domain.ErrUnknownEntity)
	}
	delete(s.trips, tripID)
	return nil
}

func (s *MemoryTripStore) Update(ctx context.Context, tripID string, fn func(*domain.TripState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return fmt.Errorf("trip %s: %w", tripID, domain.ErrUnknownEntity)
	}
	if err := fn(t); err != nil {
		return err
	}
	return nil
}

// MemoryRiskStore keeps per-vehicle risk averages with key-sharded locking
// so concurrent telemetry for different vehicles never contends.
type MemoryRiskStore struct {
	shards [riskShards]struct {
		mu sync.Mutex
		m  map[string]float64
	}
}

const riskShards = 16

func NewMemoryRiskStore() *MemoryRiskStore {
	s := &MemoryRiskStore{}
	for i := range s.shards {
		s.shards[i].m = make(map[string]float64)
	}
	return s
}

func shardIndex(key string) int {
	h := uint32(2166136261)
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return int(h % riskShards)
}

func (s *MemoryRiskStore) Average(ctx context.Context, vehicleID string) (float64, bool, error) {
	shard := &s.shards[shardIndex(vehicleID)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	v, ok := shard.m[vehicleID]
	return v, ok, nil
}

func (s *MemoryRiskStore) Update(ctx context.Context, vehicleID string, fn func(old float64, ok bool) float64) (float64, error) {
	shard := &s.shards[shardIndex(vehicleID)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	old, ok := shard.m[vehicleID]
	next := fn(old, ok)
	shard.m[vehicleID] = next
	return next, nil
}

// MemoryFatigueStore keeps per-driver shift state under a single lock.
type MemoryFatigueStore struct {
	mu sync.Mutex
	m  map[string]domain.FatigueState
}

func NewMemoryFatigueStore() *MemoryFatigueStore {
	return &MemoryFatigueStore{m: make(map[string]domain.FatigueState)}
}

func (s *MemoryFatigueStore) Get(ctx context.Context, driverID string) (domain.FatigueState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[driverID]
	return st, ok, nil
}

func (s *MemoryFatigueStore) Update(ctx context.Context, driverID string, fn func(state domain.FatigueState, ok bool) domain.FatigueState) (domain.FatigueState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.m[driverID]
	next := fn(old, ok)
	s.m[driverID] = next
	return next, nil
}

// MemoryRerouteHistory is an append-only in-memory history, used in tests
// and single-process demos.
type MemoryRerouteHistory struct {
	mu   sync.Mutex
	recs []domain.RerouteRecord
}

func NewMemoryRerouteHistory() *MemoryRerouteHistory {
	return &MemoryRerouteHistory{}
}

func (s *MemoryRerouteHistory) Append(ctx context.Context, rec domain.RerouteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemoryRerouteHistory) ByTrip(ctx context.Context, tripID string) ([]domain.RerouteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RerouteRecord
	for _, r := range s.recs {
		if r.TripID == tripID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryRerouteHistory) Recent(ctx context.Context, limit int) ([]domain.RerouteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.recs) {
		limit = len(s.recs)
	}
	out := make([]domain.RerouteRecord, limit)
	copy(out, s.recs[len(s.recs)-limit:])
	return out, nil
}
