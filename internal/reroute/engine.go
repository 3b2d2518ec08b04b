package reroute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fleet-safety-service/internal/config"
	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/platform/obs"
	"fleet-safety-service/internal/ports"
)

// Battery level below which an EV trip raises a critical incident.
const lowBatteryPct = 10

// Maximum trips checked concurrently per monitoring cycle.
const monitorConcurrency = 8

// Incident is a reported disruption on the current route.
type Incident struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"` // "critical", "major", "minor"
	Description string `json:"description"`
}

// ConditionCheck is the outcome of checking one trip's current conditions.
// Err is set when an external fetch failed; the check then degrades to "no
// reroute recommended" instead of failing the cycle.
type ConditionCheck struct {
	RerouteRecommended bool       `json:"reroute_recommended"`
	Reason             string     `json:"reason,omitempty"`
	DelayMinutes       float64    `json:"delay_minutes"`
	CurrentEtaMinutes  float64    `json:"current_eta_minutes"`
	TrafficLevel       string     `json:"traffic_level"`
	Incidents          []Incident `json:"incidents,omitempty"`
	Err                string     `json:"error,omitempty"`
}

// BenefitResult is the cost/benefit evaluation of the best alternative.
type BenefitResult struct {
	ShouldReroute       bool                   `json:"should_reroute"`
	Reason              string                 `json:"reason"`
	Route               *domain.RouteCandidate `json:"route,omitempty"`
	TimeSavingsMinutes  float64                `json:"time_savings_minutes"`
	DistanceIncreasePct float64                `json:"distance_increase_pct"`
	BenefitScore        float64                `json:"benefit_score"`
}

// TripReport is the per-trip result of one monitoring cycle.
type TripReport struct {
	TripID    string                `json:"trip_id"`
	VehicleID string                `json:"vehicle_id"`
	Check     ConditionCheck        `json:"conditions"`
	Rerouted  bool                  `json:"rerouted"`
	Record    *domain.RerouteRecord `json:"reroute,omitempty"`
	Err       string                `json:"error,omitempty"`
}

// Engine monitors active trips and commits reroutes. It is the single
// writer of trip state; concurrent cycles for different trips never touch
// the same key.
type Engine struct {
	trips      ports.TripStore
	directions ports.DirectionsProvider
	battery    ports.BatteryStatusSource
	history    ports.RerouteHistory
	cfg        config.RerouteConfig
	now        func() time.Time
}

func NewEngine(
	trips ports.TripStore,
	directions ports.DirectionsProvider,
	battery ports.BatteryStatusSource,
	history ports.RerouteHistory,
	cfg config.RerouteConfig,
) *Engine {
	return &Engine{
		trips:      trips,
		directions: directions,
		battery:    battery,
		history:    history,
		cfg:        cfg,
		now:        time.Now,
	}
}

// AddTrip registers a trip for monitoring.
func (e *Engine) AddTrip(ctx context.Context, trip *domain.TripState) error {
	if err := trip.Validate(); err != nil {
		return fmt.Errorf("add trip: %w", err)
	}
	if trip.StartedAt.IsZero() {
		trip.StartedAt = e.now()
	}
	if trip.PlannedRemainingMinutes <= 0 {
		trip.PlannedRemainingMinutes = trip.CurrentRoute.EffectiveDurationMinutes()
	}
	if err := e.trips.Put(ctx, trip); err != nil {
		return fmt.Errorf("add trip %s: %w", trip.TripID, err)
	}
	return nil
}

// RemoveTrip drops a trip from the active set.
func (e *Engine) RemoveTrip(ctx context.Context, tripID string) error {
	if err := e.trips.Remove(ctx, tripID); err != nil {
		return fmt.Errorf("remove trip %s: %w", tripID, err)
	}
	return nil
}

// Trips returns the active-trip set.
func (e *Engine) Trips(ctx context.Context) ([]*domain.TripState, error) {
	return e.trips.List(ctx)
}

// MonitorCycle runs one monitoring pass over every active trip. Trips are
// checked concurrently; a failure on one trip is recorded in its report and
// never aborts the cycle. The returned slice has one report per trip.
func (e *Engine) MonitorCycle(ctx context.Context) (reports []TripReport, err error) {
	defer obs.Time(ctx, "monitorActiveTrips")(&err)

	trips, err := e.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("monitor cycle: list trips: %w", err)
	}

	reports = make([]TripReport, len(trips))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(monitorConcurrency)
	for i, trip := range trips {
		g.Go(func() error {
			reports[i] = e.monitorTrip(gctx, trip)
			return nil
		})
	}
	_ = g.Wait() // workers record failures in their report, never return them

	return reports, nil
}

func (e *Engine) monitorTrip(ctx context.Context, trip *domain.TripState) TripReport {
	report := TripReport{TripID: trip.TripID, VehicleID: trip.VehicleID}

	check := e.CheckConditions(ctx, trip)
	report.Check = check
	if !check.RerouteRecommended {
		return report
	}

	benefit := e.CalculateBenefit(ctx, trip, check)
	if !benefit.ShouldReroute {
		report.Err = check.Err
		return report
	}

	rec, err := e.commit(ctx, trip, benefit, "monitor", check.Reason)
	if err != nil {
		report.Err = err.Error()
		return report
	}

	report.Rerouted = true
	report.Record = rec
	return report
}

// CheckConditions fetches current traffic for the trip's remaining route and
// decides whether a reroute should be evaluated. External failures degrade
// to a non-recommendation with Err set; the cycle always gets an answer.
func (e *Engine) CheckConditions(ctx context.Context, trip *domain.TripState) ConditionCheck {
	fctx, cancel := e.fetchContext(ctx)
	defer cancel()

	routes, err := e.directions.GetDirections(fctx, ports.DirectionsRequest{
		Origin:        trip.MonitorLocation(),
		Destination:   trip.Destination,
		DepartureTime: e.now(),
	})
	if err != nil || len(routes) == 0 {
		check := ConditionCheck{TrafficLevel: "unknown"}
		if err != nil {
			check.Err = fmt.Sprintf("fetch conditions: %v", err)
		} else {
			check.Err = "fetch conditions: no route data"
		}
		return check
	}

	current := routes[0]
	eta := current.EffectiveDurationMinutes()
	delay := eta - trip.PlannedRemainingMinutes

	check := ConditionCheck{
		DelayMinutes:      delay,
		CurrentEtaMinutes: eta,
		TrafficLevel:      trafficLevel(current.TrafficDelayPct()),
	}

	if trip.VehicleType.IsElectric() {
		if inc := e.batteryIncident(ctx, trip.VehicleID); inc != nil {
			check.Incidents = append(check.Incidents, *inc)
		}
	}

	switch {
	case delay > e.cfg.DelayTriggerMinutes:
		check.RerouteRecommended = true
		check.Reason = fmt.Sprintf("delay of %.0f minutes exceeds threshold", delay)
	case check.TrafficLevel == "heavy" && delay > e.cfg.HeavyTrafficDelayMinutes:
		check.RerouteRecommended = true
		check.Reason = fmt.Sprintf("heavy traffic with %.0f minute delay", delay)
	case hasCriticalIncident(check.Incidents):
		check.RerouteRecommended = true
		check.Reason = check.Incidents[0].Description
	}

	return check
}

// trafficLevel derives a coarse level from the traffic delay percentage of
// the refreshed route, since the mapping provider reports no level directly.
func trafficLevel(delayPct float64) string {
	switch {
	case delayPct > 50:
		return "heavy"
	case delayPct > 20:
		return "moderate"
	default:
		return "light"
	}
}

func (e *Engine) batteryIncident(ctx context.Context, vehicleID string) *Incident {
	status, err := e.battery.BatteryStatus(ctx, vehicleID)
	if err != nil || !status.Known {
		return nil
	}
	if status.LevelPct >= lowBatteryPct {
		return nil
	}
	return &Incident{
		Type:        "low_battery",
		Severity:    "critical",
		Description: fmt.Sprintf("Battery at %.0f%%, below %d%% reserve", status.LevelPct, lowBatteryPct),
	}
}

func hasCriticalIncident(incidents []Incident) bool {
	for _, inc := range incidents {
		if inc.Severity == "critical" || inc.Severity == "major" {
			return true
		}
	}
	return false
}

// CalculateBenefit evaluates alternative routes against the current route.
// Alternatives more than the configured percentage longer are discarded; the
// rest compete on benefitScore = timeSavings - distanceIncreasePct*30.
func (e *Engine) CalculateBenefit(ctx context.Context, trip *domain.TripState, check ConditionCheck) BenefitResult {
	fctx, cancel := e.fetchContext(ctx)
	defer cancel()

	routes, err := e.directions.GetDirections(fctx, ports.DirectionsRequest{
		Origin:        trip.MonitorLocation(),
		Destination:   trip.Destination,
		DepartureTime: e.now(),
		Alternatives:  true,
	})
	if err != nil {
		return BenefitResult{Reason: fmt.Sprintf("fetch alternatives: %v", err)}
	}
	if len(routes) < 2 {
		return BenefitResult{Reason: "no alternative routes available"}
	}

	current := routes[0]
	currentEta := current.EffectiveDurationMinutes()

	var best *domain.RouteCandidate
	bestBenefit := 0.0
	bestSavings := 0.0
	bestIncrease := 0.0

	for i := 1; i < len(routes); i++ {
		alt := routes[i]

		increasePct := 0.0
		if current.DistanceMiles > 0 {
			increasePct = (alt.DistanceMiles - current.DistanceMiles) / current.DistanceMiles * 100
		}
		if increasePct > e.cfg.MaxAdditionalDistancePct*100 {
			continue
		}

		savings := currentEta - alt.EffectiveDurationMinutes()
		b := savings - (increasePct/100)*30
		if b > bestBenefit {
			best = &routes[i]
			bestBenefit = b
			bestSavings = savings
			bestIncrease = increasePct
		}
	}

	if best == nil {
		return BenefitResult{Reason: "no alternative within distance limit"}
	}

	result := BenefitResult{
		Route:               best,
		TimeSavingsMinutes:  bestSavings,
		DistanceIncreasePct: bestIncrease,
		BenefitScore:        bestBenefit,
	}

	switch {
	case bestSavings >= e.cfg.MinTimeSavingsMinutes:
		result.ShouldReroute = true
		result.Reason = fmt.Sprintf("alternative saves %.0f minutes", bestSavings)
	case hasCriticalIncident(check.Incidents):
		result.ShouldReroute = true
		result.Reason = "critical incident on current route"
	default:
		result.Reason = fmt.Sprintf("best alternative saves only %.0f minutes", bestSavings)
	}

	return result
}

// commit swaps the trip onto the new route, records history, and builds the
// driver notification. Trip mutation happens under the store's key lock.
func (e *Engine) commit(ctx context.Context, trip *domain.TripState, benefit BenefitResult, kind, reason string) (*domain.RerouteRecord, error) {
	now := e.now()
	newRoute := *benefit.Route

	priority := "normal"
	if kind == "emergency" {
		priority = "critical"
	}

	rec := domain.RerouteRecord{
		ID:                 uuid.NewString(),
		TripID:             trip.TripID,
		VehicleID:          trip.VehicleID,
		Timestamp:          now,
		Kind:               kind,
		Reason:             reason,
		OldRouteID:         trip.CurrentRoute.ID,
		NewRouteID:         newRoute.ID,
		TimeSavingsMinutes: benefit.TimeSavingsMinutes,
		Notification: domain.Notification{
			TripID:    trip.TripID,
			VehicleID: trip.VehicleID,
			DriverID:  trip.DriverID,
			Type:      "reroute",
			Priority:  priority,
			Message:   notifyMessage(kind, reason, benefit, newRoute),
			SentAt:    now,
		},
	}

	err := e.trips.Update(ctx, trip.TripID, func(t *domain.TripState) error {
		t.CurrentRoute = newRoute
		t.RemainingPolyline = newRoute.Polyline
		t.PlannedRemainingMinutes = newRoute.EffectiveDurationMinutes()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit reroute %s: %w", trip.TripID, err)
	}

	if err := e.history.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("commit reroute %s: record history: %w", trip.TripID, err)
	}

	return &rec, nil
}

func notifyMessage(kind, reason string, benefit BenefitResult, route domain.RouteCandidate) string {
	if kind == "emergency" {
		return fmt.Sprintf("EMERGENCY REROUTE: %s. Switch to %s immediately.", reason, route.Summary)
	}
	return fmt.Sprintf("Route updated: %s. New route %s saves %.0f minutes.", reason, route.Summary, benefit.TimeSavingsMinutes)
}

// EmergencyResult is the outcome of an emergency reroute request.
type EmergencyResult struct {
	Success        bool                  `json:"success"`
	Record         *domain.RerouteRecord `json:"reroute,omitempty"`
	Recommendation string                `json:"recommendation,omitempty"`
}

// EmergencyReroute immediately switches the vehicle's trip to the first
// available alternative, bypassing benefit thresholds. When no alternative
// exists, the vehicle is instructed to stop.
func (e *Engine) EmergencyReroute(ctx context.Context, vehicleID, reason string) (result EmergencyResult, err error) {
	defer obs.Time(ctx, "emergencyReroute")(&err)

	trip, err := e.trips.ByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownEntity) {
			return EmergencyResult{}, fmt.Errorf("emergency reroute: no active trip for vehicle %s: %w", vehicleID, err)
		}
		return EmergencyResult{}, fmt.Errorf("emergency reroute: lookup vehicle %s: %w", vehicleID, err)
	}

	fctx, cancel := e.fetchContext(ctx)
	routes, ferr := e.directions.GetDirections(fctx, ports.DirectionsRequest{
		Origin:        trip.MonitorLocation(),
		Destination:   trip.Destination,
		DepartureTime: e.now(),
		Alternatives:  true,
	})
	cancel()

	if ferr != nil || len(routes) < 2 {
		return EmergencyResult{
			Success:        false,
			Recommendation: "No alternative route available; vehicle should stop and await instructions",
		}, nil
	}

	alt := routes[1]
	savings := routes[0].EffectiveDurationMinutes() - alt.EffectiveDurationMinutes()

	rec, err := e.commit(ctx, trip, BenefitResult{Route: &alt, TimeSavingsMinutes: savings}, "emergency", reason)
	if err != nil {
		return EmergencyResult{}, fmt.Errorf("emergency reroute vehicle %s: %w", vehicleID, err)
	}

	return EmergencyResult{Success: true, Record: rec}, nil
}

// History returns committed reroutes for one trip.
func (e *Engine) History(ctx context.Context, tripID string) ([]domain.RerouteRecord, error) {
	recs, err := e.history.ByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("reroute history %s: %w", tripID, err)
	}
	return recs, nil
}

func (e *Engine) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(e.cfg.FetchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
