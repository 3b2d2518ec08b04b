package riskagg

import (
	"context"
	"fmt"
	"time"

	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/ports"
)

// Telemetry decay and smoothing parameters. Events older than the decay
// window contribute nothing; the stored average is an exponential moving
// average so the history store only ever holds one number per vehicle.
const (
	decayWindow      = 30 * time.Minute
	emaWeight        = 0.1
	deviationTrigger = 0.5 // raw score >50% above average amplifies
	amplification    = 1.2
)

// Aggregator maintains the decaying per-vehicle composite risk score and
// the per-driver fatigue state machine. All persistent state lives behind
// the injected stores; per-key read-modify-write is atomic there.
type Aggregator struct {
	risk    ports.RiskStore
	fatigue ports.FatigueStore
	now     func() time.Time
}

func NewAggregator(risk ports.RiskStore, fatigue ports.FatigueStore) *Aggregator {
	return &Aggregator{risk: risk, fatigue: fatigue, now: time.Now}
}

// UpdateVehicleRisk scores a batch of recent telemetry events for one
// vehicle, folds the result into the stored running average, and returns
// the classified composite risk.
func (a *Aggregator) UpdateVehicleRisk(
	ctx context.Context,
	vehicleID string,
	events []domain.TelemetryEvent,
) (domain.VehicleRiskStatus, error) {
	if vehicleID == "" {
		return domain.VehicleRiskStatus{}, fmt.Errorf("update vehicle risk: %w: empty vehicle id", domain.ErrValidation)
	}

	now := a.now()

	raw := 0.0
	for _, ev := range events {
		age := now.Sub(ev.Timestamp)
		decay := 1 - age.Minutes()/decayWindow.Minutes()
		if decay <= 0 {
			continue
		}
		if decay > 1 {
			decay = 1
		}
		for _, sig := range ClassifySignals(ev) {
			raw += sig.Severity.Weight() * decay
		}
	}

	var deviation *float64
	score := raw

	_, err := a.risk.Update(ctx, vehicleID, func(old float64, ok bool) float64 {
		if ok && old > 0 {
			d := (raw - old) / old
			deviation = &d
			if d > deviationTrigger {
				// Sudden deterioration versus the vehicle's own baseline.
				score = raw * amplification
			}
		}
		return score*emaWeight + old*(1-emaWeight)
	})
	if err != nil {
		return domain.VehicleRiskStatus{}, fmt.Errorf("update vehicle risk: store %s: %w", vehicleID, err)
	}

	return domain.VehicleRiskStatus{
		VehicleID:            vehicleID,
		Score:                score,
		Level:                classifyComposite(score),
		DeviationFromAverage: deviation,
	}, nil
}

// VehicleRiskStatus returns the stored running average as the vehicle's
// current risk view, without ingesting new events.
func (a *Aggregator) VehicleRiskStatus(ctx context.Context, vehicleID string) (domain.VehicleRiskStatus, error) {
	avg, ok, err := a.risk.Average(ctx, vehicleID)
	if err != nil {
		return domain.VehicleRiskStatus{}, fmt.Errorf("vehicle risk status: store %s: %w", vehicleID, err)
	}
	if !ok {
		avg = 0
	}
	return domain.VehicleRiskStatus{
		VehicleID: vehicleID,
		Score:     avg,
		Level:     classifyComposite(avg),
	}, nil
}

func classifyComposite(score float64) domain.Severity {
	switch {
	case score > 30:
		return domain.SeverityCritical
	case score > 15:
		return domain.SeverityHigh
	case score > 5:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// RouteHazards summarizes weather-driven hazards for a planned route.
func RouteHazards(weather domain.WeatherReport) domain.HazardReport {
	var hazards []domain.RouteHazard

	switch weather.Condition {
	case domain.WeatherSnow, domain.WeatherIce:
		hazards = append(hazards, domain.RouteHazard{
			Type:           "weather",
			Severity:       domain.SeverityHigh,
			Description:    fmt.Sprintf("Adverse weather: %s", weather.Condition),
			Recommendation: "Reduce speed, increase following distance",
		})
	case domain.WeatherRain, domain.WeatherHeavyRain:
		hazards = append(hazards, domain.RouteHazard{
			Type:           "weather",
			Severity:       domain.SeverityMedium,
			Description:    fmt.Sprintf("Adverse weather: %s", weather.Condition),
			Recommendation: "Reduce speed, increase following distance",
		})
	}

	level := domain.SeverityLow
	for _, h := range hazards {
		if h.Severity == domain.SeverityHigh {
			level = domain.SeverityHigh
			break
		}
		level = domain.SeverityMedium
	}

	return domain.HazardReport{Hazards: hazards, RiskLevel: level}
}
