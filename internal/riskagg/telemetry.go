package riskagg

import (
	"fmt"

	"fleet-safety-service/internal/domain"
)

// ClassifySignals extracts risk signals from one telemetry event.
//
// Thresholds: >15 mph over the limit is high-severity speeding, >5 mph is
// medium; |acceleration| over 0.4g is a harsh maneuver; a following
// distance under 2.0s (when the sensor reports one) is high severity.
func ClassifySignals(ev domain.TelemetryEvent) []domain.RiskSignal {
	var signals []domain.RiskSignal

	limit := ev.SpeedLimitMPH
	if limit <= 0 {
		limit = 70
	}

	switch {
	case ev.SpeedMPH > limit+15:
		signals = append(signals, domain.RiskSignal{
			Type:     "excessive_speeding",
			Severity: domain.SeverityHigh,
			Details:  fmt.Sprintf("Speed %.0fmph in %.0fmph zone", ev.SpeedMPH, limit),
		})
	case ev.SpeedMPH > limit+5:
		signals = append(signals, domain.RiskSignal{
			Type:     "speeding",
			Severity: domain.SeverityMedium,
			Details:  fmt.Sprintf("Speed %.0fmph in %.0fmph zone", ev.SpeedMPH, limit),
		})
	}

	if g := ev.AccelerationG; g > 0.4 || g < -0.4 {
		kind := "harsh_acceleration"
		if g < 0 {
			kind = "harsh_braking"
			g = -g
		}
		signals = append(signals, domain.RiskSignal{
			Type:     kind,
			Severity: domain.SeverityHigh,
			Details:  fmt.Sprintf("Force: %.2fg", g),
		})
	}

	if fd := ev.FollowingDistanceSeconds; fd != nil && *fd < 2.0 {
		signals = append(signals, domain.RiskSignal{
			Type:     "unsafe_following",
			Severity: domain.SeverityHigh,
			Details:  fmt.Sprintf("Following distance: %.1fs (minimum 2s)", *fd),
		})
	}

	return signals
}

// AnalyzeTelemetry classifies one event and flags whether any detected
// signal warrants immediate intervention.
func AnalyzeTelemetry(ev domain.TelemetryEvent) domain.TelemetryAnalysis {
	signals := ClassifySignals(ev)

	intervene := false
	for _, s := range signals {
		if s.Severity == domain.SeverityHigh {
			intervene = true
			break
		}
	}

	return domain.TelemetryAnalysis{
		VehicleID:            ev.VehicleID,
		Timestamp:            ev.Timestamp,
		Signals:              signals,
		RequiresIntervention: intervene,
	}
}
