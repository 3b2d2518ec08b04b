package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fleet-safety-service/internal/api/dto"
	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/ports"
	"fleet-safety-service/internal/ranking"
	"fleet-safety-service/internal/riskagg"
	"fleet-safety-service/internal/scoring"
)

// RouteHandler serves scoring, ranking, hazard, and energy queries.
type RouteHandler struct {
	Scorer  *scoring.Scorer
	Ranker  *ranking.Ranker
	Weather ports.WeatherProvider
}

// conditions resolves the snapshot for a request: the explicit override when
// given, otherwise live weather at the location combined with the clock.
func (h *RouteHandler) conditions(ctx context.Context, override *dto.ConditionsDTO, location string) (domain.ConditionsSnapshot, error) {
	if override != nil {
		return override.ToDomain()
	}

	report, err := h.Weather.GetWeather(ctx, location)
	if err != nil {
		return domain.ConditionsSnapshot{}, fmt.Errorf("resolve conditions: %w", err)
	}
	return domain.SnapshotAt(report, time.Now()), nil
}

// Score assesses one route for one driver and vehicle.
func (h *RouteHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req dto.ScoreRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cond, err := h.conditions(r.Context(), req.Conditions, req.Location)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	assessment, err := h.Scorer.Score(
		r.Context(),
		req.Route.ToDomain(),
		req.Driver.ToDomain(),
		cond,
		domain.VehicleProfile{Type: domain.VehicleType(req.VehicleType)},
	)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, assessment)
}

// Rank scores all candidates and selects one per the requested policy.
func (h *RouteHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req dto.RankRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	policy := ranking.Policy(req.Policy)
	switch policy {
	case "", ranking.PolicySafety, ranking.PolicySpeed, ranking.PolicyBalanced:
	default:
		writeError(w, r, http.StatusBadRequest, "policy must be safety, speed, or balanced")
		return
	}

	cond, err := h.conditions(r.Context(), req.Conditions, req.Location)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	routes := make([]domain.RouteCandidate, 0, len(req.Routes))
	for _, rt := range req.Routes {
		routes = append(routes, rt.ToDomain())
	}

	result, err := h.Ranker.RankRoutes(r.Context(), ranking.Request{
		Routes:     routes,
		Driver:     req.Driver.ToDomain(),
		Vehicle:    domain.VehicleProfile{Type: domain.VehicleType(req.VehicleType)},
		Conditions: cond,
		Policy:     policy,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// Hazards summarizes weather-driven hazards at a location.
func (h *RouteHandler) Hazards(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, r, http.StatusBadRequest, "location is required")
		return
	}

	report, err := h.Weather.GetWeather(r.Context(), location)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, riskagg.RouteHazards(report))
}

// Energy estimates fuel or charging cost plus required stops for a distance.
func (h *RouteHandler) Energy(w http.ResponseWriter, r *http.Request) {
	var req dto.EnergyRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	vt := domain.VehicleType(req.VehicleType)
	if err := vt.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if req.DistanceMiles < 0 {
		writeError(w, r, http.StatusBadRequest, "distance_miles must be non-negative")
		return
	}

	// Assume a 50mph average for the rest-break check.
	durationHours := req.DistanceMiles / 50

	writeJSON(w, r, http.StatusOK, map[string]any{
		"cost":           domain.EstimateEnergyCost(req.DistanceMiles, vt),
		"required_stops": domain.PlanRequiredStops(req.DistanceMiles, durationHours, vt),
	})
}
