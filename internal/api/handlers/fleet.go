package handlers

import (
	"net/http"
	"time"

	"fleet-safety-service/internal/api/dto"
	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/riskagg"
)

// FleetHandler serves telemetry ingestion, vehicle risk, and driver fatigue.
type FleetHandler struct {
	Aggregator *riskagg.Aggregator
}

// Telemetry ingests a batch of events for one vehicle and returns the
// updated composite risk.
func (h *FleetHandler) Telemetry(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")

	var req dto.TelemetryRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	events := make([]domain.TelemetryEvent, 0, len(req.Events))
	analyses := make([]domain.TelemetryAnalysis, 0, len(req.Events))
	for _, e := range req.Events {
		ev := e.ToDomain(vehicleID)
		if ev.Timestamp.IsZero() {
			ev.Timestamp = time.Now()
		}
		events = append(events, ev)
		analyses = append(analyses, riskagg.AnalyzeTelemetry(ev))
	}

	status, err := h.Aggregator.UpdateVehicleRisk(r.Context(), vehicleID, events)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   status,
		"analyses": analyses,
	})
}

// Risk returns the stored composite risk view without ingesting events.
func (h *FleetHandler) Risk(w http.ResponseWriter, r *http.Request) {
	status, err := h.Aggregator.VehicleRiskStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// Fatigue assesses a driver's current fatigue risk.
func (h *FleetHandler) Fatigue(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.Aggregator.AssessFatigue(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assessment)
}

// StartShift records the beginning of a driver's shift.
func (h *FleetHandler) StartShift(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("id")

	var req dto.ShiftRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	if req.StartedAt != nil {
		start = *req.StartedAt
	}

	if err := h.Aggregator.StartShift(r.Context(), driverID, start); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"driver_id": driverID, "shift_started": start.Format(time.RFC3339)})
}

// RecordBreak records a rest break for the driver's current shift.
func (h *FleetHandler) RecordBreak(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("id")

	var req dto.BreakRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	if err := h.Aggregator.RecordBreak(r.Context(), driverID, at); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"driver_id": driverID, "break_recorded": at.Format(time.RFC3339)})
}
