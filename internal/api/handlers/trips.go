package handlers

import (
	"net/http"

	"fleet-safety-service/internal/api/dto"
	"fleet-safety-service/internal/reroute"
)

// TripHandler serves the trip lifecycle and the rerouting surface.
type TripHandler struct {
	Engine *reroute.Engine
}

// Add registers a trip for monitoring.
func (h *TripHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.TripRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip := req.ToDomain()
	if err := h.Engine.AddTrip(r.Context(), trip); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, trip)
}

// List returns the active-trip set.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Engine.Trips(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"trips": trips})
}

// Remove drops a trip from the active set.
func (h *TripHandler) Remove(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("id")
	if err := h.Engine.RemoveTrip(r.Context(), tripID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"removed": tripID})
}

// History returns committed reroutes for one trip.
func (h *TripHandler) History(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("id")
	recs, err := h.Engine.History(r.Context(), tripID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"reroutes": recs})
}

// Monitor runs one monitoring cycle over every active trip.
func (h *TripHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Engine.MonitorCycle(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"reports": reports})
}

// Emergency forces an immediate reroute for a vehicle.
func (h *TripHandler) Emergency(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")

	var req dto.EmergencyRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Reason == "" {
		writeError(w, r, http.StatusBadRequest, "reason is required")
		return
	}

	result, err := h.Engine.EmergencyReroute(r.Context(), vehicleID, req.Reason)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}
