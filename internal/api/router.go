package api

import (
	"net/http"

	"fleet-safety-service/internal/api/handlers"
	"fleet-safety-service/internal/ports"
	"fleet-safety-service/internal/ranking"
	"fleet-safety-service/internal/reroute"
	"fleet-safety-service/internal/riskagg"
	"fleet-safety-service/internal/scoring"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	scorer *scoring.Scorer,
	ranker *ranking.Ranker,
	engine *reroute.Engine,
	aggregator *riskagg.Aggregator,
	weather ports.WeatherProvider,
) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Scorer: scorer, Ranker: ranker, Weather: weather}
	tripHandler := &handlers.TripHandler{Engine: engine}
	fleetHandler := &handlers.FleetHandler{Aggregator: aggregator}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /routes/score", routeHandler.Score)
	mux.HandleFunc("POST /routes/rank", routeHandler.Rank)
	mux.HandleFunc("GET /routes/hazards", routeHandler.Hazards)
	mux.HandleFunc("POST /routes/energy", routeHandler.Energy)

	mux.HandleFunc("POST /trips", tripHandler.Add)
	mux.HandleFunc("GET /trips", tripHandler.List)
	mux.HandleFunc("DELETE /trips/{id}", tripHandler.Remove)
	mux.HandleFunc("GET /trips/{id}/reroutes", tripHandler.History)
	mux.HandleFunc("POST /monitor/run", tripHandler.Monitor)

	mux.HandleFunc("POST /vehicles/{id}/telemetry", fleetHandler.Telemetry)
	mux.HandleFunc("GET /vehicles/{id}/risk", fleetHandler.Risk)
	mux.HandleFunc("POST /vehicles/{id}/emergency-reroute", tripHandler.Emergency)

	mux.HandleFunc("GET /drivers/{id}/fatigue", fleetHandler.Fatigue)
	mux.HandleFunc("POST /drivers/{id}/shift", fleetHandler.StartShift)
	mux.HandleFunc("POST /drivers/{id}/break", fleetHandler.RecordBreak)

	return requestIDMiddleware(loggingMiddleware(mux))
}
