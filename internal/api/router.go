package api

import (
	"net/http"
	"time"

	"transport-route-service/internal/api/handlers"
	"transport-route-service/internal/platform/logger"
	"transport-route-service/internal/platform/metrics"
	"transport-route-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps carries what the HTTP layer needs from the composition root.
type RouterDeps struct {
	Service *services.PlanningService
	Log     logger.Logger
	// Health checks by name; empty for the in-memory setup.
	Checks map[string]handlers.Pinger
	// Defaults to time.Now.
	Now func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Checks: deps.Checks}
	planHandler := &handlers.PlanHandler{Service: deps.Service, Log: deps.Log, Now: now}
	scheduleHandler := &handlers.ScheduleHandler{Service: deps.Service, Log: deps.Log, Now: now}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/plans/latest", planHandler.Latest)
	mux.HandleFunc("/plans/{id}", planHandler.Get)

	mux.HandleFunc("/schedules", scheduleHandler.List)
	mux.HandleFunc("/schedules/{id}/activate", scheduleHandler.Activate)
	mux.HandleFunc("/timeslots/assign", scheduleHandler.AssignSlots)

	return requestIDMiddleware(loggingMiddleware(deps.Log, mux))
}
