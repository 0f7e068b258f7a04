package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// RoutesPlanned counts generated routes by direction and hard-constraint validity
	RoutesPlanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "routes_planned_total", Help: "Routes produced by planning runs."},
		[]string{"direction", "valid"},
	)
	// PatientsUnassigned counts patients left out of routes by direction and reason
	PatientsUnassigned = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "patients_unassigned_total", Help: "Patients left without a route."},
		[]string{"direction", "reason"},
	)
	FallbackPacking = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fallback_routes_total", Help: "Routes produced by the fallback packing strategy."},
	)
	// SlotAssignments counts slot assignment outcomes per patient
	SlotAssignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "slot_assignments_total", Help: "Slot assignment outcomes per patient."},
		[]string{"outcome"},
	)
	PlanningDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "planning_duration_seconds", Help: "Duration of planning runs in seconds.", Buckets: prometheus.DefBuckets},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call repeatedly.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RoutesPlanned)
		Registry.MustRegister(PatientsUnassigned)
		Registry.MustRegister(FallbackPacking)
		Registry.MustRegister(SlotAssignments)
		Registry.MustRegister(PlanningDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
