package services

import (
	"time"

	"transport-route-service/internal/domain"

	"github.com/google/uuid"
)

// RouteRequest is one (vehicle, slot, direction) pairing to assemble.
type RouteRequest struct {
	Vehicle      *domain.Vehicle
	Slot         domain.TimeSlot
	Direction    domain.Direction
	PlanningDate time.Time
	Depot        domain.Depot
	Patients     []*domain.Patient
	Strategy     domain.Strategy
}

// RouteAssembler sequences a pairing and attaches its constraint report, so
// every route can be judged without re-running the validator.
type RouteAssembler struct {
	validator *Validator
	sequencer *Sequencer
	newID     func() string
}

func NewRouteAssembler(validator *Validator, sequencer *Sequencer) *RouteAssembler {
	return &RouteAssembler{validator: validator, sequencer: sequencer, newID: uuid.NewString}
}

// Assemble builds the full route record for req.
func (a *RouteAssembler) Assemble(req RouteRequest) domain.Route {
	v := req.Vehicle
	startAt := req.Slot.AnchorOn(req.PlanningDate)
	stops := a.sequencer.Sequence(req.Depot, req.Direction, startAt, req.Patients)

	ids := make([]string, 0, len(req.Patients))
	for _, p := range req.Patients {
		ids = append(ids, p.ID)
	}

	route := domain.Route{
		ID:               a.newID(),
		VehicleID:        v.ID,
		VehiclePlate:     v.Plate,
		VehicleReference: v.Reference,
		VehicleModel:     v.Model,
		VehicleCapacity:  v.TotalSeats,
		SpecialSeats:     v.SpecialSeats,
		SlotID:           req.Slot.ID,
		SlotName:         req.Slot.Name,
		Direction:        req.Direction,
		StartAt:          startAt,
		EndAt:            startAt,
		Stops:            stops,
		PatientIDs:       ids,
		TotalPatients:    len(req.Patients),
		TotalStops:       len(stops),
		Strategy:         req.Strategy,
	}
	if len(stops) > 0 {
		route.EndAt = stops[len(stops)-1].ArriveAt
	}

	route.DistanceKm, route.DurationMinutes = a.validator.Measure(stops)
	route.Cost = route.DistanceKm * v.CostPerKm
	route.Constraints = a.validator.Evaluate(&route, v, req.Patients)
	return route
}
