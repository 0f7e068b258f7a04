package services

import (
	"fmt"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/ports"
	"transport-route-service/internal/platform/logger"

	"github.com/google/uuid"
)

var _ ports.RoutePlanner = (*HeuristicPlanner)(nil)

// HeuristicPlanner is the built-in planning backend: slot groups are packed by
// greedy constraint search, one round-robin vehicle per group, then sequenced
// by nearest neighbor.
//
// It performs no I/O and only mutates the VehicleID (and a missing ID) of the
// patients it is given.
type HeuristicPlanner struct {
	packer *Packer
	log    logger.Logger
	now    func() time.Time
}

func NewHeuristicPlanner(settings Settings, estimator ports.DistanceEstimator, log logger.Logger) *HeuristicPlanner {
	validator := NewValidator(settings, estimator)
	assembler := NewRouteAssembler(validator, NewSequencer(settings, estimator))
	return &HeuristicPlanner{
		packer: NewPacker(settings, assembler, log),
		log:    log,
		now:    time.Now,
	}
}

// PlanRoutes groups patients by their pickup and dropoff slots and produces
// one route set per group.
//
// It fails when there are no usable slots, when a vehicle is malformed, or
// when patients need routing but no vehicle is available. Patients that end up
// without a route are listed in the plan, not returned as an error.
func (p *HeuristicPlanner) PlanRoutes(in domain.PlanningInput) (*domain.Plan, error) {
	pickupSlots := domain.UsableSlots(in.Slots, domain.Pickup)
	dropoffSlots := domain.UsableSlots(in.Slots, domain.Dropoff)
	if len(pickupSlots) == 0 && len(dropoffSlots) == 0 {
		return nil, fmt.Errorf("plan routes: %w", domain.ErrNoTimeSlots)
	}

	vehicles := make([]*domain.Vehicle, 0, len(in.Vehicles))
	for _, v := range in.Vehicles {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("plan routes: %w", err)
		}
		if v.Assignable() {
			vehicles = append(vehicles, v)
		}
	}

	depot := domain.DefaultDepot()
	if in.Depot != nil {
		depot = *in.Depot
	}

	for _, pt := range in.Patients {
		if pt.ID == "" {
			pt.ID = uuid.NewString()
		}
	}

	plan := &domain.Plan{
		ID:           uuid.NewString(),
		PlanningDate: domain.StartOfDay(in.PlanningDate),
		CreatedAt:    p.now(),
		Routes:       []domain.Route{},
		Unassigned:   []domain.UnassignedPatient{},
	}

	groups, unslotted := groupBySlot(in.Patients, domain.Pickup, pickupSlots)
	dropoffGroups, dropoffUnslotted := groupBySlot(in.Patients, domain.Dropoff, dropoffSlots)
	groups = append(groups, dropoffGroups...)
	unslotted = append(unslotted, dropoffUnslotted...)
	plan.Unassigned = append(plan.Unassigned, unslotted...)

	if len(groups) > 0 && len(vehicles) == 0 {
		return nil, fmt.Errorf("plan routes: %d slot groups to route: %w", len(groups), domain.ErrNoVehicles)
	}

	for i, g := range groups {
		// One vehicle per slot group, rotating across both directions.
		v := vehicles[i%len(vehicles)]

		res := p.packer.Pack(in.PlanningDate, depot, g, []*domain.Vehicle{v})
		plan.Routes = append(plan.Routes, res.Routes...)
		for _, pt := range res.Unassigned {
			plan.Unassigned = append(plan.Unassigned, domain.UnassignedPatient{
				PatientID: pt.ID,
				Name:      pt.Name,
				Direction: g.Direction,
				SlotID:    g.Slot.ID,
				Reason:    domain.ReasonNoCapacity,
			})
		}
	}

	assignVehicles(in.Patients, plan.Routes)
	plan.Summarize()

	s := plan.Summary
	p.log.Info("route planning finished",
		"planning_date", plan.PlanningDate.Format(time.DateOnly),
		"total_routes", s.TotalRoutes,
		"valid_routes", s.ValidRoutes,
		"invalid_routes", s.InvalidRoutes,
		"total_violations", s.TotalViolations,
		"average_score", s.AverageScore,
		"unassigned_pickup", s.UnassignedPickup,
		"unassigned_dropoff", s.UnassignedDropoff,
	)
	return plan, nil
}

// groupBySlot buckets patients by their slot of direction d, in the order of
// slots (sorted by anchor). Patients referencing an unknown slot, or with a desired time but no
// slot, are reported back as unassigned.
func groupBySlot(patients []*domain.Patient, d domain.Direction, slots []domain.TimeSlot) ([]SlotGroup, []domain.UnassignedPatient) {
	index := make(map[string]int, len(slots))
	groups := make([]SlotGroup, len(slots))
	for i, s := range slots {
		index[s.ID] = i
		groups[i] = SlotGroup{Slot: s, Direction: d}
	}

	var unslotted []domain.UnassignedPatient
	for _, pt := range patients {
		id := pt.SlotID(d)
		if id == "" {
			if pt.DesiredTime(d) != nil {
				unslotted = append(unslotted, domain.UnassignedPatient{
					PatientID: pt.ID, Name: pt.Name, Direction: d, Reason: domain.ReasonNoSlot,
				})
			}
			continue
		}

		i, ok := index[id]
		if !ok {
			unslotted = append(unslotted, domain.UnassignedPatient{
				PatientID: pt.ID, Name: pt.Name, Direction: d, SlotID: id, Reason: domain.ReasonNoSlot,
			})
			continue
		}
		groups[i].Patients = append(groups[i].Patients, pt)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Patients) > 0 {
			out = append(out, g)
		}
	}
	return out, unslotted
}

// assignVehicles writes the pickup route's vehicle onto each patient, or the
// dropoff route's when the patient rides no pickup route.
func assignVehicles(patients []*domain.Patient, routes []domain.Route) {
	pickup := make(map[string]string)
	dropoff := make(map[string]string)
	for _, r := range routes {
		target := dropoff
		if r.Direction == domain.Pickup {
			target = pickup
		}
		for _, id := range r.PatientIDs {
			target[id] = r.VehicleID
		}
	}

	for _, pt := range patients {
		if v, ok := pickup[pt.ID]; ok {
			pt.VehicleID = v
		} else if v, ok := dropoff[pt.ID]; ok {
			pt.VehicleID = v
		} else {
			pt.VehicleID = ""
		}
	}
}
