package domain

import "time"

// PlanningInput is everything one planning run needs, fetched once up front.
type PlanningInput struct {
	PlanningDate time.Time
	Patients     []*Patient
	Vehicles     []*Vehicle
	Slots        []TimeSlot
	// Nil selects DefaultDepot.
	Depot *Depot
}

type UnassignedReason string

const (
	ReasonNoSlot     UnassignedReason = "no_slot"
	ReasonNoCapacity UnassignedReason = "no_capacity"
)

// UnassignedPatient records a patient that did not end up in any route for a direction.
type UnassignedPatient struct {
	PatientID string           `json:"patient_id"`
	Name      string           `json:"name"`
	Direction Direction        `json:"direction"`
	SlotID    string           `json:"slot_id,omitempty"`
	Reason    UnassignedReason `json:"reason"`
}

// PlanSummary aggregates constraint results over all routes of a plan.
type PlanSummary struct {
	TotalRoutes       int     `json:"total_routes"`
	ValidRoutes       int     `json:"valid_routes"`
	InvalidRoutes     int     `json:"invalid_routes"`
	FallbackRoutes    int     `json:"fallback_routes"`
	TotalViolations   int     `json:"total_violations"`
	AverageScore      float64 `json:"average_score"`
	TotalDistanceKm   float64 `json:"total_distance_km"`
	TotalCost         float64 `json:"total_cost"`
	RoutedPatients    int     `json:"routed_patients"`
	UnassignedPickup  int     `json:"unassigned_pickup"`
	UnassignedDropoff int     `json:"unassigned_dropoff"`
}

// Plan is the output of one planning run.
type Plan struct {
	ID           string              `json:"id"`
	PlanningDate time.Time           `json:"planning_date"`
	CreatedAt    time.Time           `json:"created_at"`
	Routes       []Route             `json:"routes"`
	Unassigned   []UnassignedPatient `json:"unassigned"`
	Summary      PlanSummary         `json:"summary"`
}

// Summarize recomputes the summary from routes and unassigned patients.
func (p *Plan) Summarize() {
	s := PlanSummary{TotalRoutes: len(p.Routes)}

	routed := make(map[string]struct{})
	totalScore := 0.0
	for _, r := range p.Routes {
		if r.Constraints.Valid {
			s.ValidRoutes++
		} else {
			s.InvalidRoutes++
			s.TotalViolations += len(r.Constraints.Violations)
		}
		if r.Strategy == StrategyFallback {
			s.FallbackRoutes++
		}
		totalScore += r.Constraints.Score
		s.TotalDistanceKm += r.DistanceKm
		s.TotalCost += r.Cost
		for _, id := range r.PatientIDs {
			routed[id] = struct{}{}
		}
	}
	if s.TotalRoutes > 0 {
		s.AverageScore = totalScore / float64(s.TotalRoutes)
	}
	s.RoutedPatients = len(routed)

	for _, u := range p.Unassigned {
		if u.Direction == Pickup {
			s.UnassignedPickup++
		} else {
			s.UnassignedDropoff++
		}
	}
	p.Summary = s
}
