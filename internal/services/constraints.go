package services

import (
	"fmt"
	"math"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/ports"
)

// Validator checks hard constraints and scores soft constraints of a route.
//
// Both checks are pure functions of (route, vehicle, patients, settings) and
// never fail: problems are reported as violation strings. Any planner backend
// can use them to judge its candidates.
type Validator struct {
	settings  Settings
	estimator ports.DistanceEstimator
}

func NewValidator(settings Settings, estimator ports.DistanceEstimator) *Validator {
	return &Validator{settings: settings, estimator: estimator}
}

// Measure returns the driven distance over the whole stop sequence and the
// route time: clamped travel minutes per leg plus the service time per stop.
func (v *Validator) Measure(stops []domain.Stop) (distanceKm, minutes float64) {
	for i := 1; i < len(stops); i++ {
		d := v.estimator.DistanceKm(stops[i-1].Location, stops[i].Location)
		distanceKm += d
		minutes += v.estimator.TravelMinutes(d)
	}
	minutes += v.settings.ServiceMinutes * float64(len(stops))
	return distanceKm, minutes
}

// ValidateHard reports whether every enabled hard constraint holds, together
// with a human readable message per violation.
func (v *Validator) ValidateHard(route *domain.Route, vehicle *domain.Vehicle, patients []*domain.Patient) (bool, []string) {
	violations := []string{}
	hard := v.settings.Hard

	if hard.Capacity && len(patients) > vehicle.TotalSeats {
		violations = append(violations, fmt.Sprintf(
			"vehicle %s has capacity %d but %d patients assigned",
			vehicle.Label(), vehicle.TotalSeats, len(patients),
		))
	}

	if hard.SpecialSeats {
		if wc := domain.CountWheelchair(patients); wc > vehicle.SpecialSeats {
			violations = append(violations, fmt.Sprintf(
				"vehicle %s has %d wheelchair places but %d wheelchair patients",
				vehicle.Label(), vehicle.SpecialSeats, wc,
			))
		}
	}

	if limit := vehicle.MaxRouteMinutes(); hard.MaxDuration && limit > 0 {
		if _, minutes := v.Measure(route.Stops); minutes > limit {
			violations = append(violations, fmt.Sprintf(
				"route time (%.0f min) exceeds maximum (%.0f min) for vehicle %s",
				minutes, limit, vehicle.Label(),
			))
		}
	}

	if hard.TimeWindow && route.Direction == domain.Pickup {
		violations = append(violations, v.timeWindowViolations(route, patients)...)
	}

	if hard.Availability && !vehicle.Assignable() {
		violations = append(violations, fmt.Sprintf(
			"vehicle %s is not available (status: %s)", vehicle.Label(), vehicle.Status,
		))
	}

	return len(violations) == 0, violations
}

func (v *Validator) timeWindowViolations(route *domain.Route, patients []*domain.Patient) []string {
	byID := indexPatients(patients)
	tolerance := v.settings.TimeWindowTolerance

	var out []string
	for _, stop := range route.Stops {
		if stop.IsDepot() {
			continue
		}
		p, ok := byID[stop.PatientID]
		if !ok || p.PickupAt == nil {
			continue
		}
		if absDuration(stop.ArriveAt.Sub(*p.PickupAt)) > tolerance {
			out = append(out, fmt.Sprintf(
				"patient %s: estimated arrival %s outside tolerance of pickup time %s",
				p.Name, stop.ArriveAt.Format("15:04"), p.PickupAt.Format("15:04"),
			))
		}
	}
	return out
}

// ScoreSoft returns the weighted soft-constraint score (lower is better) and
// the measurements behind it.
func (v *Validator) ScoreSoft(route *domain.Route, vehicle *domain.Vehicle, patients []*domain.Patient) (float64, domain.ScoreBreakdown) {
	w := v.settings.Weights
	km, minutes := v.Measure(route.Stops)

	occupancy := 0.0
	if vehicle.TotalSeats > 0 {
		occupancy = float64(len(patients)) / float64(vehicle.TotalSeats)
	}

	b := domain.ScoreBreakdown{
		DistanceKm:      km,
		DurationMinutes: minutes,
		Occupancy:       occupancy,
		LoadPenalty:     v.loadPenalty(occupancy),
	}
	if route.Direction == domain.Pickup {
		b.WaitingMinutes = waitingMinutes(route, patients)
	}

	b.Total = km*w.Distance + minutes*w.Time + b.LoadPenalty*w.LoadBalance + b.WaitingMinutes*w.Waiting
	return b.Total, b
}

// Evaluate runs both checks and bundles them for the route record.
func (v *Validator) Evaluate(route *domain.Route, vehicle *domain.Vehicle, patients []*domain.Patient) domain.ConstraintReport {
	valid, violations := v.ValidateHard(route, vehicle, patients)
	score, breakdown := v.ScoreSoft(route, vehicle, patients)
	return domain.ConstraintReport{
		Valid:      valid,
		Violations: violations,
		Score:      score,
		Breakdown:  breakdown,
	}
}

func (v *Validator) loadPenalty(occupancy float64) float64 {
	lb := v.settings.LoadBalance
	switch {
	case occupancy < lb.Low:
		return (lb.Low - occupancy) * lb.LowFactor
	case occupancy > lb.High:
		return (occupancy - lb.High) * lb.HighFactor
	default:
		return 0
	}
}

// waitingMinutes sums how late each patient stop is compared to the desired pickup.
func waitingMinutes(route *domain.Route, patients []*domain.Patient) float64 {
	byID := indexPatients(patients)

	total := 0.0
	for _, stop := range route.Stops {
		if stop.IsDepot() {
			continue
		}
		p, ok := byID[stop.PatientID]
		if !ok || p.PickupAt == nil {
			continue
		}
		if late := stop.ArriveAt.Sub(*p.PickupAt); late > 0 {
			total += late.Minutes()
		}
	}
	return total
}

func indexPatients(patients []*domain.Patient) map[string]*domain.Patient {
	m := make(map[string]*domain.Patient, len(patients))
	for _, p := range patients {
		m[p.ID] = p
	}
	return m
}

func absDuration(d time.Duration) time.Duration {
	return time.Duration(math.Abs(float64(d)))
}
