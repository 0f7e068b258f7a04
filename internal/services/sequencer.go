package services

import (
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/ports"
)

// Sequencer orders the patients of one vehicle using a greedy nearest-neighbor walk.
//
// The walk minimizes the immediate leg distance at each step, starting at the
// depot. It does not attempt global optimization; determinism matters more.
type Sequencer struct {
	settings  Settings
	estimator ports.DistanceEstimator
}

func NewSequencer(settings Settings, estimator ports.DistanceEstimator) *Sequencer {
	return &Sequencer{settings: settings, estimator: estimator}
}

// Order returns patients in nearest-neighbor order from start.
// Exact distance ties go to the smaller name, then to the earlier input position.
func (s *Sequencer) Order(start domain.Coordinates, patients []*domain.Patient) []*domain.Patient {
	remaining := make([]*domain.Patient, len(patients))
	copy(remaining, patients)

	ordered := make([]*domain.Patient, 0, len(patients))
	current := &start

	for len(remaining) > 0 {
		bestIdx := -1
		bestDist := 0.0

		// Select next stop by minimum distance (greedy step).
		for i, p := range remaining {
			d := s.estimator.DistanceKm(current, p.Location)
			if bestIdx == -1 || d < bestDist || (d == bestDist && p.Name < remaining[bestIdx].Name) {
				bestIdx = i
				bestDist = d
			}
		}

		next := remaining[bestIdx]
		ordered = append(ordered, next)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		current = next.Location
	}

	return ordered
}

// Sequence builds the stop list of a route departing at startAt.
//
// Pickup routes end at the depot (DESTINATION); dropoff routes start there
// (ORIGIN). The first stop is reached at startAt and every later stop adds
// the leg's travel time plus the service time.
func (s *Sequencer) Sequence(depot domain.Depot, dir domain.Direction, startAt time.Time, patients []*domain.Patient) []domain.Stop {
	ordered := s.Order(depot.Location, patients)
	stops := make([]domain.Stop, 0, len(ordered)+1)

	if dir == domain.Dropoff {
		stops = append(stops, depotStop(depot, domain.StopOrigin))
	}
	for _, p := range ordered {
		stops = append(stops, patientStop(p, dir))
	}
	if dir == domain.Pickup {
		stops = append(stops, depotStop(depot, domain.StopDestination))
	}

	arrival := startAt
	for i := range stops {
		if i > 0 {
			leg := s.estimator.TravelMinutes(s.estimator.DistanceKm(stops[i-1].Location, stops[i].Location))
			arrival = arrival.Add(minutesToDuration(leg + s.settings.ServiceMinutes))
		}
		stops[i].Sequence = i + 1
		stops[i].ArriveAt = arrival
	}

	return stops
}

func depotStop(depot domain.Depot, t domain.StopType) domain.Stop {
	loc := depot.Location
	return domain.Stop{
		Type:        t,
		PatientName: depot.Name,
		Label:       depot.Name,
		Address:     depot.Address,
		Location:    &loc,
	}
}

func patientStop(p *domain.Patient, dir domain.Direction) domain.Stop {
	stop := domain.Stop{
		Type:             domain.StopPickup,
		PatientID:        p.ID,
		PatientName:      p.Name,
		Label:            "Pickup: " + p.Name,
		Address:          p.Address.Line(),
		Phone:            p.Phone,
		Location:         p.Location,
		Wheelchair:       p.Wheelchair,
		GeocodingWarning: p.GeocodingWarning(),
	}
	if dir == domain.Dropoff {
		stop.Type = domain.StopDropoff
		stop.Label = "Drop-off: " + p.Name
	}
	return stop
}

func minutesToDuration(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
