package distance

import (
	"fmt"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/geo"
	"transport-route-service/internal/ports"
)

var _ ports.DistanceEstimator = (*TableEstimator)(nil)

type TablePair struct {
	From, To domain.Coordinates
	Km       float64
}

// TableEstimator serves fixed distances for known coordinate pairs (both
// directions) and delegates everything else to a fallback estimator.
// Used to calibrate planning against measured road distances and in tests.
type TableEstimator struct {
	m        map[string]float64
	fallback ports.DistanceEstimator
}

func NewTableEstimator(pairs []TablePair, fallback ports.DistanceEstimator) *TableEstimator {
	if fallback == nil {
		fallback = NewHaversineEstimator(geo.DefaultTravelModel())
	}

	m := make(map[string]float64, 2*len(pairs))
	for _, p := range pairs {
		m[key(p.From, p.To)] = p.Km
		m[key(p.To, p.From)] = p.Km
	}
	return &TableEstimator{m: m, fallback: fallback}
}

func (e *TableEstimator) DistanceKm(from, to *domain.Coordinates) float64 {
	if from != nil && to != nil {
		if km, ok := e.m[key(*from, *to)]; ok {
			return km
		}
	}
	return e.fallback.DistanceKm(from, to)
}

func (e *TableEstimator) TravelMinutes(km float64) float64 {
	return e.fallback.TravelMinutes(km)
}

func key(a, b domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", a.Lat, a.Lon, b.Lat, b.Lon)
}
