package distance

import (
	"transport-route-service/internal/domain"
	"transport-route-service/internal/geo"
	"transport-route-service/internal/ports"
)

var _ ports.DistanceEstimator = (*HaversineEstimator)(nil)

// HaversineEstimator estimates straight-line distances and converts them to
// driving minutes with a travel model.
type HaversineEstimator struct {
	model geo.TravelModel
}

func NewHaversineEstimator(model geo.TravelModel) *HaversineEstimator {
	return &HaversineEstimator{model: model}
}

func (e *HaversineEstimator) DistanceKm(from, to *domain.Coordinates) float64 {
	return geo.DistanceKm(from, to)
}

func (e *HaversineEstimator) TravelMinutes(km float64) float64 {
	return e.model.Minutes(km)
}
