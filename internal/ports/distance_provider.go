package ports

import "transport-route-service/internal/domain"

// Contract for estimating travel distance and duration between locations.
// Implementations must be pure: planning calls them inside the core loop.
type DistanceEstimator interface {
	// Return the distance in km; nil coordinates mean "unresolved".
	DistanceKm(from, to *domain.Coordinates) float64
	// Return the driving minutes for a distance in km.
	TravelMinutes(km float64) float64
}
