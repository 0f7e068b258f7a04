package ports

import "transport-route-service/internal/domain"

// RoutePlanner turns one planning input into routes. The built-in heuristic
// planner implements it; an external solver backend can replace it.
type RoutePlanner interface {
	PlanRoutes(in domain.PlanningInput) (*domain.Plan, error)
}
