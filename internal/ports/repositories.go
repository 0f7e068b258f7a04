package ports

import (
	"context"
	"time"

	"transport-route-service/internal/domain"
)

// Port: a boundary for reading and updating patients of a planning date.
type PatientRepository interface {
	// Retrieve every patient with a pickup or treatment end on day.
	ListPatients(ctx context.Context, day time.Time) ([]*domain.Patient, error)
	// Persist slot, vehicle and status fields of the given patients.
	SaveAssignments(ctx context.Context, patients []*domain.Patient) error
}

type VehicleRepository interface {
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
}

// Port: versioned slot schedules with an active pointer.
type ScheduleRepository interface {
	LoadScheduleBook(ctx context.Context) (*domain.ScheduleBook, error)
	ActivateSchedule(ctx context.Context, id string) error
}

// PlanStore keeps planning results for the surrounding application.
type PlanStore interface {
	SavePlan(ctx context.Context, plan *domain.Plan) error
	// Return the most recent plan of day, or an error wrapping domain.ErrNotFound.
	LatestPlan(ctx context.Context, day time.Time) (*domain.Plan, error)
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
}
