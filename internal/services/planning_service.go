package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/platform/logger"
	"transport-route-service/internal/platform/metrics"
	"transport-route-service/internal/platform/obs"
	"transport-route-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

type PlanRequest struct {
	PlanningDate time.Time
	// Run slot assignment before planning.
	AssignSlots bool
	// Recompute slots of patients that already hold both.
	Reassign bool
}

// PlanningService wraps the pure planning core with repository I/O: it loads
// the inputs of a planning date, runs the core, writes assignments back and
// stores the resulting plan.
type PlanningService struct {
	patients  ports.PatientRepository
	vehicles  ports.VehicleRepository
	schedules ports.ScheduleRepository
	plans     ports.PlanStore
	planner   ports.RoutePlanner
	slots     *SlotAssigner
	depot     domain.Depot
	log       logger.Logger
}

func NewPlanningService(
	patients ports.PatientRepository,
	vehicles ports.VehicleRepository,
	schedules ports.ScheduleRepository,
	plans ports.PlanStore,
	planner ports.RoutePlanner,
	slots *SlotAssigner,
	depot domain.Depot,
	log logger.Logger,
) *PlanningService {
	return &PlanningService{
		patients:  patients,
		vehicles:  vehicles,
		schedules: schedules,
		plans:     plans,
		planner:   planner,
		slots:     slots,
		depot:     depot,
		log:       log,
	}
}

type planningInputs struct {
	patients []*domain.Patient
	vehicles []*domain.Vehicle
	slots    []domain.TimeSlot
}

// load fetches patients, vehicles and the active slots concurrently.
func (s *PlanningService) load(ctx context.Context, day time.Time, withVehicles bool) (planningInputs, error) {
	var in planningInputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		book, err := s.schedules.LoadScheduleBook(gctx)
		if err != nil {
			return fmt.Errorf("load schedules: %w", err)
		}
		slots, err := book.ActiveSlots()
		if err != nil {
			return err
		}
		in.slots = slots
		return nil
	})
	g.Go(func() error {
		patients, err := s.patients.ListPatients(gctx, day)
		if err != nil {
			return fmt.Errorf("list patients: %w", err)
		}
		in.patients = patients
		return nil
	})
	if withVehicles {
		g.Go(func() error {
			vehicles, err := s.vehicles.ListVehicles(gctx)
			if err != nil {
				return fmt.Errorf("list vehicles: %w", err)
			}
			in.vehicles = vehicles
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return planningInputs{}, err
	}
	return in, nil
}

// AssignSlots places the patients of day into the active schedule's slots
// and persists the result.
func (s *PlanningService) AssignSlots(ctx context.Context, day time.Time, reassign bool) (res SlotAssignmentResult, err error) {
	defer obs.Time(ctx, s.log, "assign_slots")(&err)

	in, err := s.load(ctx, day, false)
	if err != nil {
		return SlotAssignmentResult{}, fmt.Errorf("assign slots: %w", err)
	}

	res, err = s.slots.AssignSlots(day, in.patients, in.slots, reassign)
	if err != nil {
		return SlotAssignmentResult{}, fmt.Errorf("assign slots: %w", err)
	}

	if err := s.patients.SaveAssignments(ctx, in.patients); err != nil {
		return SlotAssignmentResult{}, fmt.Errorf("assign slots: save assignments: %w", err)
	}

	metrics.SlotAssignments.WithLabelValues("complete").Add(float64(res.Complete))
	metrics.SlotAssignments.WithLabelValues("partial").Add(float64(res.Partial))
	metrics.SlotAssignments.WithLabelValues("unassigned").Add(float64(res.Unassigned))
	metrics.SlotAssignments.WithLabelValues("skipped").Add(float64(res.Skipped))
	return res, nil
}

// PlanDay runs a full planning pass for one date and stores the plan.
func (s *PlanningService) PlanDay(ctx context.Context, req PlanRequest) (plan *domain.Plan, err error) {
	defer obs.Time(ctx, s.log, "plan_day")(&err)
	start := time.Now()

	day := domain.StartOfDay(req.PlanningDate)
	in, err := s.load(ctx, day, true)
	if err != nil {
		return nil, fmt.Errorf("plan day: %w", err)
	}

	if req.AssignSlots {
		if _, err := s.slots.AssignSlots(day, in.patients, in.slots, req.Reassign); err != nil {
			return nil, fmt.Errorf("plan day: %w", err)
		}
	}

	plan, err = s.planner.PlanRoutes(domain.PlanningInput{
		PlanningDate: day,
		Patients:     in.patients,
		Vehicles:     in.vehicles,
		Slots:        in.slots,
		Depot:        &s.depot,
	})
	if err != nil {
		return nil, fmt.Errorf("plan day: %w", err)
	}

	if err := s.patients.SaveAssignments(ctx, in.patients); err != nil {
		return nil, fmt.Errorf("plan day: save assignments: %w", err)
	}
	if err := s.plans.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("plan day: save plan: %w", err)
	}

	observePlan(plan)
	metrics.PlanningDuration.Observe(time.Since(start).Seconds())
	return plan, nil
}

func (s *PlanningService) LatestPlan(ctx context.Context, day time.Time) (*domain.Plan, error) {
	plan, err := s.plans.LatestPlan(ctx, domain.StartOfDay(day))
	if err != nil {
		return nil, fmt.Errorf("latest plan: %w", err)
	}
	return plan, nil
}

func (s *PlanningService) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	plan, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

func (s *PlanningService) Schedules(ctx context.Context) (*domain.ScheduleBook, error) {
	book, err := s.schedules.LoadScheduleBook(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedules: %w", err)
	}
	return book, nil
}

// ActivateSchedule switches the daily slot layout without touching any slot rows.
func (s *PlanningService) ActivateSchedule(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, s.log, "activate_schedule")(&err)

	if err := s.schedules.ActivateSchedule(ctx, id); err != nil {
		return fmt.Errorf("activate schedule: %w", err)
	}
	return nil
}

func observePlan(plan *domain.Plan) {
	for _, r := range plan.Routes {
		metrics.RoutesPlanned.WithLabelValues(string(r.Direction), strconv.FormatBool(r.Constraints.Valid)).Inc()
	}
	for _, u := range plan.Unassigned {
		metrics.PatientsUnassigned.WithLabelValues(string(u.Direction), string(u.Reason)).Inc()
	}
	if plan.Summary.FallbackRoutes > 0 {
		metrics.FallbackPacking.Add(float64(plan.Summary.FallbackRoutes))
	}
}
