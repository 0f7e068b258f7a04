package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/ports"
)

var _ ports.PlanStore = (*MemoryPlanStore)(nil)

// MemoryPlanStore is used when no REDIS_URL is set. Plans never expire.
type MemoryPlanStore struct {
	mu     sync.RWMutex
	plans  map[string]*domain.Plan // id -> plan
	latest map[string]string       // planning date -> plan id
}

func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{
		plans:  map[string]*domain.Plan{},
		latest: map[string]string{},
	}
}

func (s *MemoryPlanStore) SavePlan(ctx context.Context, plan *domain.Plan) error {
	if plan == nil || plan.ID == "" {
		return errors.New("save plan: plan id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.ID] = plan
	s.latest[plan.PlanningDate.Format(time.DateOnly)] = plan.ID
	return nil
}

func (s *MemoryPlanStore) LatestPlan(ctx context.Context, day time.Time) (*domain.Plan, error) {
	s.mu.RLock()
	id, ok := s.latest[day.Format(time.DateOnly)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("latest plan for %s: %w", day.Format(time.DateOnly), domain.ErrNotFound)
	}
	return s.GetPlan(ctx, id)
}

func (s *MemoryPlanStore) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, fmt.Errorf("get plan %s: %w", id, domain.ErrNotFound)
	}
	return plan, nil
}
