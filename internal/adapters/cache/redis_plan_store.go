package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/ports"

	redis "github.com/redis/go-redis/v9"
)

var _ ports.PlanStore = (*RedisPlanStore)(nil)

// RedisPlanStore keeps serialized plans in Redis with a TTL.
//
// Keys: plan:<id> holds the plan JSON, plans:<YYYY-MM-DD> the id of the
// latest plan of that planning date.
type RedisPlanStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPlanStore(rdb *redis.Client, ttl time.Duration) *RedisPlanStore {
	return &RedisPlanStore{rdb: rdb, ttl: ttl}
}

// NewRedisPlanStoreFromURL parses a redis:// URL and connects lazily.
func NewRedisPlanStoreFromURL(url string, ttl time.Duration) (*RedisPlanStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis plan store: parse url: %w", err)
	}
	return NewRedisPlanStore(redis.NewClient(opt), ttl), nil
}

func (s *RedisPlanStore) SavePlan(ctx context.Context, plan *domain.Plan) error {
	if plan == nil || plan.ID == "" {
		return errors.New("save plan: plan id must not be empty")
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save plan: encode plan %s: %w", plan.ID, err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, planKey(plan.ID), data, s.ttl)
		pipe.Set(ctx, dayKey(plan.PlanningDate), plan.ID, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save plan: write plan %s: %w", plan.ID, err)
	}
	return nil
}

func (s *RedisPlanStore) LatestPlan(ctx context.Context, day time.Time) (*domain.Plan, error) {
	id, err := s.rdb.Get(ctx, dayKey(day)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("latest plan for %s: %w", day.Format(time.DateOnly), domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest plan for %s: %w", day.Format(time.DateOnly), err)
	}
	return s.GetPlan(ctx, id)
}

func (s *RedisPlanStore) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	data, err := s.rdb.Get(ctx, planKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get plan %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}

	var plan domain.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("get plan %s: decode: %w", id, err)
	}
	return &plan, nil
}

// Ping verifies the Redis connection.
func (s *RedisPlanStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisPlanStore) Close() error {
	return s.rdb.Close()
}

func planKey(id string) string { return "plan:" + id }

func dayKey(day time.Time) string { return "plans:" + day.Format(time.DateOnly) }
