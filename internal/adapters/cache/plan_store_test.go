package cache

import (
	"context"
	"testing"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testPlan(id string) *domain.Plan {
	p := &domain.Plan{
		ID:           id,
		PlanningDate: day,
		CreatedAt:    time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		Routes: []domain.Route{{
			ID:         "r1",
			VehicleID:  "v1",
			SlotID:     "h1",
			Direction:  domain.Pickup,
			PatientIDs: []string{"p1"},
			Stops: []domain.Stop{
				{Sequence: 1, Type: domain.StopPickup, PatientID: "p1", Location: domain.NewCoordinates(50.7, 7.1)},
				{Sequence: 2, Type: domain.StopDestination, Location: domain.NewCoordinates(50.8, 7.0)},
			},
			Strategy:    domain.StrategyConstraintSearch,
			Constraints: domain.ConstraintReport{Valid: true, Violations: []string{}, Score: 1.5},
		}},
		Unassigned: []domain.UnassignedPatient{},
	}
	p.Summarize()
	return p
}

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisPlanStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisPlanStore(rdb, ttl), mr
}

func exercisePlanStore(t *testing.T, store ports.PlanStore) {
	ctx := context.Background()

	_, err := store.LatestPlan(ctx, day)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetPlan(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.SavePlan(ctx, testPlan("plan-1")))
	require.NoError(t, store.SavePlan(ctx, testPlan("plan-2")))

	latest, err := store.LatestPlan(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "plan-2", latest.ID)

	first, err := store.GetPlan(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, testPlan("plan-1"), first)

	assert.Error(t, store.SavePlan(ctx, &domain.Plan{}))
}

func TestRedisPlanStore(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Hour)
	exercisePlanStore(t, store)
}

func TestMemoryPlanStore(t *testing.T) {
	exercisePlanStore(t, NewMemoryPlanStore())
}

func TestRedisPlanStoreExpires(t *testing.T) {
	store, mr := newMiniredisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SavePlan(ctx, testPlan("plan-1")))
	assert.Equal(t, time.Hour, mr.TTL("plan:plan-1"))
	assert.Equal(t, time.Hour, mr.TTL("plans:2026-03-02"))

	mr.FastForward(2 * time.Hour)
	_, err := store.LatestPlan(ctx, day)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewRedisPlanStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisPlanStoreFromURL("redis://"+mr.Addr()+"/0", time.Minute)
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))

	_, err = NewRedisPlanStoreFromURL("not a url", time.Minute)
	assert.Error(t, err)
}
