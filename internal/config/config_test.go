package config

import (
	"testing"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/geo"
	"transport-route-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "REDIS_URL", "PLAN_TTL_HOURS", "PLANNING_PROFILE", "DEPOT_LAT", "DEPOT_LON", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 72*time.Hour, cfg.PlanTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.Depot)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URL", " redis://localhost:6379/0 ")
	t.Setenv("PLAN_TTL_HOURS", "12")
	t.Setenv("WRITE_TIMEOUT", "not-a-number")
	t.Setenv("DEPOT_LAT", "50.7374")
	t.Setenv("DEPOT_LON", "7.0982")
	t.Setenv("DEPOT_NAME", "Therapiezentrum")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 12*time.Hour, cfg.PlanTTL)
	assert.Equal(t, 60*time.Second, cfg.WriteTimeout, "unparsable values fall back to the default")
	require.NotNil(t, cfg.Depot)
	assert.Equal(t, "Therapiezentrum", cfg.Depot.Name)
	assert.Equal(t, domain.DefaultDepot().Address, cfg.Depot.Address)
	assert.InDelta(t, 50.7374, cfg.Depot.Location.Lat, 1e-9)
}

func TestLoadConfigRejectsBadDepot(t *testing.T) {
	t.Setenv("DEPOT_LAT", "north")
	t.Setenv("DEPOT_LON", "7.0")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("DEPOT_LAT", "123")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestDefaultProfileMatchesDefaultSettings(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)

	assert.Equal(t, services.DefaultSettings(), p.Settings())
	assert.Equal(t, geo.DefaultTravelModel(), p.Travel)

	book, err := p.ScheduleBook()
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestLoadProfileOverridesDefaults(t *testing.T) {
	p, err := LoadProfile("testdata/profile.yaml")
	require.NoError(t, err)

	s := p.Settings()
	assert.Equal(t, 0.2, s.Weights.Distance)
	assert.Equal(t, 0.5, s.Weights.Waiting)
	assert.Equal(t, 0.05, s.Weights.Time, "keys missing from the file keep defaults")
	assert.False(t, s.Hard.TimeWindow)
	assert.True(t, s.Hard.Capacity)
	assert.Equal(t, 20*time.Minute, s.TimeWindowTolerance)
	assert.Equal(t, 3.0, s.ServiceMinutes)
	assert.Zero(t, s.LastSlotWindow)
	assert.Equal(t, 100.0, s.UnservedWeight)

	assert.Equal(t, geo.TravelModel{SpeedKmh: 25, UrbanFactor: 1.4, MinMinutes: 4, MaxMinutes: 75}, p.Travel)
}

func TestProfileScheduleBook(t *testing.T) {
	p, err := LoadProfile("testdata/profile.yaml")
	require.NoError(t, err)

	book, err := p.ScheduleBook()
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "winter", book.ActiveID)
	require.Len(t, book.Schedules, 2)

	slots, err := book.ActiveSlots()
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, domain.Pickup, slots[0].Direction, "direction derived from the slot name")
	assert.Equal(t, domain.Dropoff, slots[2].Direction)
	assert.Equal(t, 9*time.Hour+30*time.Minute, slots[1].Anchor)

	assert.Equal(t, domain.Pickup, book.Schedules[1].Slots[0].Direction)
}

func TestLoadProfileErrors(t *testing.T) {
	_, err := LoadProfile("testdata/missing.yaml")
	assert.Error(t, err)

	_, err = LoadProfile("testdata/bad_load_balance.yaml")
	assert.ErrorContains(t, err, "load_balance.low")
}

func TestResolveDepot(t *testing.T) {
	envDepot := &domain.Depot{Name: "Env", Location: domain.Coordinates{Lat: 1, Lon: 2}}
	p, err := LoadProfile("testdata/profile.yaml")
	require.NoError(t, err)

	assert.Equal(t, *envDepot, ResolveDepot(&Config{Depot: envDepot}, p))

	fromProfile := ResolveDepot(&Config{}, p)
	assert.Equal(t, "Therapiezentrum Bonn", fromProfile.Name)
	assert.Equal(t, domain.DefaultDepot().Address, fromProfile.Address)
	assert.InDelta(t, 7.0982, fromProfile.Location.Lon, 1e-9)

	assert.Equal(t, domain.DefaultDepot(), ResolveDepot(&Config{}, DefaultProfile()))
}

func TestProfileEstimator(t *testing.T) {
	p, err := LoadProfile("testdata/profile.yaml")
	require.NoError(t, err)
	est := p.Estimator()

	depot := domain.NewCoordinates(50.7374, 7.0982)
	patient := domain.NewCoordinates(50.735, 7.1)
	assert.Equal(t, 1.2, est.DistanceKm(depot, patient))
	assert.Equal(t, 1.2, est.DistanceKm(patient, depot), "table entries apply both ways")

	other := domain.NewCoordinates(50.8, 7.0)
	assert.InDelta(t, geo.DistanceKm(depot, other), est.DistanceKm(depot, other), 1e-9)
	assert.Equal(t, p.Travel.Minutes(12), est.TravelMinutes(12))
}
