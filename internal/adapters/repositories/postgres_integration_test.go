//go:build postgres_integration

package repositories

import (
	"context"
	"os"
	"testing"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepositories(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	conn, err := db.Open(dsn)
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, InitSchema(ctx, conn))
	require.NoError(t, SeedFromJSON(ctx, conn, "testdata/seed.json"))

	schedules := NewPostgresScheduleRepository(conn)
	book, err := schedules.LoadScheduleBook(ctx)
	require.NoError(t, err)
	assert.Equal(t, "winter", book.ActiveID)

	require.NoError(t, schedules.ActivateSchedule(ctx, "summer"))
	book, err = schedules.LoadScheduleBook(ctx)
	require.NoError(t, err)
	assert.Equal(t, "summer", book.ActiveID)
	assert.ErrorIs(t, schedules.ActivateSchedule(ctx, "spring"), domain.ErrNotFound)
	require.NoError(t, schedules.ActivateSchedule(ctx, "winter"))

	vehicles, err := NewPostgresVehicleRepository(conn).ListVehicles(ctx)
	require.NoError(t, err)
	assert.Len(t, vehicles, 3)

	patientsRepo := NewPostgresPatientRepository(conn)
	patients, err := patientsRepo.ListPatients(ctx, seedDay)
	require.NoError(t, err)
	require.Len(t, patients, 3)

	patients[0].PickupSlotID = "w-h1"
	patients[0].VehicleID = "v1"
	patients[0].RefreshStatus()
	require.NoError(t, patientsRepo.SaveAssignments(ctx, patients[:1]))

	patients, err = patientsRepo.ListPatients(ctx, seedDay)
	require.NoError(t, err)
	assert.Equal(t, "w-h1", patients[0].PickupSlotID)
	assert.Equal(t, domain.PatientPartiallyPlanned, patients[0].Status)
}
