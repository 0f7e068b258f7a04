package services

import (
	"fmt"
	"testing"

	"transport-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPacker(settings Settings) *Packer {
	est := testEstimator()
	assembler := NewRouteAssembler(NewValidator(settings, est), NewSequencer(settings, est))
	return NewPacker(settings, assembler, nopLogger())
}

func dropoffGroup(t *testing.T, n int) SlotGroup {
	g := SlotGroup{Slot: testSlot(t, "b1", domain.Dropoff, "16:00"), Direction: domain.Dropoff}
	for i := 0; i < n; i++ {
		g.Patients = append(g.Patients, testPatient(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Patient %d", i+1), 50.81+float64(i)*0.005, 7.0))
	}
	return g
}

func routePatientCount(r domain.Route, patients []*domain.Patient) (total, wheelchair int) {
	byID := indexPatients(patients)
	for _, id := range r.PatientIDs {
		total++
		if byID[id].Wheelchair {
			wheelchair++
		}
	}
	return total, wheelchair
}

func TestPackCapacityOverflowFallsBack(t *testing.T) {
	p := newTestPacker(DefaultSettings())
	g := dropoffGroup(t, 6)

	res := p.Pack(testDay, testDepot, g, []*domain.Vehicle{testVehicle("v1", 4, 0)})

	assert.True(t, res.Fallback)
	require.Len(t, res.Routes, 1)
	r := res.Routes[0]
	assert.Equal(t, domain.StrategyFallback, r.Strategy)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, r.PatientIDs)
	assert.Equal(t, 4, r.TotalPatients)

	require.Len(t, res.Unassigned, 2)
	assert.Equal(t, "p5", res.Unassigned[0].ID)
	assert.Equal(t, "p6", res.Unassigned[1].ID)
}

func TestPackConstraintSearchTakesWholeGroup(t *testing.T) {
	p := newTestPacker(DefaultSettings())
	g := dropoffGroup(t, 3)

	res := p.Pack(testDay, testDepot, g, []*domain.Vehicle{testVehicle("v1", 8, 0)})

	assert.False(t, res.Fallback)
	require.Len(t, res.Routes, 1)
	r := res.Routes[0]
	assert.Equal(t, domain.StrategyConstraintSearch, r.Strategy)
	assert.True(t, r.Constraints.Valid)
	assert.Len(t, r.PatientIDs, 3)
	assert.Empty(t, res.Unassigned)
	assert.Equal(t, 4, r.TotalStops)
}

func TestPackConstraintSearchSkipsVehiclesThatCannotSeatGroup(t *testing.T) {
	p := newTestPacker(DefaultSettings())
	g := dropoffGroup(t, 3)

	res := p.Pack(testDay, testDepot, g, []*domain.Vehicle{testVehicle("small", 2, 0), testVehicle("big", 8, 0)})

	assert.False(t, res.Fallback)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, "big", res.Routes[0].VehicleID)
	assert.Empty(t, res.Unassigned)
}

func TestPackKeepsBestScoringCandidate(t *testing.T) {
	p := newTestPacker(DefaultSettings())

	// spread patients far apart so every extra stop costs more than it saves
	g := SlotGroup{Slot: testSlot(t, "b1", domain.Dropoff, "16:00"), Direction: domain.Dropoff}
	g.Patients = []*domain.Patient{
		testPatient("p1", "A", 50.81, 7.0),
		testPatient("p2", "B", 51.30, 7.9),
		testPatient("p3", "C", 50.20, 6.1),
	}
	vehicle := testVehicle("v1", 3, 0)

	res := p.Pack(testDay, testDepot, g, []*domain.Vehicle{vehicle})
	require.Len(t, res.Routes, 1)
	assert.False(t, res.Fallback)
	assert.Equal(t, []string{"p1"}, res.Routes[0].PatientIDs)
	assert.Len(t, res.Unassigned, 2)

	// no other valid prefix scores lower
	for k := 2; k <= 3; k++ {
		other := p.assembler.Assemble(RouteRequest{
			Vehicle: vehicle, Slot: g.Slot, Direction: g.Direction, PlanningDate: testDay,
			Depot: testDepot, Patients: g.Patients[:k], Strategy: domain.StrategyConstraintSearch,
		})
		if other.Constraints.Valid {
			assert.Less(t, res.Routes[0].Constraints.Score, other.Constraints.Score, "k=%d", k)
		}
	}
}

func TestPackUnservedPenaltyPrefersFullerRoutes(t *testing.T) {
	settings := DefaultSettings()
	settings.UnservedWeight = 100
	p := newTestPacker(settings)

	g := SlotGroup{Slot: testSlot(t, "b1", domain.Dropoff, "16:00"), Direction: domain.Dropoff}
	g.Patients = []*domain.Patient{
		testPatient("p1", "A", 50.81, 7.0),
		testPatient("p2", "B", 51.30, 7.9),
		testPatient("p3", "C", 50.20, 6.1),
	}

	res := p.Pack(testDay, testDepot, g, []*domain.Vehicle{testVehicle("v1", 3, 0)})
	require.Len(t, res.Routes, 1)
	assert.Equal(t, 3, res.Routes[0].TotalPatients)
	assert.Empty(t, res.Unassigned)
}

func TestPackWheelchairWithoutSpecialSeats(t *testing.T) {
	p := newTestPacker(DefaultSettings())
	g := dropoffGroup(t, 2)
	g.Patients[0].Wheelchair = true

	res := p.Pack(testDay, testDepot, g, []*domain.Vehicle{testVehicle("v1", 4, 0)})

	assert.True(t, res.Fallback)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, []string{"p2"}, res.Routes[0].PatientIDs)
	assert.True(t, res.Routes[0].Constraints.Valid)
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, "p1", res.Unassigned[0].ID)
}

func TestPackFallbackFillsLargestVehicleFirst(t *testing.T) {
	p := newTestPacker(DefaultSettings())
	g := dropoffGroup(t, 6)
	g.Patients[0].Wheelchair = true

	vehicles := []*domain.Vehicle{testVehicle("two", 2, 1), testVehicle("three", 3, 0)}
	res := p.Pack(testDay, testDepot, g, vehicles)

	assert.True(t, res.Fallback)
	require.Len(t, res.Routes, 2)
	assert.Equal(t, "three", res.Routes[0].VehicleID)
	assert.Equal(t, []string{"p2", "p3", "p4"}, res.Routes[0].PatientIDs)
	assert.Equal(t, "two", res.Routes[1].VehicleID)
	assert.Equal(t, []string{"p1", "p5"}, res.Routes[1].PatientIDs)
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, "p6", res.Unassigned[0].ID)

	for _, r := range res.Routes {
		total, wc := routePatientCount(r, g.Patients)
		assert.LessOrEqual(t, total, r.VehicleCapacity)
		assert.LessOrEqual(t, wc, r.SpecialSeats)
	}
}

func TestPackFallbackKeepsInvalidRoutesFlagged(t *testing.T) {
	p := newTestPacker(DefaultSettings())

	// desired pickups far from the slot anchor break the time window for every prefix
	g := SlotGroup{Slot: testSlot(t, "h1", domain.Pickup, "08:00"), Direction: domain.Pickup}
	for i, name := range []string{"A", "B"} {
		pt := testPatient(fmt.Sprintf("p%d", i+1), name, 50.81, 7.0)
		pt.PickupAt = at(9, 0)
		g.Patients = append(g.Patients, pt)
	}

	res := p.Pack(testDay, testDepot, g, []*domain.Vehicle{testVehicle("v1", 4, 0)})

	assert.True(t, res.Fallback)
	require.Len(t, res.Routes, 1)
	assert.False(t, res.Routes[0].Constraints.Valid)
	assert.NotEmpty(t, res.Routes[0].Constraints.Violations)
	assert.Empty(t, res.Unassigned)
}

func TestPackEmptyGroup(t *testing.T) {
	p := newTestPacker(DefaultSettings())
	res := p.Pack(testDay, testDepot, SlotGroup{}, []*domain.Vehicle{testVehicle("v1", 4, 0)})
	assert.Empty(t, res.Routes)
	assert.Empty(t, res.Unassigned)
	assert.False(t, res.Fallback)
}
