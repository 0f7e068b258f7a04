package services

import (
	"testing"
	"time"

	"transport-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stopsAt places every stop on the same point so each leg costs the travel floor.
func stopsAt(loc domain.Coordinates, n int, start time.Time) []domain.Stop {
	stops := make([]domain.Stop, n)
	for i := range stops {
		l := loc
		stops[i] = domain.Stop{Sequence: i + 1, Type: domain.StopPickup, Location: &l, ArriveAt: start}
	}
	return stops
}

func TestValidatorMeasure(t *testing.T) {
	v := NewValidator(DefaultSettings(), testEstimator())

	km, minutes := v.Measure(stopsAt(testDepot.Location, 3, *at(8, 0)))
	assert.Equal(t, 0.0, km)
	// two legs at the 5 minute floor plus 5 minutes service per stop
	assert.InDelta(t, 25.0, minutes, 1e-9)

	km, minutes = v.Measure(nil)
	assert.Equal(t, 0.0, km)
	assert.Equal(t, 0.0, minutes)
}

func TestValidateHardWheelchairNeedsSpecialSeat(t *testing.T) {
	v := NewValidator(DefaultSettings(), testEstimator())
	vehicle := testVehicle("v1", 8, 0)

	p := testPatient("p1", "Anna", 50.81, 7.0)
	p.Wheelchair = true
	route := &domain.Route{Direction: domain.Dropoff, Stops: stopsAt(*p.Location, 2, *at(16, 0))}

	valid, violations := v.ValidateHard(route, vehicle, []*domain.Patient{p})
	assert.False(t, valid)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "wheelchair")
}

func TestValidateHard(t *testing.T) {
	loc := testDepot.Location

	tests := []struct {
		name      string
		settings  func(*Settings)
		vehicle   *domain.Vehicle
		direction domain.Direction
		patients  int
		arriveAt  time.Time
		desired   *time.Time
		wantValid bool
		wantMsg   string
	}{
		{
			name: "valid", vehicle: testVehicle("v1", 4, 0), direction: domain.Pickup,
			patients: 2, arriveAt: *at(8, 10), desired: at(8, 0), wantValid: true,
		},
		{
			name: "over capacity", vehicle: testVehicle("v1", 1, 0), direction: domain.Dropoff,
			patients: 2, arriveAt: *at(16, 0), wantMsg: "capacity 1 but 2 patients",
		},
		{
			name: "capacity check disabled", settings: func(s *Settings) { s.Hard.Capacity = false },
			vehicle: testVehicle("v1", 1, 0), direction: domain.Dropoff,
			patients: 2, arriveAt: *at(16, 0), wantValid: true,
		},
		{
			name: "not available",
			vehicle: &domain.Vehicle{ID: "v1", Plate: "BN-v1", TotalSeats: 4, Status: domain.VehicleMaintenance},
			direction: domain.Dropoff, patients: 1, arriveAt: *at(16, 0), wantMsg: "not available (status: maintenance)",
		},
		{
			name: "outside time window", vehicle: testVehicle("v1", 4, 0), direction: domain.Pickup,
			patients: 1, arriveAt: *at(8, 20), desired: at(8, 0), wantMsg: "outside tolerance",
		},
		{
			name: "on the tolerance edge", vehicle: testVehicle("v1", 4, 0), direction: domain.Pickup,
			patients: 1, arriveAt: *at(7, 45), desired: at(8, 0), wantValid: true,
		},
		{
			name: "time window ignored for dropoff", vehicle: testVehicle("v1", 4, 0), direction: domain.Dropoff,
			patients: 1, arriveAt: *at(16, 0), desired: at(8, 0), wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			if tt.settings != nil {
				tt.settings(&settings)
			}
			v := NewValidator(settings, testEstimator())

			var patients []*domain.Patient
			route := &domain.Route{Direction: tt.direction}
			for i := 0; i < tt.patients; i++ {
				p := testPatient(string(rune('a'+i)), "Patient", loc.Lat, loc.Lon)
				p.PickupAt = tt.desired
				patients = append(patients, p)

				l := loc
				route.Stops = append(route.Stops, domain.Stop{PatientID: p.ID, Type: domain.StopPickup, Location: &l, ArriveAt: tt.arriveAt})
			}

			valid, violations := v.ValidateHard(route, tt.vehicle, patients)
			assert.Equal(t, tt.wantValid, valid, violations)
			if tt.wantMsg != "" {
				require.NotEmpty(t, violations)
				assert.Contains(t, violations[0], tt.wantMsg)
			} else {
				assert.Empty(t, violations)
			}
		})
	}
}

func TestValidateHardMaxRouteDuration(t *testing.T) {
	v := NewValidator(DefaultSettings(), testEstimator())
	route := &domain.Route{Direction: domain.Dropoff, Stops: stopsAt(testDepot.Location, 3, *at(16, 0))}

	vehicle := testVehicle("v1", 4, 0)
	vehicle.MaxRouteDuration = 20 * time.Minute
	valid, violations := v.ValidateHard(route, vehicle, nil)
	assert.False(t, valid)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "route time (25 min) exceeds maximum (20 min)")

	vehicle.MaxRouteDuration = 25 * time.Minute
	valid, _ = v.ValidateHard(route, vehicle, nil)
	assert.True(t, valid)

	vehicle.MaxRouteDuration = 0
	valid, _ = v.ValidateHard(route, vehicle, nil)
	assert.True(t, valid)
}

func TestScoreSoft(t *testing.T) {
	v := NewValidator(DefaultSettings(), testEstimator())
	vehicle := testVehicle("v1", 4, 0)

	p := testPatient("p1", "Anna", testDepot.Location.Lat, testDepot.Location.Lon)
	p.PickupAt = at(8, 0)

	stops := stopsAt(testDepot.Location, 2, *at(8, 10))
	stops[0].PatientID = p.ID
	stops[1].Type = domain.StopDestination

	route := &domain.Route{Direction: domain.Pickup, Stops: stops}
	score, b := v.ScoreSoft(route, vehicle, []*domain.Patient{p})

	assert.InDelta(t, 0.0, b.DistanceKm, 1e-9)
	assert.InDelta(t, 15.0, b.DurationMinutes, 1e-9)
	assert.InDelta(t, 0.25, b.Occupancy, 1e-9)
	assert.InDelta(t, 5.0, b.LoadPenalty, 1e-9)
	assert.InDelta(t, 10.0, b.WaitingMinutes, 1e-9)
	// 15*0.05 + 5 + 10*0.2
	assert.InDelta(t, 7.75, score, 1e-9)
	assert.Equal(t, score, b.Total)

	route.Direction = domain.Dropoff
	score, b = v.ScoreSoft(route, vehicle, []*domain.Patient{p})
	assert.Equal(t, 0.0, b.WaitingMinutes)
	assert.InDelta(t, 5.75, score, 1e-9)
}

func TestLoadPenalty(t *testing.T) {
	v := NewValidator(DefaultSettings(), testEstimator())

	assert.InDelta(t, 30.0, v.loadPenalty(0), 1e-9)
	assert.InDelta(t, 0.0, v.loadPenalty(0.3), 1e-9)
	assert.InDelta(t, 0.0, v.loadPenalty(0.9), 1e-9)
	assert.InDelta(t, 5.0, v.loadPenalty(1.0), 1e-9)
}

func TestEvaluateBundlesBothChecks(t *testing.T) {
	v := NewValidator(DefaultSettings(), testEstimator())
	route := &domain.Route{Direction: domain.Dropoff, Stops: stopsAt(testDepot.Location, 2, *at(16, 0))}

	report := v.Evaluate(route, testVehicle("v1", 0, 0), []*domain.Patient{testPatient("p1", "Anna", 50.8, 7.0)})
	assert.False(t, report.Valid)
	assert.Len(t, report.Violations, 1)
	assert.Equal(t, report.Score, report.Breakdown.Total)
}
