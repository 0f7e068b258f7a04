package services

import (
	"testing"
	"time"

	"transport-route-service/internal/adapters/distance"
	"transport-route-service/internal/domain"
	"transport-route-service/internal/geo"
	"transport-route-service/internal/platform/logger"
	"transport-route-service/internal/ports"

	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

var testDepot = domain.Depot{
	Name:     "Reha Center",
	Address:  "Reha Center, treatment location",
	Location: domain.Coordinates{Lat: 50.8, Lon: 7.0},
}

func at(h, m int) *time.Time {
	t := testDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	return &t
}

func testSlot(t *testing.T, id string, dir domain.Direction, hhmm string) domain.TimeSlot {
	t.Helper()
	anchor, err := domain.ParseClock(hhmm)
	require.NoError(t, err)
	name := "Halen " + hhmm
	if dir == domain.Dropoff {
		name = "Bringen " + hhmm
	}
	return domain.TimeSlot{
		ID:              id,
		ScheduleID:      "default",
		Name:            name,
		Direction:       dir,
		Anchor:          anchor,
		Active:          true,
		DefaultSelected: true,
	}
}

func testPatient(id, name string, lat, lon float64) *domain.Patient {
	return &domain.Patient{
		ID:              id,
		Name:            name,
		Location:        domain.NewCoordinates(lat, lon),
		Address:         domain.Address{Street: "Hauptstr. 1", PostalCode: "53111", City: "Bonn"},
		GeocodingStatus: domain.GeocodingSuccess,
	}
}

func testVehicle(id string, seats, special int) *domain.Vehicle {
	return &domain.Vehicle{
		ID:           id,
		Plate:        "BN-" + id,
		TotalSeats:   seats,
		SpecialSeats: special,
		CostPerKm:    0.5,
		Status:       domain.VehicleAvailable,
	}
}

func testEstimator() ports.DistanceEstimator {
	return distance.NewHaversineEstimator(geo.DefaultTravelModel())
}

func nopLogger() logger.Logger {
	return logger.NewNop()
}
