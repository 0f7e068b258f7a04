package domain

import (
	"fmt"
	"time"
)

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleUnavailable VehicleStatus = "unavailable"
	VehicleBroken      VehicleStatus = "broken"
	VehicleInRepair    VehicleStatus = "in_repair"
)

// Vehicle is a transport vehicle with regular and wheelchair seats.
// SpecialSeats is a subset of TotalSeats.
type Vehicle struct {
	ID               string
	Plate            string
	Reference        string
	Model            string
	TotalSeats       int
	SpecialSeats     int
	CostPerKm        float64
	MaxRouteDuration time.Duration
	Status           VehicleStatus
}

// Validate rejects malformed vehicles; these are programming/input errors, not
// constraint violations.
func (v *Vehicle) Validate() error {
	if v == nil {
		return fmt.Errorf("%w: vehicle is nil", ErrInvalidVehicle)
	}
	if v.TotalSeats < 0 {
		return fmt.Errorf("%w: vehicle %s has negative capacity %d", ErrInvalidVehicle, v.Label(), v.TotalSeats)
	}
	if v.SpecialSeats < 0 {
		return fmt.Errorf("%w: vehicle %s has negative special seats %d", ErrInvalidVehicle, v.Label(), v.SpecialSeats)
	}
	if v.SpecialSeats > v.TotalSeats {
		return fmt.Errorf(
			"%w: vehicle %s has more special seats (%d) than total seats (%d)",
			ErrInvalidVehicle, v.Label(), v.SpecialSeats, v.TotalSeats,
		)
	}
	return nil
}

// Assignable reports whether the vehicle may receive patients at all.
func (v *Vehicle) Assignable() bool {
	return v.Status == VehicleAvailable
}

// Label returns the human readable identity used in messages.
func (v *Vehicle) Label() string {
	if v.Plate != "" {
		return v.Plate
	}
	return v.ID
}

// MaxRouteMinutes returns the configured maximum route duration in minutes,
// or 0 when no maximum is configured.
func (v *Vehicle) MaxRouteMinutes() float64 {
	if v.MaxRouteDuration <= 0 {
		return 0
	}
	return v.MaxRouteDuration.Minutes()
}

// Fits checks whether the whole group can be seated in the vehicle.
func (v *Vehicle) Fits(patients []*Patient) error {
	if len(patients) > v.TotalSeats {
		return fmt.Errorf("vehicle %s is over capacity (capacity=%d, patients=%d)", v.Label(), v.TotalSeats, len(patients))
	}
	if wc := CountWheelchair(patients); wc > v.SpecialSeats {
		return fmt.Errorf("vehicle %s has %d wheelchair places for %d wheelchair patients", v.Label(), v.SpecialSeats, wc)
	}
	return nil
}
