package domain

import "errors"

var (
	// ErrNoVehicles is returned when patients need routing but no vehicle can be used.
	ErrNoVehicles = errors.New("no assignable vehicles")
	// ErrNoTimeSlots is returned when an operation needs at least one usable slot.
	ErrNoTimeSlots = errors.New("no usable time slots")
	// ErrInvalidVehicle marks malformed vehicle input (negative capacity and the like).
	ErrInvalidVehicle = errors.New("invalid vehicle")
	ErrNotFound       = errors.New("not found")
)
