package domain

import "time"

type StopType string

const (
	StopOrigin      StopType = "ORIGIN"
	StopPickup      StopType = "PICKUP"
	StopDropoff     StopType = "DROPOFF"
	StopDestination StopType = "DESTINATION"
)

// Represents a single stop in a vehicle route.
// Depot stops have an empty PatientID.
type Stop struct {
	Sequence         int          `json:"sequence"`
	Type             StopType     `json:"type"`
	PatientID        string       `json:"patient_id,omitempty"`
	PatientName      string       `json:"patient_name"`
	Label            string       `json:"label"`
	Address          string       `json:"address"`
	Phone            string       `json:"phone,omitempty"`
	Location         *Coordinates `json:"location"`
	ArriveAt         time.Time    `json:"arrive_at"`
	Wheelchair       bool         `json:"wheelchair"`
	GeocodingWarning string       `json:"geocoding_warning,omitempty"`
}

// IsDepot reports whether the stop is the facility rather than a patient.
func (s Stop) IsDepot() bool {
	return s.Type == StopOrigin || s.Type == StopDestination
}

// ScoreBreakdown lists the raw soft-constraint measurements behind a score.
type ScoreBreakdown struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	Occupancy       float64 `json:"occupancy"`
	LoadPenalty     float64 `json:"load_penalty"`
	WaitingMinutes  float64 `json:"waiting_minutes"`
	Total           float64 `json:"total_score"`
}

// ConstraintReport is the validation and scoring result carried by every route.
type ConstraintReport struct {
	Valid      bool           `json:"hard_constraints_valid"`
	Violations []string       `json:"hard_constraint_violations"`
	Score      float64        `json:"soft_constraints_score"`
	Breakdown  ScoreBreakdown `json:"soft_constraints_breakdown"`
}

// Strategy names the packing path that produced a route.
type Strategy string

const (
	StrategyConstraintSearch Strategy = "constraint_search"
	StrategyFallback         Strategy = "fallback"
)

// Route is the planned trip of one vehicle for one slot and direction.
// It is planning data only; persistence is up to the caller.
type Route struct {
	ID               string           `json:"id"`
	VehicleID        string           `json:"vehicle_id"`
	VehiclePlate     string           `json:"vehicle_plate"`
	VehicleReference string           `json:"vehicle_reference,omitempty"`
	VehicleModel     string           `json:"vehicle_model,omitempty"`
	VehicleCapacity  int              `json:"vehicle_capacity"`
	SpecialSeats     int              `json:"special_seats"`
	SlotID           string           `json:"slot_id"`
	SlotName         string           `json:"slot_name"`
	Direction        Direction        `json:"direction"`
	StartAt          time.Time        `json:"start_at"`
	EndAt            time.Time        `json:"end_at"`
	Stops            []Stop           `json:"stops"`
	PatientIDs       []string         `json:"patient_ids"`
	TotalPatients    int              `json:"total_patients"`
	TotalStops       int              `json:"total_stops"`
	DistanceKm       float64          `json:"distance_km"`
	DurationMinutes  float64          `json:"duration_minutes"`
	Cost             float64          `json:"cost"`
	Strategy         Strategy         `json:"strategy"`
	Constraints      ConstraintReport `json:"constraints"`
}
