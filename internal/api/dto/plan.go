package dto

import (
	"time"

	"transport-route-service/internal/domain"
)

// DateLayout is the wire format of planning dates.
const DateLayout = "2006-01-02"

type AssignSlotsRequest struct {
	Date     string `json:"date"`
	Reassign bool   `json:"reassign"`
}

type AssignSlotsResponse struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Assigned   int    `json:"assigned"`
	Complete   int    `json:"complete"`
	Partial    int    `json:"partial"`
	Unassigned int    `json:"unassigned"`
	Skipped    int    `json:"skipped"`
	OutOfDate  int    `json:"out_of_date"`
}

type PlanRequest struct {
	Date        string `json:"date"`
	AssignSlots bool   `json:"assign_slots"`
	Reassign    bool   `json:"reassign"`
}

type PlanResponse struct {
	ID           string                     `json:"id"`
	PlanningDate string                     `json:"planning_date"`
	CreatedAt    time.Time                  `json:"created_at"`
	Summary      domain.PlanSummary         `json:"summary"`
	Routes       []RouteResponse            `json:"routes"`
	Unassigned   []domain.UnassignedPatient `json:"unassigned"`
}

type RouteResponse struct {
	ID              string                  `json:"id"`
	Vehicle         VehicleResponse         `json:"vehicle"`
	SlotID          string                  `json:"slot_id"`
	SlotName        string                  `json:"slot_name"`
	Direction       domain.Direction        `json:"direction"`
	StartAt         time.Time               `json:"start_at"`
	EndAt           time.Time               `json:"end_at"`
	TotalPatients   int                     `json:"total_patients"`
	TotalStops      int                     `json:"total_stops"`
	DistanceKm      float64                 `json:"distance_km"`
	DurationMinutes float64                 `json:"duration_minutes"`
	Cost            float64                 `json:"cost"`
	Strategy        domain.Strategy         `json:"strategy"`
	Constraints     domain.ConstraintReport `json:"constraints"`
	PatientIDs      []string                `json:"patient_ids"`
	Stops           []domain.Stop           `json:"stops"`
}

type VehicleResponse struct {
	ID           string `json:"id"`
	Plate        string `json:"plate"`
	Reference    string `json:"reference,omitempty"`
	Model        string `json:"model,omitempty"`
	Capacity     int    `json:"capacity"`
	SpecialSeats int    `json:"special_seats"`
}

// NewPlanResponse maps a domain plan onto its wire shape.
func NewPlanResponse(p *domain.Plan) PlanResponse {
	res := PlanResponse{
		ID:           p.ID,
		PlanningDate: p.PlanningDate.Format(DateLayout),
		CreatedAt:    p.CreatedAt,
		Summary:      p.Summary,
		Routes:       make([]RouteResponse, 0, len(p.Routes)),
		Unassigned:   p.Unassigned,
	}
	if res.Unassigned == nil {
		res.Unassigned = []domain.UnassignedPatient{}
	}

	for _, r := range p.Routes {
		res.Routes = append(res.Routes, RouteResponse{
			ID: r.ID,
			Vehicle: VehicleResponse{
				ID:           r.VehicleID,
				Plate:        r.VehiclePlate,
				Reference:    r.VehicleReference,
				Model:        r.VehicleModel,
				Capacity:     r.VehicleCapacity,
				SpecialSeats: r.SpecialSeats,
			},
			SlotID:          r.SlotID,
			SlotName:        r.SlotName,
			Direction:       r.Direction,
			StartAt:         r.StartAt,
			EndAt:           r.EndAt,
			TotalPatients:   r.TotalPatients,
			TotalStops:      r.TotalStops,
			DistanceKm:      r.DistanceKm,
			DurationMinutes: r.DurationMinutes,
			Cost:            r.Cost,
			Strategy:        r.Strategy,
			Constraints:     r.Constraints,
			PatientIDs:      r.PatientIDs,
			Stops:           r.Stops,
		})
	}
	return res
}
