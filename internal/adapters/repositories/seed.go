package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"transport-route-service/internal/domain"

	"github.com/google/uuid"
)

// Seed is the JSON layout of the demo/import data file.
type Seed struct {
	ActiveSchedule string         `json:"active_schedule"`
	Schedules      []ScheduleSeed `json:"schedules"`
	Vehicles       []VehicleSeed  `json:"vehicles"`
	Patients       []PatientSeed  `json:"patients"`
}

type ScheduleSeed struct {
	ID    string     `json:"id" yaml:"id"`
	Name  string     `json:"name" yaml:"name"`
	Slots []SlotSeed `json:"slots" yaml:"slots"`
}

type SlotSeed struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// Optional; derived from the name prefix when empty.
	Direction       string `json:"direction" yaml:"direction"`
	Anchor          string `json:"anchor" yaml:"anchor"`
	End             string `json:"end" yaml:"end"`
	Active          bool   `json:"active" yaml:"active"`
	DefaultSelected bool   `json:"default_selected" yaml:"default_selected"`
}

type VehicleSeed struct {
	ID              string  `json:"id"`
	Plate           string  `json:"plate"`
	Reference       string  `json:"reference"`
	Model           string  `json:"model"`
	TotalSeats      int     `json:"total_seats"`
	SpecialSeats    int     `json:"special_seats"`
	CostPerKm       float64 `json:"cost_per_km"`
	MaxRouteMinutes int     `json:"max_route_minutes"`
	Status          string  `json:"status"`
}

type PatientSeed struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	PickupAt        *time.Time `json:"pickup_at"`
	TreatmentEndAt  *time.Time `json:"treatment_end_at"`
	Lat             *float64   `json:"lat"`
	Lon             *float64   `json:"lon"`
	Street          string     `json:"street"`
	PostalCode      string     `json:"postal_code"`
	City            string     `json:"city"`
	GeocodingStatus string     `json:"geocoding_status"`
	Wheelchair      bool       `json:"wheelchair"`
}

// LoadSeed reads and parses a seed file.
func LoadSeed(path string) (*Seed, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", path, err)
	}

	var s Seed
	if err := json.Unmarshal(bytes, &s); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}
	return &s, nil
}

// ScheduleBook converts the seeded schedules, validating slot clocks and directions.
func (s *Seed) ScheduleBook() (*domain.ScheduleBook, error) {
	book := &domain.ScheduleBook{ActiveID: s.ActiveSchedule}

	for i, sc := range s.Schedules {
		id := strings.TrimSpace(sc.ID)
		if id == "" {
			return nil, fmt.Errorf("seed schedules: schedule at index %d: id cannot be empty", i+1)
		}

		schedule := domain.Schedule{ID: id, Name: sc.Name}
		for j, sl := range sc.Slots {
			slot, err := sl.toDomain(id)
			if err != nil {
				return nil, fmt.Errorf("seed schedules: schedule %q slot at index %d: %w", id, j+1, err)
			}
			schedule.Slots = append(schedule.Slots, slot)
		}
		book.Schedules = append(book.Schedules, schedule)
	}

	if book.ActiveID == "" && len(book.Schedules) > 0 {
		book.ActiveID = book.Schedules[0].ID
	}
	return book, nil
}

func (sl SlotSeed) toDomain(scheduleID string) (domain.TimeSlot, error) {
	if strings.TrimSpace(sl.ID) == "" {
		return domain.TimeSlot{}, fmt.Errorf("slot id cannot be empty")
	}

	dir := domain.Direction(strings.ToLower(strings.TrimSpace(sl.Direction)))
	if dir == "" {
		d, ok := domain.DirectionFromName(sl.Name)
		if !ok {
			return domain.TimeSlot{}, fmt.Errorf("slot %q: cannot derive direction from name %q", sl.ID, sl.Name)
		}
		dir = d
	}
	if dir != domain.Pickup && dir != domain.Dropoff {
		return domain.TimeSlot{}, fmt.Errorf("slot %q: unknown direction %q", sl.ID, sl.Direction)
	}

	anchor, err := domain.ParseClock(sl.Anchor)
	if err != nil {
		return domain.TimeSlot{}, fmt.Errorf("slot %q: %w", sl.ID, err)
	}

	var end time.Duration
	if strings.TrimSpace(sl.End) != "" {
		if end, err = domain.ParseClock(sl.End); err != nil {
			return domain.TimeSlot{}, fmt.Errorf("slot %q: %w", sl.ID, err)
		}
	}

	return domain.TimeSlot{
		ID:              sl.ID,
		ScheduleID:      scheduleID,
		Name:            sl.Name,
		Direction:       dir,
		Anchor:          anchor,
		End:             end,
		Active:          sl.Active,
		DefaultSelected: sl.DefaultSelected,
	}, nil
}

// DomainVehicles converts and validates the seeded vehicles.
func (s *Seed) DomainVehicles() ([]*domain.Vehicle, error) {
	out := make([]*domain.Vehicle, 0, len(s.Vehicles))
	for i, v := range s.Vehicles {
		status := domain.VehicleStatus(v.Status)
		if status == "" {
			status = domain.VehicleAvailable
		}

		vehicle := &domain.Vehicle{
			ID:               v.ID,
			Plate:            v.Plate,
			Reference:        v.Reference,
			Model:            v.Model,
			TotalSeats:       v.TotalSeats,
			SpecialSeats:     v.SpecialSeats,
			CostPerKm:        v.CostPerKm,
			MaxRouteDuration: time.Duration(v.MaxRouteMinutes) * time.Minute,
			Status:           status,
		}
		if vehicle.ID == "" {
			vehicle.ID = uuid.NewString()
		}
		if err := vehicle.Validate(); err != nil {
			return nil, fmt.Errorf("seed vehicles: vehicle at index %d: %w", i+1, err)
		}
		out = append(out, vehicle)
	}
	return out, nil
}

// DomainPatients converts the seeded patients; missing ids are generated.
func (s *Seed) DomainPatients() ([]*domain.Patient, error) {
	out := make([]*domain.Patient, 0, len(s.Patients))
	for i, p := range s.Patients {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("seed patients: patient at index %d: name cannot be empty", i+1)
		}

		patient := &domain.Patient{
			ID:              p.ID,
			Name:            p.Name,
			Phone:           p.Phone,
			PickupAt:        p.PickupAt,
			TreatmentEndAt:  p.TreatmentEndAt,
			Address:         domain.Address{Street: p.Street, PostalCode: p.PostalCode, City: p.City},
			GeocodingStatus: domain.GeocodingStatus(p.GeocodingStatus),
			Wheelchair:      p.Wheelchair,
			Status:          domain.PatientNew,
		}
		if patient.ID == "" {
			patient.ID = uuid.NewString()
		}
		if p.Lat != nil && p.Lon != nil {
			loc := domain.Coordinates{Lat: *p.Lat, Lon: *p.Lon}
			if err := loc.Validate(); err != nil {
				return nil, fmt.Errorf("seed patients: patient %q: %w", p.Name, err)
			}
			patient.Location = &loc
		}
		if patient.GeocodingStatus == "" {
			patient.GeocodingStatus = domain.GeocodingPending
			if patient.Location != nil {
				patient.GeocodingStatus = domain.GeocodingSuccess
			}
		}
		out = append(out, patient)
	}
	return out, nil
}
