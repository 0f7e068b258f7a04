package domain

import (
	"strings"
	"time"
)

type GeocodingStatus string

const (
	GeocodingPending GeocodingStatus = "pending"
	GeocodingSuccess GeocodingStatus = "success"
	GeocodingFailed  GeocodingStatus = "failed"
	// GeocodingDefault means the importer fell back to a default location.
	GeocodingDefault GeocodingStatus = "default"
)

type PatientStatus string

const (
	PatientNew              PatientStatus = "new"
	PatientPlanned          PatientStatus = "planned"
	PatientPartiallyPlanned PatientStatus = "partially_planned"
)

// Textual address parts as delivered by the import layer.
type Address struct {
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}

// Complete reports whether street, postal code and city are all present.
func (a Address) Complete() bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.PostalCode) != "" &&
		strings.TrimSpace(a.City) != ""
}

// Line joins the non-empty address parts.
func (a Address) Line() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.PostalCode, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "no address available"
	}
	return strings.Join(parts, ", ")
}

// Patient is the transport request of one person for one treatment day.
//
// PickupAt is the desired pickup (first appointment) and TreatmentEndAt the end of
// the last treatment; either may be nil. Slot and vehicle references are empty
// until the assignment steps fill them in.
type Patient struct {
	ID              string
	Name            string
	Phone           string
	PickupAt        *time.Time
	TreatmentEndAt  *time.Time
	Location        *Coordinates
	Address         Address
	GeocodingStatus GeocodingStatus
	Wheelchair      bool

	PickupSlotID  string
	DropoffSlotID string
	VehicleID     string
	Status        PatientStatus
}

// DesiredTime returns the time that drives slot selection for the given direction.
func (p *Patient) DesiredTime(d Direction) *time.Time {
	if d == Pickup {
		return p.PickupAt
	}
	return p.TreatmentEndAt
}

// SlotID returns the assigned slot for the given direction ("" when unassigned).
func (p *Patient) SlotID(d Direction) string {
	if d == Pickup {
		return p.PickupSlotID
	}
	return p.DropoffSlotID
}

// GeocodingWarning describes why the patient's location may be unreliable.
// An empty string means the location looks trustworthy.
func (p *Patient) GeocodingWarning() string {
	if !p.Address.Complete() {
		return "Incomplete address - add street, postal code and city"
	}

	switch p.GeocodingStatus {
	case GeocodingFailed:
		return "Address not found - check the location"
	case GeocodingDefault:
		return "Default location used - verify the address"
	case GeocodingPending, "":
		return "Address not yet geocoded - run geocoding"
	}

	if p.Location == nil {
		return "No GPS coordinates - run geocoding"
	}
	return ""
}

// RefreshStatus derives the planning status from the assigned slots.
func (p *Patient) RefreshStatus() {
	switch {
	case p.PickupSlotID != "" && p.DropoffSlotID != "":
		p.Status = PatientPlanned
	case p.PickupSlotID != "" || p.DropoffSlotID != "":
		p.Status = PatientPartiallyPlanned
	default:
		p.Status = PatientNew
	}
}

// CountWheelchair returns the number of wheelchair users in patients.
func CountWheelchair(patients []*Patient) int {
	n := 0
	for _, p := range patients {
		if p.Wheelchair {
			n++
		}
	}
	return n
}
