package services

import (
	"fmt"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/platform/logger"
)

// SlotWindow is the acceptance interval [From, To) of one pickup slot on a
// planning date. Open windows have no upper bound.
type SlotWindow struct {
	Slot domain.TimeSlot
	From time.Time
	To   time.Time
	Open bool
}

// Contains reports whether t falls inside the window.
func (w SlotWindow) Contains(t time.Time) bool {
	if t.Before(w.From) {
		return false
	}
	return w.Open || t.Before(w.To)
}

// SlotAssignmentResult counts per-patient outcomes of one assignment run.
type SlotAssignmentResult struct {
	Total int `json:"total"`
	// Patients that received at least one slot in this run.
	Assigned   int `json:"assigned"`
	Complete   int `json:"complete"`
	Partial    int `json:"partial"`
	Unassigned int `json:"unassigned"`
	Skipped    int `json:"skipped"`
	// Patients with a desired time on another date than the planning date.
	OutOfDate int `json:"out_of_date"`
}

// SlotAssigner places patients into pickup and dropoff slots.
type SlotAssigner struct {
	lastSlotWindow time.Duration
	log            logger.Logger
}

func NewSlotAssigner(settings Settings, log logger.Logger) *SlotAssigner {
	return &SlotAssigner{lastSlotWindow: settings.LastSlotWindow, log: log}
}

// PickupWindows returns the acceptance windows of the usable pickup slots on day.
//
// Slot i accepts [anchor_i, anchor_i+1). The last slot ends at its explicit end
// when it has one, else after the configured fallback window, else never.
func (a *SlotAssigner) PickupWindows(day time.Time, slots []domain.TimeSlot) []SlotWindow {
	pickup := domain.UsableSlots(slots, domain.Pickup)
	windows := make([]SlotWindow, 0, len(pickup))

	for i, s := range pickup {
		w := SlotWindow{Slot: s, From: s.AnchorOn(day)}
		switch {
		case i+1 < len(pickup):
			w.To = pickup[i+1].AnchorOn(day)
		default:
			if end, ok := s.EndOn(day); ok && end.After(w.From) {
				w.To = end
			} else if a.lastSlotWindow > 0 {
				w.To = w.From.Add(a.lastSlotWindow)
			} else {
				w.Open = true
			}
		}
		windows = append(windows, w)
	}
	return windows
}

// PickupSlotFor buckets a desired pickup time into its pickup slot.
func (a *SlotAssigner) PickupSlotFor(day, desired time.Time, slots []domain.TimeSlot) (domain.TimeSlot, bool) {
	for _, w := range a.PickupWindows(day, slots) {
		if w.Contains(desired) {
			return w.Slot, true
		}
	}
	return domain.TimeSlot{}, false
}

// DropoffSlotFor returns the first dropoff slot anchored at or after the
// treatment end, or the last dropoff slot when treatment ends after all of them.
func (a *SlotAssigner) DropoffSlotFor(day, treatmentEnd time.Time, slots []domain.TimeSlot) (domain.TimeSlot, bool) {
	dropoff := domain.UsableSlots(slots, domain.Dropoff)
	if len(dropoff) == 0 {
		return domain.TimeSlot{}, false
	}

	for _, s := range dropoff {
		if !s.AnchorOn(day).Before(treatmentEnd) {
			return s, true
		}
	}
	return dropoff[len(dropoff)-1], true
}

// AssignSlots writes pickup and dropoff slot references onto the patients.
//
// Patients that already hold both slots are left alone unless reassign is set.
// A direction whose desired time is missing, on another date, or outside every
// window is cleared. No slot capacity is checked here.
func (a *SlotAssigner) AssignSlots(day time.Time, patients []*domain.Patient, slots []domain.TimeSlot, reassign bool) (SlotAssignmentResult, error) {
	res := SlotAssignmentResult{Total: len(patients)}
	if len(domain.UsableSlots(slots, domain.Pickup)) == 0 && len(domain.UsableSlots(slots, domain.Dropoff)) == 0 {
		return res, fmt.Errorf("assign slots: %w", domain.ErrNoTimeSlots)
	}

	for _, p := range patients {
		if !reassign && p.PickupSlotID != "" && p.DropoffSlotID != "" {
			res.Skipped++
			continue
		}

		outOfDate := false
		p.PickupSlotID = ""
		if t := p.PickupAt; t != nil {
			if !domain.SameDay(*t, day) {
				outOfDate = true
			} else if s, ok := a.PickupSlotFor(day, *t, slots); ok {
				p.PickupSlotID = s.ID
			}
		}

		p.DropoffSlotID = ""
		if t := p.TreatmentEndAt; t != nil {
			if !domain.SameDay(*t, day) {
				outOfDate = true
			} else if s, ok := a.DropoffSlotFor(day, *t, slots); ok {
				p.DropoffSlotID = s.ID
			}
		}

		p.RefreshStatus()
		if outOfDate {
			res.OutOfDate++
		}
		switch p.Status {
		case domain.PatientPlanned:
			res.Assigned++
			res.Complete++
		case domain.PatientPartiallyPlanned:
			res.Assigned++
			res.Partial++
		default:
			res.Unassigned++
		}
	}

	a.log.Info("slot assignment finished",
		"planning_date", day.Format(time.DateOnly),
		"total", res.Total,
		"complete", res.Complete,
		"partial", res.Partial,
		"unassigned", res.Unassigned,
		"skipped", res.Skipped,
		"out_of_date", res.OutOfDate,
	)
	return res, nil
}
