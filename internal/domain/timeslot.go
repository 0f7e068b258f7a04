package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Direction of a slot or route: patients are fetched (pickup) or brought home (dropoff).
type Direction string

const (
	Pickup  Direction = "pickup"
	Dropoff Direction = "dropoff"
)

// DirectionFromName recognizes the type marker slot names carry by convention
// ("Halen 08:00", "Bringen 16:00", "Pickup ...", "Dropoff ...").
func DirectionFromName(name string) (Direction, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, prefix := range []string{"halen", "holen", "pickup"} {
		if strings.HasPrefix(n, prefix) {
			return Pickup, true
		}
	}
	for _, prefix := range []string{"bringen", "brengen", "dropoff", "drop-off"} {
		if strings.HasPrefix(n, prefix) {
			return Dropoff, true
		}
	}
	return "", false
}

// TimeSlot is a discrete pickup or dropoff window of a daily schedule.
//
// Anchor is a clock offset from midnight: the arrival-at-depot time for pickup
// slots, the latest departure for dropoff slots. End is optional; when set it
// closes the slot explicitly (older [start, end) slot layout).
type TimeSlot struct {
	ID              string
	ScheduleID      string
	Name            string
	Direction       Direction
	Anchor          time.Duration
	End             time.Duration
	Active          bool
	DefaultSelected bool
}

// AnchorOn materializes the anchor on the given planning date.
func (s TimeSlot) AnchorOn(day time.Time) time.Time {
	return ClockOn(day, s.Anchor)
}

// EndOn materializes the explicit end, if the slot has one.
func (s TimeSlot) EndOn(day time.Time) (time.Time, bool) {
	if s.End <= 0 {
		return time.Time{}, false
	}
	return ClockOn(day, s.End), true
}

// Usable reports whether the slot may be used for planning.
func (s TimeSlot) Usable() bool {
	return s.Active && s.DefaultSelected
}

// UsableSlots filters slots to the active, selected ones of one direction,
// ordered by anchor (ties by ID).
func UsableSlots(slots []TimeSlot, d Direction) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Usable() && s.Direction == d {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b TimeSlot) int {
		if a.Anchor != b.Anchor {
			if a.Anchor < b.Anchor {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Schedule is one version of the daily slot layout.
type Schedule struct {
	ID    string
	Name  string
	Slots []TimeSlot
}

// ScheduleBook holds every schedule version and points at the active one.
// Switching the daily layout is a pointer change, never a delete.
type ScheduleBook struct {
	Schedules []Schedule
	ActiveID  string
}

// Activate makes the schedule with the given id the active one.
func (b *ScheduleBook) Activate(id string) error {
	if _, ok := b.find(id); !ok {
		return fmt.Errorf("activate schedule %q: %w", id, ErrNotFound)
	}
	b.ActiveID = id
	return nil
}

// Active returns the active schedule.
func (b *ScheduleBook) Active() (Schedule, error) {
	s, ok := b.find(b.ActiveID)
	if !ok {
		return Schedule{}, fmt.Errorf("active schedule %q: %w", b.ActiveID, ErrNotFound)
	}
	return s, nil
}

// ActiveSlots returns the usable slots (both directions) of the active schedule.
func (b *ScheduleBook) ActiveSlots() ([]TimeSlot, error) {
	s, err := b.Active()
	if err != nil {
		return nil, err
	}

	out := UsableSlots(s.Slots, Pickup)
	out = append(out, UsableSlots(s.Slots, Dropoff)...)
	if len(out) == 0 {
		return nil, fmt.Errorf("schedule %q: %w", s.ID, ErrNoTimeSlots)
	}
	return out, nil
}

func (b *ScheduleBook) find(id string) (Schedule, bool) {
	for _, s := range b.Schedules {
		if s.ID == id {
			return s, true
		}
	}
	return Schedule{}, false
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether t falls on the calendar date of day (in day's location).
func SameDay(t, day time.Time) bool {
	ty, tm, td := t.In(day.Location()).Date()
	dy, dm, dd := day.Date()
	return ty == dy && tm == dm && td == dd
}

// ClockOn places a wall-clock offset on day's date in day's location. The
// offset is read as hours and minutes, so 08:00 stays 08:00 on days when the
// clocks change.
func ClockOn(day time.Time, clock time.Duration) time.Time {
	y, m, d := day.Date()
	h := int(clock / time.Hour)
	mins := int((clock % time.Hour) / time.Minute)
	return time.Date(y, m, d, h, mins, 0, 0, day.Location())
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock renders an offset from midnight as "HH:MM".
func FormatClock(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}
