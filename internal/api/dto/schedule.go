package dto

import "transport-route-service/internal/domain"

type TimeSlotResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Direction       domain.Direction `json:"direction"`
	Anchor          string           `json:"anchor"`
	End             string           `json:"end,omitempty"`
	Active          bool             `json:"active"`
	DefaultSelected bool             `json:"default_selected"`
}

type ScheduleResponse struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Active bool               `json:"active"`
	Slots  []TimeSlotResponse `json:"slots"`
}

type ListSchedulesResponse struct {
	ActiveID  string             `json:"active_id"`
	Schedules []ScheduleResponse `json:"schedules"`
}

func NewListSchedulesResponse(book *domain.ScheduleBook) ListSchedulesResponse {
	res := ListSchedulesResponse{
		ActiveID:  book.ActiveID,
		Schedules: make([]ScheduleResponse, 0, len(book.Schedules)),
	}
	for _, s := range book.Schedules {
		sr := ScheduleResponse{
			ID:     s.ID,
			Name:   s.Name,
			Active: s.ID == book.ActiveID,
			Slots:  make([]TimeSlotResponse, 0, len(s.Slots)),
		}
		for _, slot := range s.Slots {
			ts := TimeSlotResponse{
				ID:              slot.ID,
				Name:            slot.Name,
				Direction:       slot.Direction,
				Anchor:          domain.FormatClock(slot.Anchor),
				Active:          slot.Active,
				DefaultSelected: slot.DefaultSelected,
			}
			if slot.End > 0 {
				ts.End = domain.FormatClock(slot.End)
			}
			sr.Slots = append(sr.Slots, ts)
		}
		res.Schedules = append(res.Schedules, sr)
	}
	return res
}
