package handlers

import (
	"net/http"
	"strings"
	"time"

	"transport-route-service/internal/api/dto"
	"transport-route-service/internal/platform/logger"
	"transport-route-service/internal/services"
)

// ScheduleHandler exposes the slot layouts and slot assignment.
type ScheduleHandler struct {
	Service *services.PlanningService
	Log     logger.Logger
	Now     func() time.Time
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	book, err := h.Service.Schedules(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Log, "list schedules", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewListSchedulesResponse(book))
}

func (h *ScheduleHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if err := h.Service.ActivateSchedule(r.Context(), id); err != nil {
		writeServiceError(w, r, h.Log, "activate schedule", err)
		return
	}

	book, err := h.Service.Schedules(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Log, "list schedules", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewListSchedulesResponse(book))
}

// AssignSlots places the patients of a date into the active schedule's slots.
func (h *ScheduleHandler) AssignSlots(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.AssignSlotsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	day, err := parseDate(req.Date, h.Now)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	res, err := h.Service.AssignSlots(r.Context(), day, req.Reassign)
	if err != nil {
		writeServiceError(w, r, h.Log, "assign slots", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AssignSlotsResponse{
		Date:       day.Format(dto.DateLayout),
		Total:      res.Total,
		Assigned:   res.Assigned,
		Complete:   res.Complete,
		Partial:    res.Partial,
		Unassigned: res.Unassigned,
		Skipped:    res.Skipped,
		OutOfDate:  res.OutOfDate,
	})
}
