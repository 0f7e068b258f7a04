package handlers

import (
	"net/http"
	"strings"
	"time"

	"transport-route-service/internal/api/dto"
	"transport-route-service/internal/platform/logger"
	"transport-route-service/internal/services"
)

type PlanHandler struct {
	Service *services.PlanningService
	Log     logger.Logger
	Now     func() time.Time
}

// Plan runs a planning pass for the requested date and returns the stored plan.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	day, err := parseDate(req.Date, h.Now)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	plan, err := h.Service.PlanDay(r.Context(), services.PlanRequest{
		PlanningDate: day,
		AssignSlots:  req.AssignSlots,
		Reassign:     req.Reassign,
	})
	if err != nil {
		writeServiceError(w, r, h.Log, "plan day", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewPlanResponse(plan))
}

// Latest returns the most recent plan of ?date= (default today).
func (h *PlanHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	day, err := parseDate(r.URL.Query().Get("date"), h.Now)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	plan, err := h.Service.LatestPlan(r.Context(), day)
	if err != nil {
		writeServiceError(w, r, h.Log, "latest plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "plan id is required")
		return
	}

	plan, err := h.Service.GetPlan(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.Log, "get plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}
