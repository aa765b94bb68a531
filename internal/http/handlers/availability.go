package handlers

import (
	"net/http"

	"internsaathi/internal/app"
	"internsaathi/internal/http/response"
)

type AvailabilityHandler struct {
	periods *app.AvailabilityService
}

func NewAvailabilityHandler(periods *app.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{periods: periods}
}

func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.periods.List(r.Context(), caller)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.PeriodInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.periods.Create(r.Context(), caller, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.periods.Delete(r.Context(), caller, id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, messageResponse{Message: "Availability period removed."})
}
