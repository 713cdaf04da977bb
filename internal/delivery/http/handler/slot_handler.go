package handler

import (
	"errors"
	"net/http"

	"clinic-queue-engine/internal/usecase"
	"clinic-queue-engine/pkg/response"

	"github.com/google/uuid"
)

type SlotHandler struct {
	slotUsecase usecase.SlotUsecase
}

func NewSlotHandler(slotUsecase usecase.SlotUsecase) *SlotHandler {
	return &SlotHandler{slotUsecase: slotUsecase}
}

// GetAvailableSlots returns the bookable slots of a clinic-day,
// optionally narrowed to one doctor.
// GET /api/clinics/{clinicId}/slots?date=YYYY-MM-DD&doctor_id=...
func (h *SlotHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(w, r, "clinicId", "Invalid clinic ID")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}

	var doctorID *uuid.UUID
	if raw := r.URL.Query().Get("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
			return
		}
		doctorID = &id
	}

	slots, err := h.slotUsecase.GetAvailableSlots(r.Context(), clinicID, date, doctorID)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidDateFormat) {
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
			return
		}
		response.InternalServerError(w, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}
