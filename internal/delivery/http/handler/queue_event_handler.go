package handler

import (
	"net/http"
	"strconv"

	"clinic-queue-engine/internal/usecase"
	"clinic-queue-engine/pkg/response"
)

type QueueEventHandler struct {
	eventUsecase usecase.QueueEventUsecase
}

func NewQueueEventHandler(eventUsecase usecase.QueueEventUsecase) *QueueEventHandler {
	return &QueueEventHandler{eventUsecase: eventUsecase}
}

// ListEvents returns the most recent audit events for a clinic.
// GET /api/v1/admin/clinics/{clinicId}/events?limit=100
func (h *QueueEventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(w, r, "clinicId", "Invalid clinic ID")
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
		limit = parsed
	}

	events, err := h.eventUsecase.ListEvents(r.Context(), clinicID, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list queue events")
		return
	}

	response.Success(w, http.StatusOK, "Queue events retrieved successfully", events)
}
