package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/usecase"
	"clinic-queue-engine/pkg/response"
	"clinic-queue-engine/pkg/validator"
)

type QueueHandler struct {
	queueUsecase usecase.QueueUsecase
	validator    *validator.CustomValidator
}

func NewQueueHandler(queueUsecase usecase.QueueUsecase, validator *validator.CustomValidator) *QueueHandler {
	return &QueueHandler{
		queueUsecase: queueUsecase,
		validator:    validator,
	}
}

func (h *QueueHandler) CreateWalkIn(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWalkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.queueUsecase.CreateWalkIn(r.Context(), &req)
	if err != nil {
		h.writeQueueError(w, err, "Failed to create walk-in token")
		return
	}

	response.Success(w, http.StatusCreated, "Walk-in token created successfully", token)
}

func (h *QueueHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.queueUsecase.CheckInAppointment(r.Context(), &req)
	if err != nil {
		h.writeQueueError(w, err, "Failed to check in appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Checked in successfully", token)
}

func (h *QueueHandler) CallNext(w http.ResponseWriter, r *http.Request) {
	var req dto.CallNextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.queueUsecase.CallNext(r.Context(), &req)
	if err != nil {
		h.writeQueueError(w, err, "Failed to call next patient")
		return
	}
	if token == nil {
		response.Success(w, http.StatusOK, "No patients waiting", nil)
		return
	}

	response.Success(w, http.StatusOK, "Patient called successfully", token)
}

func (h *QueueHandler) UpdateTokenStatus(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := pathUUID(w, r, "tokenId", "Invalid token ID")
	if !ok {
		return
	}

	var req dto.UpdateTokenStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.queueUsecase.UpdateTokenStatus(r.Context(), tokenID, &req)
	if err != nil {
		h.writeQueueError(w, err, "Failed to update token status")
		return
	}

	response.Success(w, http.StatusOK, "Token status updated successfully", token)
}

func (h *QueueHandler) GetEstimatedWaitTime(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := pathUUID(w, r, "tokenId", "Invalid token ID")
	if !ok {
		return
	}

	estimate, err := h.queueUsecase.GetEstimatedWaitTime(r.Context(), tokenID)
	if err != nil {
		h.writeQueueError(w, err, "Failed to estimate wait time")
		return
	}

	response.Success(w, http.StatusOK, "Wait time estimated successfully", estimate)
}

func (h *QueueHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(w, r, "clinicId", "Invalid clinic ID")
	if !ok {
		return
	}

	queue, err := h.queueUsecase.ListQueue(r.Context(), clinicID)
	if err != nil {
		h.writeQueueError(w, err, "Failed to list queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", queue)
}

func (h *QueueHandler) GetQueueStats(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(w, r, "clinicId", "Invalid clinic ID")
	if !ok {
		return
	}

	stats, err := h.queueUsecase.GetQueueStats(r.Context(), clinicID)
	if err != nil {
		h.writeQueueError(w, err, "Failed to get queue stats")
		return
	}

	response.Success(w, http.StatusOK, "Queue stats retrieved successfully", stats)
}

func (h *QueueHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(w, r, "clinicId", "Invalid clinic ID")
	if !ok {
		return
	}

	settings, err := h.queueUsecase.GetSettings(r.Context(), clinicID)
	if err != nil {
		h.writeQueueError(w, err, "Failed to get queue settings")
		return
	}

	response.Success(w, http.StatusOK, "Settings retrieved successfully", settings)
}

func (h *QueueHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(w, r, "clinicId", "Invalid clinic ID")
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	settings, err := h.queueUsecase.UpdateSettings(r.Context(), clinicID, &req)
	if err != nil {
		h.writeQueueError(w, err, "Failed to update queue settings")
		return
	}

	response.Success(w, http.StatusOK, "Settings updated successfully", settings)
}

func (h *QueueHandler) writeQueueError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrTokenNotFound):
		response.NotFound(w, "Queue token not found")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrAppointmentWrongClinic):
		response.Error(w, http.StatusBadRequest, "Appointment does not belong to this clinic", nil)
	case errors.Is(err, usecase.ErrAlreadyCheckedIn):
		response.Conflict(w, "Appointment already has a queue token")
	case errors.Is(err, usecase.ErrAppointmentCancelled):
		response.Conflict(w, "Appointment is cancelled")
	case errors.Is(err, usecase.ErrTerminalToken):
		response.Conflict(w, "Token is in a terminal state")
	case errors.Is(err, usecase.ErrIllegalTransition):
		response.Conflict(w, "Transition not permitted from current status")
	case errors.Is(err, usecase.ErrInvalidTokenStatus):
		response.Error(w, http.StatusBadRequest, "Unknown token status", nil)
	case errors.Is(err, usecase.ErrTokenNumberConflict):
		response.ServiceUnavailable(w, "Token numbering conflict, please retry")
	default:
		response.InternalServerError(w, fallback)
	}
}
