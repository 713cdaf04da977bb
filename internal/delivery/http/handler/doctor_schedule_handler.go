package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/usecase"
	"clinic-queue-engine/pkg/response"
	"clinic-queue-engine/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DoctorScheduleHandler struct {
	scheduleUsecase usecase.DoctorScheduleUsecase
	validator       *validator.CustomValidator
}

func NewDoctorScheduleHandler(scheduleUsecase usecase.DoctorScheduleUsecase, validator *validator.CustomValidator) *DoctorScheduleHandler {
	return &DoctorScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *DoctorScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.CreateSchedule(r.Context(), &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to create schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", schedule)
}

func (h *DoctorScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := pathIntID(w, r, "id", "Invalid schedule ID")
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), scheduleID, &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *DoctorScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := pathIntID(w, r, "id", "Invalid schedule ID")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteSchedule(r.Context(), scheduleID); err != nil {
		h.writeScheduleError(w, err, "Failed to delete schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule deleted successfully", nil)
}

func (h *DoctorScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "Invalid doctor ID")
	if !ok {
		return
	}

	var clinicID *uuid.UUID
	if raw := r.URL.Query().Get("clinic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid clinic ID", nil)
			return
		}
		clinicID = &id
	}

	schedules, err := h.scheduleUsecase.ListSchedules(r.Context(), doctorID, clinicID)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *DoctorScheduleHandler) BulkReplaceSchedules(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkReplaceSchedulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedules, err := h.scheduleUsecase.BulkReplaceSchedules(r.Context(), &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to replace schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules replaced successfully", schedules)
}

func (h *DoctorScheduleHandler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTimeOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	timeOff, err := h.scheduleUsecase.CreateTimeOff(r.Context(), &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to create time off")
		return
	}

	response.Success(w, http.StatusCreated, "Time off created successfully", timeOff)
}

func (h *DoctorScheduleHandler) DeleteTimeOff(w http.ResponseWriter, r *http.Request) {
	timeOffID, ok := pathIntID(w, r, "id", "Invalid time off ID")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteTimeOff(r.Context(), timeOffID); err != nil {
		h.writeScheduleError(w, err, "Failed to delete time off")
		return
	}

	response.Success(w, http.StatusOK, "Time off deleted successfully", nil)
}

func (h *DoctorScheduleHandler) ListTimeOff(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "Invalid doctor ID")
	if !ok {
		return
	}

	entries, err := h.scheduleUsecase.ListTimeOff(r.Context(), doctorID)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to get time off entries")
		return
	}

	response.Success(w, http.StatusOK, "Time off entries retrieved successfully", entries)
}

func (h *DoctorScheduleHandler) writeScheduleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrScheduleNotFound):
		response.NotFound(w, "Schedule not found")
	case errors.Is(err, usecase.ErrTimeOffNotFound):
		response.NotFound(w, "Time off entry not found")
	case errors.Is(err, usecase.ErrDuplicateScheduleDay):
		response.Conflict(w, "Schedule already exists for this doctor, clinic and day")
	case errors.Is(err, usecase.ErrInvalidTimeFormat),
		errors.Is(err, usecase.ErrInvalidTimeRange),
		errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrMissingPartialBounds):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func pathIntID(w http.ResponseWriter, r *http.Request, key, message string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[key])
	if err != nil {
		response.Error(w, http.StatusBadRequest, message, nil)
		return 0, false
	}
	return id, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, key, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[key])
	if err != nil {
		response.Error(w, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}
