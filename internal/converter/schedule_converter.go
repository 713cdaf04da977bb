package converter

import (
	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/domain/entity"
)

// ScheduleToResponse converts a DoctorSchedule entity to ScheduleResponse DTO
func ScheduleToResponse(schedule *entity.DoctorSchedule) *dto.ScheduleResponse {
	if schedule == nil {
		return nil
	}

	return &dto.ScheduleResponse{
		ID:           schedule.ID,
		DoctorID:     schedule.DoctorID,
		ClinicID:     schedule.ClinicID,
		DayOfWeek:    schedule.DayOfWeek,
		StartTime:    schedule.StartTime,
		EndTime:      schedule.EndTime,
		SlotDuration: schedule.SlotDuration,
		IsActive:     schedule.IsActive,
		CreatedAt:    schedule.CreatedAt,
		UpdatedAt:    schedule.UpdatedAt,
	}
}

// SchedulesToResponses converts a slice of DoctorSchedule entities to slice of ScheduleResponse DTOs
func SchedulesToResponses(schedules []entity.DoctorSchedule) []dto.ScheduleResponse {
	responses := make([]dto.ScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = *ScheduleToResponse(&schedules[i])
	}
	return responses
}

// TimeOffToResponse converts a DoctorTimeOff entity to TimeOffResponse DTO
func TimeOffToResponse(timeOff *entity.DoctorTimeOff) *dto.TimeOffResponse {
	if timeOff == nil {
		return nil
	}

	return &dto.TimeOffResponse{
		ID:        timeOff.ID,
		DoctorID:  timeOff.DoctorID,
		ClinicID:  timeOff.ClinicID,
		StartDate: timeOff.StartDate.Format("2006-01-02"),
		EndDate:   timeOff.EndDate.Format("2006-01-02"),
		IsFullDay: timeOff.IsFullDay,
		StartTime: timeOff.StartTime,
		EndTime:   timeOff.EndTime,
		Reason:    timeOff.Reason,
		CreatedAt: timeOff.CreatedAt,
	}
}

// TimeOffsToResponses converts a slice of DoctorTimeOff entities to slice of TimeOffResponse DTOs
func TimeOffsToResponses(entries []entity.DoctorTimeOff) []dto.TimeOffResponse {
	responses := make([]dto.TimeOffResponse, len(entries))
	for i := range entries {
		responses[i] = *TimeOffToResponse(&entries[i])
	}
	return responses
}
