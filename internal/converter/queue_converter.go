package converter

import (
	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/domain/entity"
)

// TokenToResponse converts a QueueToken entity to TokenResponse DTO
func TokenToResponse(token *entity.QueueToken) *dto.TokenResponse {
	if token == nil {
		return nil
	}

	return &dto.TokenResponse{
		ID:                token.ID,
		ClinicID:          token.ClinicID,
		DoctorID:          token.DoctorID,
		AppointmentID:     token.AppointmentID,
		PatientID:         token.PatientID,
		TokenDate:         token.TokenDate.Format("2006-01-02"),
		TokenNumber:       token.TokenNumber,
		Priority:          token.Priority,
		Status:            string(token.Status),
		TokenType:         string(token.TokenType),
		ScheduledTime:     token.ScheduledTime,
		EstimatedDuration: token.EstimatedDuration,
		CalledAt:          token.CalledAt,
		ConsultationStart: token.ConsultationStart,
		ConsultationEnd:   token.ConsultationEnd,
		CompletedAt:       token.CompletedAt,
		Notes:             token.Notes,
		CreatedAt:         token.CreatedAt,
	}
}

// TokensToResponses converts a slice of QueueToken entities to slice of TokenResponse DTOs
func TokensToResponses(tokens []entity.QueueToken) []dto.TokenResponse {
	responses := make([]dto.TokenResponse, len(tokens))
	for i := range tokens {
		responses[i] = *TokenToResponse(&tokens[i])
	}
	return responses
}

// EventToResponse converts a QueueEvent entity to QueueEventResponse DTO
func EventToResponse(event *entity.QueueEvent) *dto.QueueEventResponse {
	if event == nil {
		return nil
	}

	return &dto.QueueEventResponse{
		ID:        event.ID,
		ClinicID:  event.ClinicID,
		StaffID:   event.StaffID,
		Action:    event.Action,
		Metadata:  event.Metadata,
		CreatedAt: event.CreatedAt,
	}
}

// EventsToResponses converts a slice of QueueEvent entities to slice of QueueEventResponse DTOs
func EventsToResponses(events []entity.QueueEvent) []dto.QueueEventResponse {
	responses := make([]dto.QueueEventResponse, len(events))
	for i := range events {
		responses[i] = *EventToResponse(&events[i])
	}
	return responses
}

// SettingsToResponse converts ClinicQueueSettings to SettingsResponse DTO
func SettingsToResponse(settings *entity.ClinicQueueSettings) *dto.SettingsResponse {
	if settings == nil {
		return nil
	}

	return &dto.SettingsResponse{
		ClinicID:                settings.ClinicID,
		QueueBufferMinutes:      settings.QueueBufferMinutes,
		UseDoctorQueues:         settings.UseDoctorQueues,
		LateArrivalGraceMinutes: settings.LateArrivalGraceMinutes,
		AvgConsultationMinutes:  settings.AvgConsultationMinutes,
		UpdatedAt:               settings.UpdatedAt,
	}
}
