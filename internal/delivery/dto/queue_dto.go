package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateWalkInRequest struct {
	ClinicID  uuid.UUID  `json:"clinic_id" validate:"required"`
	DoctorID  *uuid.UUID `json:"doctor_id" validate:"omitempty"`
	PatientID uuid.UUID  `json:"patient_id" validate:"required"`
	Priority  int        `json:"priority" validate:"gte=0,lte=10"` // triage override, higher = served first
	Notes     string     `json:"notes" validate:"omitempty,max=1000"`
}

type CheckInRequest struct {
	ClinicID      uuid.UUID `json:"clinic_id" validate:"required"`
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
}

type CallNextRequest struct {
	ClinicID uuid.UUID  `json:"clinic_id" validate:"required"`
	DoctorID *uuid.UUID `json:"doctor_id" validate:"omitempty"`
}

type UpdateTokenStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateSettingsRequest struct {
	QueueBufferMinutes      *int  `json:"queue_buffer_minutes" validate:"omitempty,min=0,max=240"`
	UseDoctorQueues         *bool `json:"use_doctor_queues" validate:"omitempty"`
	LateArrivalGraceMinutes *int  `json:"late_arrival_grace_minutes" validate:"omitempty,min=0,max=240"`
	AvgConsultationMinutes  *int  `json:"avg_consultation_minutes" validate:"omitempty,min=1,max=240"`
}

// Response DTOs

type TokenResponse struct {
	ID                uuid.UUID  `json:"id"`
	ClinicID          uuid.UUID  `json:"clinic_id"`
	DoctorID          *uuid.UUID `json:"doctor_id,omitempty"`
	AppointmentID     *uuid.UUID `json:"appointment_id,omitempty"`
	PatientID         uuid.UUID  `json:"patient_id"`
	TokenDate         string     `json:"token_date"` // YYYY-MM-DD
	TokenNumber       int        `json:"token_number"`
	Priority          int        `json:"priority"`
	Status            string     `json:"status"`
	TokenType         string     `json:"token_type"`
	ScheduledTime     *time.Time `json:"scheduled_time,omitempty"`
	EstimatedDuration int        `json:"estimated_duration"`
	CalledAt          *time.Time `json:"called_at,omitempty"`
	ConsultationStart *time.Time `json:"consultation_start,omitempty"`
	ConsultationEnd   *time.Time `json:"consultation_end,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type QueueListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
	Total  int             `json:"total"`
}

type WaitTimeResponse struct {
	TokenID              uuid.UUID `json:"token_id"`
	EstimatedWaitMinutes int       `json:"estimated_wait_minutes"`
	PatientsAhead        int       `json:"patients_ahead"`
	InProgressCount      int       `json:"in_progress_count"`
}

type QueueStatsResponse struct {
	ClinicID               uuid.UUID `json:"clinic_id"`
	Date                   string    `json:"date"`
	Waiting                int64     `json:"waiting"`
	InProgress             int64     `json:"in_progress"`
	Completed              int64     `json:"completed"`
	NoShow                 int64     `json:"no_show"`
	Cancelled              int64     `json:"cancelled"`
	LastTokenNumber        int       `json:"last_token_number"`
	AvgConsultationMinutes int       `json:"avg_consultation_minutes"`
}

type SettingsResponse struct {
	ClinicID                uuid.UUID `json:"clinic_id"`
	QueueBufferMinutes      int       `json:"queue_buffer_minutes"`
	UseDoctorQueues         bool      `json:"use_doctor_queues"`
	LateArrivalGraceMinutes int       `json:"late_arrival_grace_minutes"`
	AvgConsultationMinutes  int       `json:"avg_consultation_minutes"`
	UpdatedAt               time.Time `json:"updated_at"`
}
