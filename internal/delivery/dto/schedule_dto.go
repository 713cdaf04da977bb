package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateScheduleRequest struct {
	DoctorID     uuid.UUID `json:"doctor_id" validate:"required"`
	ClinicID     uuid.UUID `json:"clinic_id" validate:"required"`
	DayOfWeek    int       `json:"day_of_week" validate:"gte=0,lte=6"` // 0=Sunday .. 6=Saturday
	StartTime    string    `json:"start_time" validate:"required,hhmm"`
	EndTime      string    `json:"end_time" validate:"required,hhmm"`
	SlotDuration int       `json:"slot_duration" validate:"omitempty,min=5,max=240"` // minutes, default 30
	IsActive     *bool     `json:"is_active" validate:"omitempty"`
}

type UpdateScheduleRequest struct {
	StartTime    string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime      string `json:"end_time" validate:"omitempty,hhmm"`
	SlotDuration *int   `json:"slot_duration" validate:"omitempty,min=5,max=240"`
	IsActive     *bool  `json:"is_active" validate:"omitempty"`
}

// BulkReplaceSchedulesRequest replaces all of a doctor's blocks at one
// clinic with the given set: delete-all-then-insert, not a diff.
type BulkReplaceSchedulesRequest struct {
	DoctorID uuid.UUID           `json:"doctor_id" validate:"required"`
	ClinicID uuid.UUID           `json:"clinic_id" validate:"required"`
	Items    []ScheduleItemInput `json:"items" validate:"dive"`
}

type ScheduleItemInput struct {
	DayOfWeek    int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime    string `json:"start_time" validate:"required,hhmm"`
	EndTime      string `json:"end_time" validate:"required,hhmm"`
	SlotDuration int    `json:"slot_duration" validate:"omitempty,min=5,max=240"`
	IsActive     *bool  `json:"is_active" validate:"omitempty"`
}

type CreateTimeOffRequest struct {
	DoctorID  uuid.UUID  `json:"doctor_id" validate:"required"`
	ClinicID  *uuid.UUID `json:"clinic_id" validate:"omitempty"` // nil = every clinic
	StartDate string     `json:"start_date" validate:"required,dateonly"`
	EndDate   string     `json:"end_date" validate:"required,dateonly"`
	IsFullDay bool       `json:"is_full_day"`
	StartTime string     `json:"start_time" validate:"omitempty,hhmm"` // required when is_full_day=false
	EndTime   string     `json:"end_time" validate:"omitempty,hhmm"`
	Reason    string     `json:"reason" validate:"omitempty,max=255"`
}

// Response DTOs

type ScheduleResponse struct {
	ID           int       `json:"id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	ClinicID     uuid.UUID `json:"clinic_id"`
	DayOfWeek    int       `json:"day_of_week"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	SlotDuration int       `json:"slot_duration"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}

type TimeOffResponse struct {
	ID        int        `json:"id"`
	DoctorID  uuid.UUID  `json:"doctor_id"`
	ClinicID  *uuid.UUID `json:"clinic_id,omitempty"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	IsFullDay bool       `json:"is_full_day"`
	StartTime string     `json:"start_time,omitempty"`
	EndTime   string     `json:"end_time,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type TimeOffListResponse struct {
	Entries []TimeOffResponse `json:"entries"`
	Total   int               `json:"total"`
}
