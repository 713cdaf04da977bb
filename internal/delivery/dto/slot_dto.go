package dto

import "github.com/google/uuid"

// SlotResponse is one candidate slot of a clinic day. Unavailable
// slots are included so callers can render them as disabled.
type SlotResponse struct {
	Time           string    `json:"time"`     // HH:MM
	EndTime        string    `json:"end_time"` // HH:MM
	DoctorID       uuid.UUID `json:"doctor_id"`
	DoctorName     string    `json:"doctor_name"`
	Specialization string    `json:"specialization,omitempty"`
	IsAvailable    bool      `json:"is_available"`
}

type SlotListResponse struct {
	Date  string         `json:"date"` // YYYY-MM-DD
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}
