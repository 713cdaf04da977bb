package dto

import (
	"time"

	"github.com/google/uuid"
)

type QueueEventResponse struct {
	ID        int64                  `json:"id"`
	ClinicID  uuid.UUID              `json:"clinic_id"`
	StaffID   *uuid.UUID             `json:"staff_id,omitempty"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type QueueEventListResponse struct {
	Events []QueueEventResponse `json:"events"`
	Total  int                  `json:"total"`
}
