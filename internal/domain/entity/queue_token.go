package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenStatus is the queue token lifecycle state. waiting is the only
// non-terminal state besides in-progress; completed, no-show and
// cancelled are terminal and can never be left again.
type TokenStatus string

const (
	TokenStatusWaiting    TokenStatus = "waiting"
	TokenStatusInProgress TokenStatus = "in-progress"
	TokenStatusCompleted  TokenStatus = "completed"
	TokenStatusNoShow     TokenStatus = "no-show"
	TokenStatusCancelled  TokenStatus = "cancelled"
)

// TokenType records how the token entered the queue. Late arrivals are
// scheduled appointments demoted into the walk-in admission lane.
type TokenType string

const (
	TokenTypeScheduled   TokenType = "scheduled"
	TokenTypeWalkIn      TokenType = "walk-in"
	TokenTypeLateArrival TokenType = "late-arrival"
)

// tokenTransitions is the full lifecycle table. Every status change in
// the engine goes through CanTransitionTo so illegal transitions are
// rejected at a single choke point.
var tokenTransitions = map[TokenStatus][]TokenStatus{
	TokenStatusWaiting:    {TokenStatusInProgress, TokenStatusNoShow, TokenStatusCancelled},
	TokenStatusInProgress: {TokenStatusCompleted, TokenStatusNoShow},
	TokenStatusCompleted:  {},
	TokenStatusNoShow:     {},
	TokenStatusCancelled:  {},
}

// ValidTokenStatus reports whether s is a known lifecycle state.
func ValidTokenStatus(s TokenStatus) bool {
	_, ok := tokenTransitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle permits moving from s
// to next.
func (s TokenStatus) CanTransitionTo(next TokenStatus) bool {
	for _, allowed := range tokenTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted out
// of s.
func (s TokenStatus) IsTerminal() bool {
	return len(tokenTransitions[s]) == 0 && ValidTokenStatus(s)
}

// QueueToken is one entry in a clinic's daily patient queue. Token
// numbers restart at 1 each calendar day per clinic; prior days'
// tokens stay in the table for stats and audit, distinguished by
// TokenDate.
type QueueToken struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID          uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_token_number_day,priority:1;index" json:"clinic_id"`
	DoctorID          *uuid.UUID  `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	AppointmentID     *uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"appointment_id,omitempty"`
	PatientID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"patient_id"`
	TokenDate         time.Time   `gorm:"type:date;not null;uniqueIndex:idx_token_number_day,priority:2" json:"token_date"`
	TokenNumber       int         `gorm:"not null;uniqueIndex:idx_token_number_day,priority:3" json:"token_number"`
	Priority          int         `gorm:"not null;default:0" json:"priority"` // higher = served first
	Status            TokenStatus `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	TokenType         TokenType   `gorm:"type:varchar(20);not null" json:"token_type"`
	ScheduledTime     *time.Time  `gorm:"" json:"scheduled_time,omitempty"` // nil for walk-ins and demoted late arrivals
	EstimatedDuration int         `gorm:"not null" json:"estimated_duration"` // minutes
	CalledAt          *time.Time  `json:"called_at,omitempty"`
	ConsultationStart *time.Time  `json:"consultation_start,omitempty"`
	ConsultationEnd   *time.Time  `json:"consultation_end,omitempty"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
	Notes             string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor      *Doctor      `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (QueueToken) TableName() string {
	return "queue_tokens"
}

// IsWaiting reports whether the token is still in the queue.
func (t *QueueToken) IsWaiting() bool {
	return t.Status == TokenStatusWaiting
}

// InWalkInLane reports whether the token competes in the
// FIFO-by-arrival lane: true for walk-ins and demoted late arrivals.
func (t *QueueToken) InWalkInLane() bool {
	return t.ScheduledTime == nil || t.TokenType == TokenTypeLateArrival
}
