package repository

import (
	"time"

	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClinicTokenMax is one clinic's highest issued token number for a day.
// Used to rebuild the Redis counters on startup.
type ClinicTokenMax struct {
	ClinicID       uuid.UUID
	MaxTokenNumber int
}

// StatusCount is one status bucket of a clinic-day.
type StatusCount struct {
	Status entity.TokenStatus
	Count  int64
}

type QueueTokenRepository interface {
	Create(db *gorm.DB, token *entity.QueueToken) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.QueueToken, error)
	// FindByIDForUpdate locks the token row for the duration of a
	// transition transaction.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.QueueToken, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.QueueToken, error)
	// FindWaitingForDay returns every waiting token of the clinic-day,
	// optionally narrowed to one doctor's queue. Order is unspecified;
	// the admission arbiter sorts per tier.
	FindWaitingForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time, doctorID *uuid.UUID) ([]entity.QueueToken, error)
	// ListForDay returns the whole clinic-day queue for the staff board.
	ListForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) ([]entity.QueueToken, error)
	CountByStatusForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) ([]StatusCount, error)
	CountInProgressForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) (int64, error)
	MaxTokenNumberForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) (int, error)
	// MaxTokenNumbersForDate aggregates per-clinic maxima for one day,
	// for the startup counter re-sync.
	MaxTokenNumbersForDate(db *gorm.DB, date time.Time) ([]ClinicTokenMax, error)
	Update(db *gorm.DB, token *entity.QueueToken) error
}
