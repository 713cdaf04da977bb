package repository

import (
	"time"

	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentRepository is the engine's view of the booking
// collaborator: lookups for check-in, status sync on token
// transitions, and the blocking query the slot generator needs.
type AppointmentRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error
	// FindBlockingForDoctorsOnDate returns appointments that mark slots
	// unavailable: any status outside {cancelled, no-show} whose
	// interval touches [dayStart, dayEnd).
	FindBlockingForDoctorsOnDate(db *gorm.DB, doctorIDs []uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error)
}
