package repository

import (
	"time"

	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorTimeOffRepository interface {
	Create(db *gorm.DB, timeOff *entity.DoctorTimeOff) error
	FindByID(db *gorm.DB, id int) (*entity.DoctorTimeOff, error)
	FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorTimeOff, error)
	// FindCoveringDate returns every entry whose [StartDate, EndDate]
	// contains date for any of the given doctors, matching the clinic
	// or clinic-agnostic (clinic_id IS NULL).
	FindCoveringDate(db *gorm.DB, doctorIDs []uuid.UUID, clinicID uuid.UUID, date time.Time) ([]entity.DoctorTimeOff, error)
	Delete(db *gorm.DB, id int) (int64, error)
}
