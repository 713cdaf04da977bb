package repository

import (
	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorScheduleRepository interface {
	Create(db *gorm.DB, schedule *entity.DoctorSchedule) error
	CreateBatch(db *gorm.DB, schedules []entity.DoctorSchedule) error
	FindByID(db *gorm.DB, id int) (*entity.DoctorSchedule, error)
	// FindByDoctorDay returns the unique block for (doctor, clinic, day
	// of week), or nil when the doctor has no hours that day.
	FindByDoctorDay(db *gorm.DB, doctorID, clinicID uuid.UUID, dayOfWeek int) (*entity.DoctorSchedule, error)
	// FindByDoctor lists a doctor's blocks, optionally narrowed to one
	// clinic, ordered by day of week then start time.
	FindByDoctor(db *gorm.DB, doctorID uuid.UUID, clinicID *uuid.UUID) ([]entity.DoctorSchedule, error)
	// FindActiveForDay returns the active blocks the slot generator
	// expands for one clinic and day of week, doctor preloaded.
	FindActiveForDay(db *gorm.DB, clinicID uuid.UUID, dayOfWeek int, doctorID *uuid.UUID) ([]entity.DoctorSchedule, error)
	Update(db *gorm.DB, schedule *entity.DoctorSchedule) error
	Delete(db *gorm.DB, id int) (int64, error)
	// DeleteByDoctorAndClinic removes every block for the pair; first
	// half of the bulk replace operation.
	DeleteByDoctorAndClinic(db *gorm.DB, doctorID, clinicID uuid.UUID) error
}
