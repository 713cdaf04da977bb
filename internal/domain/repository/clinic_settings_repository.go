package repository

import (
	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicSettingsRepository interface {
	Create(db *gorm.DB, settings *entity.ClinicQueueSettings) error
	FindByClinicID(db *gorm.DB, clinicID uuid.UUID) (*entity.ClinicQueueSettings, error)
	// FindForUpdate takes a row lock so the rolling-average
	// read-modify-write on completion is atomic across instances.
	FindForUpdate(db *gorm.DB, clinicID uuid.UUID) (*entity.ClinicQueueSettings, error)
	Update(db *gorm.DB, settings *entity.ClinicQueueSettings) error
	UpdateAvgConsultation(db *gorm.DB, clinicID uuid.UUID, avgMinutes int) error
}
