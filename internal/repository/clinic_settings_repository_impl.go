package repository

import (
	"errors"

	"clinic-queue-engine/internal/domain/entity"
	domainRepo "clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type clinicSettingsRepository struct{}

func NewClinicSettingsRepository() domainRepo.ClinicSettingsRepository {
	return &clinicSettingsRepository{}
}

func (r *clinicSettingsRepository) Create(db *gorm.DB, settings *entity.ClinicQueueSettings) error {
	return db.Create(settings).Error
}

func (r *clinicSettingsRepository) FindByClinicID(db *gorm.DB, clinicID uuid.UUID) (*entity.ClinicQueueSettings, error) {
	var settings entity.ClinicQueueSettings
	err := db.Where("clinic_id = ?", clinicID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *clinicSettingsRepository) FindForUpdate(db *gorm.DB, clinicID uuid.UUID) (*entity.ClinicQueueSettings, error) {
	var settings entity.ClinicQueueSettings
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("clinic_id = ?", clinicID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *clinicSettingsRepository) Update(db *gorm.DB, settings *entity.ClinicQueueSettings) error {
	return db.Save(settings).Error
}

func (r *clinicSettingsRepository) UpdateAvgConsultation(db *gorm.DB, clinicID uuid.UUID, avgMinutes int) error {
	return db.Model(&entity.ClinicQueueSettings{}).
		Where("clinic_id = ?", clinicID).
		Update("avg_consultation_minutes", avgMinutes).Error
}
