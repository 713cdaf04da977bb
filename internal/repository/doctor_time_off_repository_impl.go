package repository

import (
	"errors"
	"time"

	"clinic-queue-engine/internal/domain/entity"
	domainRepo "clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorTimeOffRepository struct{}

func NewDoctorTimeOffRepository() domainRepo.DoctorTimeOffRepository {
	return &doctorTimeOffRepository{}
}

func (r *doctorTimeOffRepository) Create(db *gorm.DB, timeOff *entity.DoctorTimeOff) error {
	return db.Create(timeOff).Error
}

func (r *doctorTimeOffRepository) FindByID(db *gorm.DB, id int) (*entity.DoctorTimeOff, error) {
	var timeOff entity.DoctorTimeOff
	err := db.Where("id = ?", id).First(&timeOff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &timeOff, nil
}

func (r *doctorTimeOffRepository) FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorTimeOff, error) {
	var entries []entity.DoctorTimeOff
	err := db.Where("doctor_id = ?", doctorID).Order("start_date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *doctorTimeOffRepository) FindCoveringDate(db *gorm.DB, doctorIDs []uuid.UUID, clinicID uuid.UUID, date time.Time) ([]entity.DoctorTimeOff, error) {
	if len(doctorIDs) == 0 {
		return nil, nil
	}

	var entries []entity.DoctorTimeOff
	err := db.
		Where("doctor_id IN ?", doctorIDs).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Where("clinic_id IS NULL OR clinic_id = ?", clinicID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *doctorTimeOffRepository) Delete(db *gorm.DB, id int) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.DoctorTimeOff{})
	return affected.RowsAffected, affected.Error
}
