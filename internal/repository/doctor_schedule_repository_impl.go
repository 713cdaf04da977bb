package repository

import (
	"errors"

	"clinic-queue-engine/internal/domain/entity"
	domainRepo "clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorScheduleRepository struct{}

func NewDoctorScheduleRepository() domainRepo.DoctorScheduleRepository {
	return &doctorScheduleRepository{}
}

func (r *doctorScheduleRepository) Create(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	return db.Create(schedule).Error
}

func (r *doctorScheduleRepository) CreateBatch(db *gorm.DB, schedules []entity.DoctorSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return db.Create(&schedules).Error
}

func (r *doctorScheduleRepository) FindByID(db *gorm.DB, id int) (*entity.DoctorSchedule, error) {
	var schedule entity.DoctorSchedule
	err := db.Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *doctorScheduleRepository) FindByDoctorDay(db *gorm.DB, doctorID, clinicID uuid.UUID, dayOfWeek int) (*entity.DoctorSchedule, error) {
	var schedule entity.DoctorSchedule
	err := db.Where("doctor_id = ? AND clinic_id = ? AND day_of_week = ?", doctorID, clinicID, dayOfWeek).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *doctorScheduleRepository) FindByDoctor(db *gorm.DB, doctorID uuid.UUID, clinicID *uuid.UUID) ([]entity.DoctorSchedule, error) {
	query := db.Where("doctor_id = ?", doctorID)
	if clinicID != nil {
		query = query.Where("clinic_id = ?", *clinicID)
	}

	var schedules []entity.DoctorSchedule
	err := query.Order("day_of_week ASC, start_time ASC").Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *doctorScheduleRepository) FindActiveForDay(db *gorm.DB, clinicID uuid.UUID, dayOfWeek int, doctorID *uuid.UUID) ([]entity.DoctorSchedule, error) {
	query := db.Where("clinic_id = ? AND day_of_week = ? AND is_active = ?", clinicID, dayOfWeek, true)
	if doctorID != nil {
		query = query.Where("doctor_id = ?", *doctorID)
	}

	var schedules []entity.DoctorSchedule
	err := query.Preload("Doctor").Order("start_time ASC").Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *doctorScheduleRepository) Update(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	return db.Omit("Doctor").Save(schedule).Error
}

func (r *doctorScheduleRepository) Delete(db *gorm.DB, id int) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.DoctorSchedule{})
	return affected.RowsAffected, affected.Error
}

func (r *doctorScheduleRepository) DeleteByDoctorAndClinic(db *gorm.DB, doctorID, clinicID uuid.UUID) error {
	return db.Where("doctor_id = ? AND clinic_id = ?", doctorID, clinicID).
		Delete(&entity.DoctorSchedule{}).Error
}
