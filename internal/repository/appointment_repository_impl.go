package repository

import (
	"errors"
	"time"

	"clinic-queue-engine/internal/domain/entity"
	domainRepo "clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *appointmentRepository) FindBlockingForDoctorsOnDate(db *gorm.DB, doctorIDs []uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error) {
	if len(doctorIDs) == 0 {
		return nil, nil
	}

	var appointments []entity.Appointment
	err := db.
		Where("doctor_id IN ?", doctorIDs).
		Where("start_time < ? AND end_time > ?", dayEnd, dayStart).
		Where("status NOT IN ?", []entity.AppointmentStatus{
			entity.AppointmentStatusCancelled,
			entity.AppointmentStatusNoShow,
		}).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
