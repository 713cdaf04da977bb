package repository

import (
	"errors"
	"time"

	"clinic-queue-engine/internal/domain/entity"
	domainRepo "clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type queueTokenRepository struct{}

func NewQueueTokenRepository() domainRepo.QueueTokenRepository {
	return &queueTokenRepository{}
}

func (r *queueTokenRepository) Create(db *gorm.DB, token *entity.QueueToken) error {
	return db.Create(token).Error
}

func (r *queueTokenRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.QueueToken, error) {
	var token entity.QueueToken
	err := db.Where("id = ?", id).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *queueTokenRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.QueueToken, error) {
	var token entity.QueueToken
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *queueTokenRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.QueueToken, error) {
	var token entity.QueueToken
	err := db.Where("appointment_id = ?", appointmentID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *queueTokenRepository) FindWaitingForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time, doctorID *uuid.UUID) ([]entity.QueueToken, error) {
	query := db.Where("clinic_id = ? AND token_date = ? AND status = ?", clinicID, date, entity.TokenStatusWaiting)
	if doctorID != nil {
		query = query.Where("doctor_id = ?", *doctorID)
	}

	var tokens []entity.QueueToken
	err := query.Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *queueTokenRepository) ListForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) ([]entity.QueueToken, error) {
	var tokens []entity.QueueToken
	err := db.Where("clinic_id = ? AND token_date = ?", clinicID, date).
		Order("priority DESC, token_number ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *queueTokenRepository) CountByStatusForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) ([]domainRepo.StatusCount, error) {
	var counts []domainRepo.StatusCount
	err := db.Model(&entity.QueueToken{}).
		Select("status, COUNT(*) as count").
		Where("clinic_id = ? AND token_date = ?", clinicID, date).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *queueTokenRepository) CountInProgressForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.QueueToken{}).
		Where("clinic_id = ? AND token_date = ? AND status = ?", clinicID, date, entity.TokenStatusInProgress).
		Count(&count).Error
	return count, err
}

func (r *queueTokenRepository) MaxTokenNumberForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) (int, error) {
	var max int
	err := db.Model(&entity.QueueToken{}).
		Select("COALESCE(MAX(token_number), 0)").
		Where("clinic_id = ? AND token_date = ?", clinicID, date).
		Scan(&max).Error
	return max, err
}

func (r *queueTokenRepository) MaxTokenNumbersForDate(db *gorm.DB, date time.Time) ([]domainRepo.ClinicTokenMax, error) {
	var results []domainRepo.ClinicTokenMax
	err := db.Model(&entity.QueueToken{}).
		Select("clinic_id, MAX(token_number) as max_token_number").
		Where("token_date = ?", date).
		Group("clinic_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *queueTokenRepository) Update(db *gorm.DB, token *entity.QueueToken) error {
	return db.Omit("Doctor", "Appointment").Save(token).Error
}
