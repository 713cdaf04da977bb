package repository

import (
	"clinic-queue-engine/internal/domain/entity"
	domainRepo "clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type queueEventRepository struct{}

func NewQueueEventRepository() domainRepo.QueueEventRepository {
	return &queueEventRepository{}
}

func (r *queueEventRepository) Create(db *gorm.DB, event *entity.QueueEvent) error {
	return db.Create(event).Error
}

func (r *queueEventRepository) ListByClinic(db *gorm.DB, clinicID uuid.UUID, limit int) ([]entity.QueueEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var events []entity.QueueEvent
	err := db.Where("clinic_id = ?", clinicID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
