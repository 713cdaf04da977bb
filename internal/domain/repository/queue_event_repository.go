package repository

import (
	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueueEventRepository interface {
	Create(db *gorm.DB, event *entity.QueueEvent) error
	ListByClinic(db *gorm.DB, clinicID uuid.UUID, limit int) ([]entity.QueueEvent, error)
}
