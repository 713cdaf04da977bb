package usecase

import (
	"context"

	"clinic-queue-engine/internal/converter"
	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultEventListLimit = 100

// QueueEventUsecase exposes the audit trail for review.
type QueueEventUsecase interface {
	ListEvents(ctx context.Context, clinicID uuid.UUID, limit int) (*dto.QueueEventListResponse, error)
}

type queueEventUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	eventRepo repository.QueueEventRepository
}

func NewQueueEventUsecase(db *gorm.DB, log *logrus.Logger, eventRepo repository.QueueEventRepository) QueueEventUsecase {
	return &queueEventUsecase{
		db:        db,
		log:       log,
		eventRepo: eventRepo,
	}
}

func (u *queueEventUsecase) ListEvents(ctx context.Context, clinicID uuid.UUID, limit int) (*dto.QueueEventListResponse, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultEventListLimit
	}

	events, err := u.eventRepo.ListByClinic(u.db.WithContext(ctx), clinicID, limit)
	if err != nil {
		u.log.Warnf("Failed to list queue events for clinic %s: %+v", clinicID, err)
		return nil, err
	}

	return &dto.QueueEventListResponse{
		Events: converter.EventsToResponses(events),
		Total:  len(events),
	}, nil
}
