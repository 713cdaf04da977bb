package service

import (
	"clinic-queue-engine/internal/domain/entity"
	"clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes queue_events rows. Record is always called with
// the transaction of the mutation it describes, so the event and the
// change commit or roll back together.
type AuditService interface {
	Record(tx *gorm.DB, clinicID uuid.UUID, staffID *uuid.UUID, action string, metadata entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	eventRepo repository.QueueEventRepository
}

func NewAuditService(log *logrus.Logger, eventRepo repository.QueueEventRepository) AuditService {
	return &auditService{
		log:       log,
		eventRepo: eventRepo,
	}
}

func (s *auditService) Record(tx *gorm.DB, clinicID uuid.UUID, staffID *uuid.UUID, action string, metadata entity.JSON) error {
	event := &entity.QueueEvent{
		ClinicID: clinicID,
		StaffID:  staffID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.eventRepo.Create(tx, event); err != nil {
		s.log.Warnf("Failed to record queue event %s: %+v", action, err)
		return err
	}

	return nil
}
