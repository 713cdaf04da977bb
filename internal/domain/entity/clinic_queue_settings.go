package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClinicQueueSettings is the per-clinic tuning row for the queue
// engine. AvgConsultationMinutes is mutable process state: the
// completion path folds each observed consultation duration into it
// with an exponential moving average, so it improves over the clinic's
// operating day.
type ClinicQueueSettings struct {
	ClinicID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"clinic_id"`
	QueueBufferMinutes      int       `gorm:"not null;default:15" json:"queue_buffer_minutes"`
	UseDoctorQueues         bool      `gorm:"not null;default:false" json:"use_doctor_queues"`
	LateArrivalGraceMinutes int       `gorm:"not null;default:15" json:"late_arrival_grace_minutes"`
	AvgConsultationMinutes  int       `gorm:"not null;default:20" json:"avg_consultation_minutes"`
	CreatedAt               time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClinicQueueSettings) TableName() string {
	return "clinic_queue_settings"
}
