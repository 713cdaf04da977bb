package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueueEvent is the audit trail of the queue engine: every schedule
// mutation and token transition writes one row in the same transaction
// as the change itself. Tokens are never deleted, so events plus
// terminal tokens reconstruct a clinic's full day.
type QueueEvent struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClinicID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	StaffID   *uuid.UUID `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (QueueEvent) TableName() string {
	return "queue_events"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Queue event actions
const (
	EventScheduleCreate  = "schedule.create"
	EventScheduleUpdate  = "schedule.update"
	EventScheduleDelete  = "schedule.delete"
	EventScheduleReplace = "schedule.bulk_replace"
	EventTimeOffCreate   = "timeoff.create"
	EventTimeOffDelete   = "timeoff.delete"
	EventTokenCreate     = "token.create"
	EventTokenCheckIn    = "token.check_in"
	EventTokenCall       = "token.call"
	EventTokenTransition = "token.transition"
	EventSettingsUpdate  = "settings.update"
)
