package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorSchedule is one recurring weekly availability block. A doctor
// has at most one block per (clinic, day of week); changing a day's
// hours goes through update or the bulk replace operation, never a
// second row.
type DoctorSchedule struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_day,priority:1" json:"doctor_id"`
	ClinicID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_day,priority:2" json:"clinic_id"`
	DayOfWeek    int       `gorm:"not null;uniqueIndex:idx_schedule_day,priority:3" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime    string    `gorm:"type:time;not null" json:"start_time"`                                // HH:MM, 24h
	EndTime      string    `gorm:"type:time;not null" json:"end_time"`                                  // HH:MM, 24h
	SlotDuration int       `gorm:"not null;default:30" json:"slot_duration"`                            // minutes
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}
