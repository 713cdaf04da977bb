package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorTimeOff is an exception interval overlaid on the recurring
// schedule. A nil ClinicID applies at every clinic the doctor works at.
// Full-day entries suppress the doctor entirely for each date in
// [StartDate, EndDate]; partial entries only suppress slots whose start
// minute falls inside [StartTime, EndTime), evaluated independently on
// each date of the range.
type DoctorTimeOff struct {
	ID        int        `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	ClinicID  *uuid.UUID `gorm:"type:uuid;index" json:"clinic_id,omitempty"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time  `gorm:"type:date;not null" json:"end_date"`
	IsFullDay bool       `gorm:"not null;default:true" json:"is_full_day"`
	StartTime string     `gorm:"type:time" json:"start_time,omitempty"` // required when IsFullDay=false
	EndTime   string     `gorm:"type:time" json:"end_time,omitempty"`   // required when IsFullDay=false
	Reason    string     `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorTimeOff) TableName() string {
	return "doctor_time_off"
}

// CoversDate reports whether date falls inside [StartDate, EndDate].
// All three are date-truncated values.
func (t *DoctorTimeOff) CoversDate(date time.Time) bool {
	return !date.Before(t.StartDate) && !date.After(t.EndDate)
}

// AppliesToClinic reports whether the entry suppresses availability at
// the given clinic. Clinic-agnostic entries apply everywhere.
func (t *DoctorTimeOff) AppliesToClinic(clinicID uuid.UUID) bool {
	return t.ClinicID == nil || *t.ClinicID == clinicID
}
