package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus mirrors the status values the booking side of the
// platform writes. The queue engine only reads bookings for slot
// blocking and syncs status on token transitions.
type AppointmentStatus string

const (
	AppointmentStatusBooked     AppointmentStatus = "booked"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in-progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no-show"
)

// Appointment is the booking-side record the engine collaborates with:
// checked in to produce a queue token, and consulted for slot blocking.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	StartTime time.Time         `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time         `gorm:"not null" json:"end_time"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'booked';index" json:"status"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled reports whether the appointment was cancelled.
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// BlocksSlots reports whether the appointment should mark overlapping
// slots unavailable. Cancelled and no-show bookings free their slot.
func (a *Appointment) BlocksSlots() bool {
	return a.Status != AppointmentStatusCancelled && a.Status != AppointmentStatusNoShow
}
