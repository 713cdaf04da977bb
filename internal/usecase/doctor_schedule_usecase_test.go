package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/domain/entity"
	"clinic-queue-engine/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{"valid morning block", "09:00", "12:00", nil},
		{"valid full day", "00:00", "23:59", nil},
		{"end equals start", "09:00", "09:00", ErrInvalidTimeRange},
		{"end before start", "17:00", "09:00", ErrInvalidTimeRange},
		{"malformed start", "9am", "12:00", ErrInvalidTimeFormat},
		{"malformed end", "09:00", "noon", ErrInvalidTimeFormat},
		{"start without zero padding", "9:00", "12:00", ErrInvalidTimeFormat},
		{"end without zero padding", "09:00", "9:30", ErrInvalidTimeFormat},
		{"out of range hour", "25:00", "26:00", ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTimeRange(tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateTimeRange(%q, %q) = %v, want %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

type stubDoctorRepo struct {
	doctor *entity.Doctor
}

func (s *stubDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return nil
}

func (s *stubDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return s.doctor, nil
}

func (s *stubDoctorRepo) FindAllActive(db *gorm.DB) ([]entity.Doctor, error) {
	return nil, nil
}

func (s *stubDoctorRepo) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return nil
}

type stubScheduleRepo struct {
	createErr error
}

func (s *stubScheduleRepo) Create(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	return s.createErr
}

func (s *stubScheduleRepo) CreateBatch(db *gorm.DB, schedules []entity.DoctorSchedule) error {
	return nil
}

func (s *stubScheduleRepo) FindByID(db *gorm.DB, id int) (*entity.DoctorSchedule, error) {
	return nil, nil
}

func (s *stubScheduleRepo) FindByDoctorDay(db *gorm.DB, doctorID, clinicID uuid.UUID, dayOfWeek int) (*entity.DoctorSchedule, error) {
	return nil, nil
}

func (s *stubScheduleRepo) FindByDoctor(db *gorm.DB, doctorID uuid.UUID, clinicID *uuid.UUID) ([]entity.DoctorSchedule, error) {
	return nil, nil
}

func (s *stubScheduleRepo) FindActiveForDay(db *gorm.DB, clinicID uuid.UUID, dayOfWeek int, doctorID *uuid.UUID) ([]entity.DoctorSchedule, error) {
	return nil, nil
}

func (s *stubScheduleRepo) Update(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	return nil
}

func (s *stubScheduleRepo) Delete(db *gorm.DB, id int) (int64, error) {
	return 0, nil
}

func (s *stubScheduleRepo) DeleteByDoctorAndClinic(db *gorm.DB, doctorID, clinicID uuid.UUID) error {
	return nil
}

type stubTimeOffRepo struct{}

func (s *stubTimeOffRepo) Create(db *gorm.DB, timeOff *entity.DoctorTimeOff) error {
	return nil
}

func (s *stubTimeOffRepo) FindByID(db *gorm.DB, id int) (*entity.DoctorTimeOff, error) {
	return nil, nil
}

func (s *stubTimeOffRepo) FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorTimeOff, error) {
	return nil, nil
}

func (s *stubTimeOffRepo) FindCoveringDate(db *gorm.DB, doctorIDs []uuid.UUID, clinicID uuid.UUID, date time.Time) ([]entity.DoctorTimeOff, error) {
	return nil, nil
}

func (s *stubTimeOffRepo) Delete(db *gorm.DB, id int) (int64, error) {
	return 0, nil
}

// A concurrent create can pass the existence check on both sides; the
// loser's unique-index violation must surface as a conflict, not an
// internal error.
func TestCreateScheduleConcurrentDuplicateMapsToConflict(t *testing.T) {
	db, mock := newMockGormDB(t)
	log := testLogger()

	doctorID := uuid.New()
	uc := NewDoctorScheduleUsecase(
		db,
		log,
		&stubScheduleRepo{createErr: gorm.ErrDuplicatedKey},
		&stubTimeOffRepo{},
		&stubDoctorRepo{doctor: &entity.Doctor{ID: doctorID, FullName: "Dr. Sarah Tan", IsActive: true}},
		service.NewAuditService(log, &stubQueueEventRepo{}),
	)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := uc.CreateSchedule(context.Background(), &dto.CreateScheduleRequest{
		DoctorID:  doctorID,
		ClinicID:  uuid.New(),
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	if !errors.Is(err, ErrDuplicateScheduleDay) {
		t.Fatalf("CreateSchedule() error = %v, want ErrDuplicateScheduleDay", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet transaction expectations: %v", err)
	}
}
