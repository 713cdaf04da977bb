package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"clinic-queue-engine/config"
	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/domain/entity"
	"clinic-queue-engine/internal/domain/repository"
	"clinic-queue-engine/internal/service"
	"clinic-queue-engine/pkg/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockGormDB backs a gorm connection with sqlmock so transaction
// boundaries can be asserted without a live Postgres. The repositories
// are stubbed, so only Begin/Commit/Rollback reach the driver.
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() error: %v", err)
	}
	return db, mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// offlineCounter returns a TokenCounter whose Redis is unreachable, so
// number allocation exercises the database fallback path.
func offlineCounter(db *gorm.DB, log *logrus.Logger, tokenRepo repository.QueueTokenRepository) *service.TokenCounter {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return service.NewTokenCounter(db, client, log, tokenRepo)
}

type stubAppointmentRepo struct {
	appointment *entity.Appointment
	updateErr   error
	updateCalls int
	updatedTx   *gorm.DB
	updatedID   uuid.UUID
	updatedTo   entity.AppointmentStatus
}

func (s *stubAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return s.appointment, nil
}

func (s *stubAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	s.updateCalls++
	s.updatedTx = db
	s.updatedID = id
	s.updatedTo = status
	return s.updateErr
}

func (s *stubAppointmentRepo) FindBlockingForDoctorsOnDate(db *gorm.DB, doctorIDs []uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error) {
	return nil, nil
}

type stubQueueTokenRepo struct {
	maxNumber int
	createErr error
	createdTx *gorm.DB
	created   *entity.QueueToken
}

func (s *stubQueueTokenRepo) Create(db *gorm.DB, token *entity.QueueToken) error {
	s.createdTx = db
	s.created = token
	return s.createErr
}

func (s *stubQueueTokenRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.QueueToken, error) {
	return nil, nil
}

func (s *stubQueueTokenRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.QueueToken, error) {
	return nil, nil
}

func (s *stubQueueTokenRepo) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.QueueToken, error) {
	return nil, nil
}

func (s *stubQueueTokenRepo) FindWaitingForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time, doctorID *uuid.UUID) ([]entity.QueueToken, error) {
	return nil, nil
}

func (s *stubQueueTokenRepo) ListForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) ([]entity.QueueToken, error) {
	return nil, nil
}

func (s *stubQueueTokenRepo) CountByStatusForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) ([]repository.StatusCount, error) {
	return nil, nil
}

func (s *stubQueueTokenRepo) CountInProgressForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) (int64, error) {
	return 0, nil
}

func (s *stubQueueTokenRepo) MaxTokenNumberForDay(db *gorm.DB, clinicID uuid.UUID, date time.Time) (int, error) {
	return s.maxNumber, nil
}

func (s *stubQueueTokenRepo) MaxTokenNumbersForDate(db *gorm.DB, date time.Time) ([]repository.ClinicTokenMax, error) {
	return nil, nil
}

func (s *stubQueueTokenRepo) Update(db *gorm.DB, token *entity.QueueToken) error {
	return nil
}

type stubSettingsRepo struct {
	settings *entity.ClinicQueueSettings
}

func (s *stubSettingsRepo) Create(db *gorm.DB, settings *entity.ClinicQueueSettings) error {
	return nil
}

func (s *stubSettingsRepo) FindByClinicID(db *gorm.DB, clinicID uuid.UUID) (*entity.ClinicQueueSettings, error) {
	return s.settings, nil
}

func (s *stubSettingsRepo) FindForUpdate(db *gorm.DB, clinicID uuid.UUID) (*entity.ClinicQueueSettings, error) {
	return s.settings, nil
}

func (s *stubSettingsRepo) Update(db *gorm.DB, settings *entity.ClinicQueueSettings) error {
	return nil
}

func (s *stubSettingsRepo) UpdateAvgConsultation(db *gorm.DB, clinicID uuid.UUID, avgMinutes int) error {
	return nil
}

type stubQueueEventRepo struct {
	createdTx *gorm.DB
	events    []entity.QueueEvent
}

func (s *stubQueueEventRepo) Create(db *gorm.DB, event *entity.QueueEvent) error {
	s.createdTx = db
	s.events = append(s.events, *event)
	return nil
}

func (s *stubQueueEventRepo) ListByClinic(db *gorm.DB, clinicID uuid.UUID, limit int) ([]entity.QueueEvent, error) {
	return nil, nil
}

func TestClassifyArrival(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	const grace = 15

	tests := []struct {
		name          string
		now           time.Time
		wantType      entity.TokenType
		wantScheduled bool
		wantNote      string
	}{
		{"early", start.Add(-10 * time.Minute), entity.TokenTypeScheduled, true, ""},
		{"on time", start, entity.TokenTypeScheduled, true, ""},
		{"one minute inside grace", start.Add((grace - 1) * time.Minute), entity.TokenTypeScheduled, true, ""},
		{"exactly at grace boundary", start.Add(grace * time.Minute), entity.TokenTypeScheduled, true, ""},
		{"one minute past grace", start.Add((grace + 1) * time.Minute), entity.TokenTypeLateArrival, false, "Late arrival: originally scheduled for 10:00"},
		{"hours late", start.Add(3 * time.Hour), entity.TokenTypeLateArrival, false, "Late arrival: originally scheduled for 10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := clock.Fixed(tt.now)
			tokenType, scheduled, note := classifyArrival(start, grace, clk.Now())

			if tokenType != tt.wantType {
				t.Errorf("token type = %s, want %s", tokenType, tt.wantType)
			}
			if tt.wantScheduled {
				if scheduled == nil || !scheduled.Equal(start) {
					t.Errorf("scheduled time = %v, want %v", scheduled, start)
				}
			} else if scheduled != nil {
				t.Errorf("scheduled time = %v, want nil", scheduled)
			}
			if note != tt.wantNote {
				t.Errorf("note = %q, want %q", note, tt.wantNote)
			}
		})
	}
}

type checkInFixture struct {
	usecase QueueUsecase
	mock    sqlmock.Sqlmock
	tokens  *stubQueueTokenRepo
	appts   *stubAppointmentRepo
	events  *stubQueueEventRepo
}

func newCheckInFixture(t *testing.T, now time.Time, appointment *entity.Appointment, settings *entity.ClinicQueueSettings) *checkInFixture {
	t.Helper()

	db, mock := newMockGormDB(t)
	log := testLogger()

	tokens := &stubQueueTokenRepo{maxNumber: 4}
	appts := &stubAppointmentRepo{appointment: appointment}
	events := &stubQueueEventRepo{}

	locker := service.NewClinicLocker(log)
	t.Cleanup(locker.Stop)

	uc := NewQueueUsecase(
		db,
		log,
		clock.Fixed(now),
		config.QueueConfig{},
		tokens,
		&stubSettingsRepo{settings: settings},
		appts,
		offlineCounter(db, log, tokens),
		locker,
		service.NewAuditService(log, events),
	)

	return &checkInFixture{usecase: uc, mock: mock, tokens: tokens, appts: appts, events: events}
}

func checkInAppointmentAt(clinicID uuid.UUID, start time.Time) *entity.Appointment {
	return &entity.Appointment{
		ID:        uuid.New(),
		ClinicID:  clinicID,
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    entity.AppointmentStatusBooked,
	}
}

func TestCheckInConfirmsAppointmentInTokenTransaction(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 2, 0, 0, time.UTC)
	clinicID := uuid.New()
	appointment := checkInAppointmentAt(clinicID, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	settings := &entity.ClinicQueueSettings{
		ClinicID:                clinicID,
		QueueBufferMinutes:      15,
		LateArrivalGraceMinutes: 15,
		AvgConsultationMinutes:  20,
	}

	f := newCheckInFixture(t, now, appointment, settings)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.usecase.CheckInAppointment(context.Background(), &dto.CheckInRequest{
		ClinicID:      clinicID,
		AppointmentID: appointment.ID,
	})
	if err != nil {
		t.Fatalf("CheckInAppointment() error = %v", err)
	}
	if resp.TokenNumber != 5 {
		t.Errorf("token number = %d, want 5", resp.TokenNumber)
	}
	if resp.TokenType != string(entity.TokenTypeScheduled) {
		t.Errorf("token type = %s, want %s", resp.TokenType, entity.TokenTypeScheduled)
	}

	if f.appts.updateCalls != 1 {
		t.Fatalf("appointment status updates = %d, want 1", f.appts.updateCalls)
	}
	if f.appts.updatedID != appointment.ID {
		t.Errorf("updated appointment = %s, want %s", f.appts.updatedID, appointment.ID)
	}
	if f.appts.updatedTo != entity.AppointmentStatusConfirmed {
		t.Errorf("appointment status = %s, want %s", f.appts.updatedTo, entity.AppointmentStatusConfirmed)
	}
	if f.appts.updatedTx != f.tokens.createdTx {
		t.Error("appointment confirmed outside the token insert transaction")
	}
	if f.events.createdTx != f.tokens.createdTx {
		t.Error("queue event recorded outside the token insert transaction")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet transaction expectations: %v", err)
	}
}

func TestCheckInFailedConfirmRollsBackToken(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 2, 0, 0, time.UTC)
	clinicID := uuid.New()
	appointment := checkInAppointmentAt(clinicID, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	settings := &entity.ClinicQueueSettings{
		ClinicID:                clinicID,
		QueueBufferMinutes:      15,
		LateArrivalGraceMinutes: 15,
		AvgConsultationMinutes:  20,
	}

	f := newCheckInFixture(t, now, appointment, settings)
	confirmErr := errors.New("appointments row lock timeout")
	f.appts.updateErr = confirmErr

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	resp, err := f.usecase.CheckInAppointment(context.Background(), &dto.CheckInRequest{
		ClinicID:      clinicID,
		AppointmentID: appointment.ID,
	})
	if resp != nil {
		t.Fatalf("got token %+v, want nil", resp)
	}
	if !errors.Is(err, confirmErr) {
		t.Fatalf("CheckInAppointment() error = %v, want %v", err, confirmErr)
	}
	if len(f.events.events) != 0 {
		t.Errorf("queue events recorded = %d, want 0", len(f.events.events))
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet transaction expectations: %v", err)
	}
}
