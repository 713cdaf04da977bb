package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"clinic-queue-engine/config"
	"clinic-queue-engine/internal/converter"
	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/domain/entity"
	"clinic-queue-engine/internal/domain/repository"
	"clinic-queue-engine/internal/service"
	"clinic-queue-engine/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTokenNotFound          = errors.New("queue token not found")
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrAppointmentWrongClinic = errors.New("appointment does not belong to this clinic")
	ErrAlreadyCheckedIn       = errors.New("appointment already has a queue token")
	ErrAppointmentCancelled   = errors.New("appointment is cancelled")
	ErrInvalidTokenStatus     = errors.New("unknown token status")
	ErrTerminalToken          = errors.New("token is in a terminal state")
	ErrIllegalTransition      = errors.New("transition not permitted from current status")
	ErrTokenNumberConflict    = errors.New("token numbering conflict, please retry")
)

// Attempts at inserting a token before a numbering conflict is
// surfaced as transient.
const maxTokenNumberRetries = 3

type QueueUsecase interface {
	CreateWalkIn(ctx context.Context, req *dto.CreateWalkInRequest) (*dto.TokenResponse, error)
	CheckInAppointment(ctx context.Context, req *dto.CheckInRequest) (*dto.TokenResponse, error)
	// CallNext selects and activates the next waiting token, or
	// returns nil when the clinic is idle.
	CallNext(ctx context.Context, req *dto.CallNextRequest) (*dto.TokenResponse, error)
	UpdateTokenStatus(ctx context.Context, tokenID uuid.UUID, req *dto.UpdateTokenStatusRequest) (*dto.TokenResponse, error)
	GetEstimatedWaitTime(ctx context.Context, tokenID uuid.UUID) (*dto.WaitTimeResponse, error)
	ListQueue(ctx context.Context, clinicID uuid.UUID) (*dto.QueueListResponse, error)
	GetQueueStats(ctx context.Context, clinicID uuid.UUID) (*dto.QueueStatsResponse, error)
	GetSettings(ctx context.Context, clinicID uuid.UUID) (*dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, clinicID uuid.UUID, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type queueUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clock           clock.Clock
	queueCfg        config.QueueConfig
	tokenRepo       repository.QueueTokenRepository
	settingsRepo    repository.ClinicSettingsRepository
	appointmentRepo repository.AppointmentRepository
	counter         *service.TokenCounter
	locker          *service.ClinicLocker
	audit           service.AuditService
}

func NewQueueUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clk clock.Clock,
	queueCfg config.QueueConfig,
	tokenRepo repository.QueueTokenRepository,
	settingsRepo repository.ClinicSettingsRepository,
	appointmentRepo repository.AppointmentRepository,
	counter *service.TokenCounter,
	locker *service.ClinicLocker,
	audit service.AuditService,
) QueueUsecase {
	return &queueUsecase{
		db:              db,
		log:             log,
		clock:           clk,
		queueCfg:        queueCfg,
		tokenRepo:       tokenRepo,
		settingsRepo:    settingsRepo,
		appointmentRepo: appointmentRepo,
		counter:         counter,
		locker:          locker,
		audit:           audit,
	}
}

func (u *queueUsecase) today() time.Time {
	return u.clock.Now().Truncate(24 * time.Hour)
}

// settingsOrDefaults returns the clinic's queue settings, creating the
// row from configured defaults on first touch.
func (u *queueUsecase) settingsOrDefaults(ctx context.Context, clinicID uuid.UUID) (*entity.ClinicQueueSettings, error) {
	settings, err := u.settingsRepo.FindByClinicID(u.db.WithContext(ctx), clinicID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = &entity.ClinicQueueSettings{
		ClinicID:                clinicID,
		QueueBufferMinutes:      u.queueCfg.BufferMinutes,
		UseDoctorQueues:         false,
		LateArrivalGraceMinutes: u.queueCfg.LateGraceMinutes,
		AvgConsultationMinutes:  u.queueCfg.AvgConsultationMinutes,
	}
	if err := u.settingsRepo.Create(u.db.WithContext(ctx), settings); err != nil {
		// Another request may have created the row concurrently.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return u.settingsRepo.FindByClinicID(u.db.WithContext(ctx), clinicID)
		}
		return nil, err
	}
	return settings, nil
}

// CreateWalkIn issues a walk-in token. Walk-ins carry no scheduled
// time and compete in the FIFO lane; a triage priority can push one
// ahead.
func (u *queueUsecase) CreateWalkIn(ctx context.Context, req *dto.CreateWalkInRequest) (*dto.TokenResponse, error) {
	settings, err := u.settingsOrDefaults(ctx, req.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to load settings for clinic %s: %+v", req.ClinicID, err)
		return nil, err
	}

	token := &entity.QueueToken{
		ClinicID:          req.ClinicID,
		DoctorID:          req.DoctorID,
		PatientID:         req.PatientID,
		TokenDate:         u.today(),
		Priority:          req.Priority,
		Status:            entity.TokenStatusWaiting,
		TokenType:         entity.TokenTypeWalkIn,
		EstimatedDuration: settings.AvgConsultationMinutes,
		Notes:             req.Notes,
	}

	if err := u.createNumberedToken(ctx, token, entity.EventTokenCreate, nil); err != nil {
		return nil, err
	}

	u.log.Infof("Walk-in token created: clinic=%s number=%d", req.ClinicID, token.TokenNumber)
	return converter.TokenToResponse(token), nil
}

// classifyArrival decides which lane a checked-in patient joins.
// Within the grace period the token stays in the scheduled lane and
// keeps its slot time. Past it the patient is demoted to the walk-in
// lane with no scheduled time; the original slot survives in a note.
func classifyArrival(appointmentStart time.Time, graceMinutes int, now time.Time) (entity.TokenType, *time.Time, string) {
	lateThreshold := appointmentStart.Add(time.Duration(graceMinutes) * time.Minute)
	if now.After(lateThreshold) {
		note := fmt.Sprintf("Late arrival: originally scheduled for %s", appointmentStart.Format("15:04"))
		return entity.TokenTypeLateArrival, nil, note
	}
	scheduledTime := appointmentStart
	return entity.TokenTypeScheduled, &scheduledTime, ""
}

// CheckInAppointment converts a booking into a queue token. Arrivals
// past the grace period are demoted into the walk-in lane.
func (u *queueUsecase) CheckInAppointment(ctx context.Context, req *dto.CheckInRequest) (*dto.TokenResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.ClinicID != req.ClinicID {
		return nil, ErrAppointmentWrongClinic
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	existing, err := u.tokenRepo.FindByAppointmentID(u.db.WithContext(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to check existing token for appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyCheckedIn
	}

	settings, err := u.settingsOrDefaults(ctx, req.ClinicID)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	appointmentID := appointment.ID
	doctorID := appointment.DoctorID
	token := &entity.QueueToken{
		ClinicID:          req.ClinicID,
		DoctorID:          &doctorID,
		AppointmentID:     &appointmentID,
		PatientID:         appointment.PatientID,
		TokenDate:         u.today(),
		Status:            entity.TokenStatusWaiting,
		EstimatedDuration: settings.AvgConsultationMinutes,
	}

	token.TokenType, token.ScheduledTime, token.Notes = classifyArrival(appointment.StartTime, settings.LateArrivalGraceMinutes, now)

	// The appointment is confirmed in the token's transaction, so a
	// committed token never points at a still-booked appointment. Its
	// in-progress/completed sync happens on token transitions.
	err = u.createNumberedToken(ctx, token, entity.EventTokenCheckIn, func(tx *gorm.DB) error {
		return u.appointmentRepo.UpdateStatus(tx, appointment.ID, entity.AppointmentStatusConfirmed)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Check-in token created: clinic=%s appointment=%s number=%d type=%s",
		req.ClinicID, appointment.ID, token.TokenNumber, token.TokenType)
	return converter.TokenToResponse(token), nil
}

// createNumberedToken allocates the next token number and inserts the
// token. The clinic lock serializes the read-then-increment with other
// creators on this instance; the unique (clinic, day, number) index
// backstops multi-instance races, retried a bounded number of times.
// postCreate, when non-nil, runs inside the insert transaction so
// caller side effects commit or roll back with the token.
func (u *queueUsecase) createNumberedToken(ctx context.Context, token *entity.QueueToken, action string, postCreate func(tx *gorm.DB) error) error {
	unlock := u.locker.Lock(token.ClinicID)
	defer unlock()

	staffID := staffIDFromContext(ctx)
	for attempt := 0; attempt < maxTokenNumberRetries; attempt++ {
		number, err := u.counter.Next(ctx, token.ClinicID, token.TokenDate)
		if err != nil {
			if !errors.Is(err, service.ErrCounterUnavailable) {
				return err
			}
			// Redis down: fall back to the stored maximum. Safe under
			// the clinic lock on a single instance; the unique index
			// catches cross-instance collisions.
			max, dbErr := u.tokenRepo.MaxTokenNumberForDay(u.db.WithContext(ctx), token.ClinicID, token.TokenDate)
			if dbErr != nil {
				return dbErr
			}
			number = max + 1
		}
		token.TokenNumber = number

		err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := u.tokenRepo.Create(tx, token); err != nil {
				return err
			}
			if postCreate != nil {
				if err := postCreate(tx); err != nil {
					return err
				}
			}
			return u.audit.Record(tx, token.ClinicID, staffID, action, entity.JSON{
				"token_id":     token.ID.String(),
				"token_number": token.TokenNumber,
				"token_type":   string(token.TokenType),
				"patient_id":   token.PatientID.String(),
			})
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if token.AppointmentID != nil {
				// The appointment-token link is also unique; a lost
				// race there is a conflict, not a numbering retry.
				if dup, findErr := u.tokenRepo.FindByAppointmentID(u.db.WithContext(ctx), *token.AppointmentID); findErr == nil && dup != nil {
					return ErrAlreadyCheckedIn
				}
			}
			u.log.Warnf("Token number %d collided for clinic %s, retrying", token.TokenNumber, token.ClinicID)
			token.ID = uuid.Nil
			continue
		}
		return err
	}

	return ErrTokenNumberConflict
}

// CallNext runs the three-tier admission policy and activates the
// winner. Selection and the waiting→in-progress transition are one
// serialized unit per clinic.
func (u *queueUsecase) CallNext(ctx context.Context, req *dto.CallNextRequest) (*dto.TokenResponse, error) {
	settings, err := u.settingsOrDefaults(ctx, req.ClinicID)
	if err != nil {
		return nil, err
	}

	// Doctor partitioning is a filter parameter, not a separate
	// algorithm: ignored entirely unless the clinic runs per-doctor
	// queues.
	var doctorFilter *uuid.UUID
	if settings.UseDoctorQueues && req.DoctorID != nil {
		doctorFilter = req.DoctorID
	}

	unlock := u.locker.Lock(req.ClinicID)
	defer unlock()

	now := u.clock.Now()
	waiting, err := u.tokenRepo.FindWaitingForDay(u.db.WithContext(ctx), req.ClinicID, u.today(), doctorFilter)
	if err != nil {
		u.log.Warnf("Failed to load waiting tokens for clinic %s: %+v", req.ClinicID, err)
		return nil, err
	}

	buffer := time.Duration(settings.QueueBufferMinutes) * time.Minute
	selected := selectNextToken(waiting, now, buffer)
	if selected == nil {
		return nil, nil
	}

	staffID := staffIDFromContext(ctx)
	var called *entity.QueueToken
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := u.tokenRepo.FindByIDForUpdate(tx, selected.ID)
		if err != nil {
			return err
		}
		if token == nil {
			return ErrTokenNotFound
		}
		if err := u.applyTransition(tx, token, entity.TokenStatusInProgress, now); err != nil {
			return err
		}
		called = token
		return u.audit.Record(tx, token.ClinicID, staffID, entity.EventTokenCall, entity.JSON{
			"token_id":     token.ID.String(),
			"token_number": token.TokenNumber,
			"token_type":   string(token.TokenType),
		})
	})
	if err != nil {
		u.log.Warnf("Failed to call next token for clinic %s: %+v", req.ClinicID, err)
		return nil, err
	}

	u.log.Infof("Token called: clinic=%s number=%d type=%s", req.ClinicID, called.TokenNumber, called.TokenType)
	return converter.TokenToResponse(called), nil
}

// UpdateTokenStatus applies one lifecycle transition through the
// central state machine.
func (u *queueUsecase) UpdateTokenStatus(ctx context.Context, tokenID uuid.UUID, req *dto.UpdateTokenStatusRequest) (*dto.TokenResponse, error) {
	next := entity.TokenStatus(req.Status)
	if !entity.ValidTokenStatus(next) {
		return nil, ErrInvalidTokenStatus
	}

	now := u.clock.Now()
	staffID := staffIDFromContext(ctx)
	var updated *entity.QueueToken
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := u.tokenRepo.FindByIDForUpdate(tx, tokenID)
		if err != nil {
			return err
		}
		if token == nil {
			return ErrTokenNotFound
		}
		if req.Notes != "" {
			token.Notes = req.Notes
		}
		if err := u.applyTransition(tx, token, next, now); err != nil {
			return err
		}
		updated = token
		return u.audit.Record(tx, token.ClinicID, staffID, entity.EventTokenTransition, entity.JSON{
			"token_id": token.ID.String(),
			"status":   string(next),
		})
	})
	if err != nil {
		if !errors.Is(err, ErrTerminalToken) && !errors.Is(err, ErrIllegalTransition) && !errors.Is(err, ErrTokenNotFound) {
			u.log.Warnf("Failed to transition token %s to %s: %+v", tokenID, next, err)
		}
		return nil, err
	}

	return converter.TokenToResponse(updated), nil
}

// applyTransition is the single choke point for the token lifecycle.
// Status write, timestamps, appointment sync and the rolling-average
// feed all share the caller's transaction.
func (u *queueUsecase) applyTransition(tx *gorm.DB, token *entity.QueueToken, next entity.TokenStatus, now time.Time) error {
	if token.Status.IsTerminal() {
		return ErrTerminalToken
	}
	if !token.Status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}

	var appointmentStatus entity.AppointmentStatus
	switch next {
	case entity.TokenStatusInProgress:
		token.CalledAt = &now
		token.ConsultationStart = &now
		appointmentStatus = entity.AppointmentStatusInProgress

	case entity.TokenStatusCompleted:
		token.CompletedAt = &now
		token.ConsultationEnd = &now
		if token.ConsultationStart != nil {
			duration := int(math.Round(now.Sub(*token.ConsultationStart).Minutes()))
			token.EstimatedDuration = duration
			if err := u.foldIntoAverage(tx, token.ClinicID, duration); err != nil {
				return err
			}
		}
		appointmentStatus = entity.AppointmentStatusCompleted

	case entity.TokenStatusNoShow:
		token.CompletedAt = &now
		appointmentStatus = entity.AppointmentStatusNoShow

	case entity.TokenStatusCancelled:
		token.CompletedAt = &now
		appointmentStatus = entity.AppointmentStatusCancelled
	}

	token.Status = next
	if err := u.tokenRepo.Update(tx, token); err != nil {
		return err
	}

	if token.AppointmentID != nil {
		if err := u.appointmentRepo.UpdateStatus(tx, *token.AppointmentID, appointmentStatus); err != nil {
			return err
		}
	}

	return nil
}

// foldIntoAverage feeds one observed duration into the clinic's
// rolling average under a row lock, so concurrent completions across
// instances serialize on the settings row.
func (u *queueUsecase) foldIntoAverage(tx *gorm.DB, clinicID uuid.UUID, observedMinutes int) error {
	settings, err := u.settingsRepo.FindForUpdate(tx, clinicID)
	if err != nil {
		return err
	}
	if settings == nil {
		// Token without a settings row should not happen; tolerate it
		// rather than failing the completion.
		u.log.Warnf("No settings row for clinic %s, skipping average update", clinicID)
		return nil
	}

	newAvg := nextRollingAverage(settings.AvgConsultationMinutes, observedMinutes)
	return u.settingsRepo.UpdateAvgConsultation(tx, clinicID, newAvg)
}

func (u *queueUsecase) GetEstimatedWaitTime(ctx context.Context, tokenID uuid.UUID) (*dto.WaitTimeResponse, error) {
	token, err := u.tokenRepo.FindByID(u.db.WithContext(ctx), tokenID)
	if err != nil {
		u.log.Warnf("Failed to find token %s: %+v", tokenID, err)
		return nil, err
	}
	if token == nil {
		return nil, ErrTokenNotFound
	}

	if !token.IsWaiting() {
		return &dto.WaitTimeResponse{TokenID: token.ID}, nil
	}

	waiting, err := u.tokenRepo.FindWaitingForDay(u.db.WithContext(ctx), token.ClinicID, token.TokenDate, nil)
	if err != nil {
		return nil, err
	}
	inProgress, err := u.tokenRepo.CountInProgressForDay(u.db.WithContext(ctx), token.ClinicID, token.TokenDate)
	if err != nil {
		return nil, err
	}
	settings, err := u.settingsOrDefaults(ctx, token.ClinicID)
	if err != nil {
		return nil, err
	}

	ahead := countPatientsAhead(waiting, token)
	return &dto.WaitTimeResponse{
		TokenID:              token.ID,
		EstimatedWaitMinutes: estimateWaitMinutes(ahead, int(inProgress), settings.AvgConsultationMinutes),
		PatientsAhead:        ahead,
		InProgressCount:      int(inProgress),
	}, nil
}

func (u *queueUsecase) ListQueue(ctx context.Context, clinicID uuid.UUID) (*dto.QueueListResponse, error) {
	tokens, err := u.tokenRepo.ListForDay(u.db.WithContext(ctx), clinicID, u.today())
	if err != nil {
		u.log.Warnf("Failed to list queue for clinic %s: %+v", clinicID, err)
		return nil, err
	}

	return &dto.QueueListResponse{
		Tokens: converter.TokensToResponses(tokens),
		Total:  len(tokens),
	}, nil
}

func (u *queueUsecase) GetQueueStats(ctx context.Context, clinicID uuid.UUID) (*dto.QueueStatsResponse, error) {
	today := u.today()
	counts, err := u.tokenRepo.CountByStatusForDay(u.db.WithContext(ctx), clinicID, today)
	if err != nil {
		u.log.Warnf("Failed to count tokens for clinic %s: %+v", clinicID, err)
		return nil, err
	}
	lastNumber, err := u.tokenRepo.MaxTokenNumberForDay(u.db.WithContext(ctx), clinicID, today)
	if err != nil {
		return nil, err
	}
	settings, err := u.settingsOrDefaults(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	stats := &dto.QueueStatsResponse{
		ClinicID:               clinicID,
		Date:                   today.Format("2006-01-02"),
		LastTokenNumber:        lastNumber,
		AvgConsultationMinutes: settings.AvgConsultationMinutes,
	}
	for _, c := range counts {
		switch c.Status {
		case entity.TokenStatusWaiting:
			stats.Waiting = c.Count
		case entity.TokenStatusInProgress:
			stats.InProgress = c.Count
		case entity.TokenStatusCompleted:
			stats.Completed = c.Count
		case entity.TokenStatusNoShow:
			stats.NoShow = c.Count
		case entity.TokenStatusCancelled:
			stats.Cancelled = c.Count
		}
	}

	return stats, nil
}

func (u *queueUsecase) GetSettings(ctx context.Context, clinicID uuid.UUID) (*dto.SettingsResponse, error) {
	settings, err := u.settingsOrDefaults(ctx, clinicID)
	if err != nil {
		u.log.Warnf("Failed to load settings for clinic %s: %+v", clinicID, err)
		return nil, err
	}
	return converter.SettingsToResponse(settings), nil
}

func (u *queueUsecase) UpdateSettings(ctx context.Context, clinicID uuid.UUID, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := u.settingsOrDefaults(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	if req.QueueBufferMinutes != nil {
		settings.QueueBufferMinutes = *req.QueueBufferMinutes
	}
	if req.UseDoctorQueues != nil {
		settings.UseDoctorQueues = *req.UseDoctorQueues
	}
	if req.LateArrivalGraceMinutes != nil {
		settings.LateArrivalGraceMinutes = *req.LateArrivalGraceMinutes
	}
	if req.AvgConsultationMinutes != nil {
		settings.AvgConsultationMinutes = *req.AvgConsultationMinutes
	}

	staffID := staffIDFromContext(ctx)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.settingsRepo.Update(tx, settings); err != nil {
			return err
		}
		return u.audit.Record(tx, clinicID, staffID, entity.EventSettingsUpdate, entity.JSON{
			"queue_buffer_minutes":       settings.QueueBufferMinutes,
			"use_doctor_queues":          settings.UseDoctorQueues,
			"late_arrival_grace_minutes": settings.LateArrivalGraceMinutes,
			"avg_consultation_minutes":   settings.AvgConsultationMinutes,
		})
	})
	if err != nil {
		u.log.Warnf("Failed to update settings for clinic %s: %+v", clinicID, err)
		return nil, err
	}

	return converter.SettingsToResponse(settings), nil
}
