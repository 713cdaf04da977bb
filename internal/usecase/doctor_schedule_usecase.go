package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-queue-engine/internal/converter"
	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/delivery/http/middleware"
	"clinic-queue-engine/internal/domain/entity"
	"clinic-queue-engine/internal/domain/repository"
	"clinic-queue-engine/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrTimeOffNotFound      = errors.New("time off entry not found")
	ErrInvalidTimeFormat    = errors.New("invalid time format, use HH:MM")
	ErrInvalidTimeRange     = errors.New("end time must be after start time")
	ErrInvalidDateFormat    = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
	ErrMissingPartialBounds = errors.New("partial-day time off requires start and end times")
	ErrDuplicateScheduleDay = errors.New("schedule already exists for this doctor, clinic and day")
)

const defaultSlotDuration = 30

type DoctorScheduleUsecase interface {
	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, scheduleID int) error
	ListSchedules(ctx context.Context, doctorID uuid.UUID, clinicID *uuid.UUID) (*dto.ScheduleListResponse, error)
	BulkReplaceSchedules(ctx context.Context, req *dto.BulkReplaceSchedulesRequest) (*dto.ScheduleListResponse, error)
	CreateTimeOff(ctx context.Context, req *dto.CreateTimeOffRequest) (*dto.TimeOffResponse, error)
	DeleteTimeOff(ctx context.Context, timeOffID int) error
	ListTimeOff(ctx context.Context, doctorID uuid.UUID) (*dto.TimeOffListResponse, error)
}

type doctorScheduleUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	scheduleRepo repository.DoctorScheduleRepository
	timeOffRepo  repository.DoctorTimeOffRepository
	doctorRepo   repository.DoctorRepository
	audit        service.AuditService
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	scheduleRepo repository.DoctorScheduleRepository,
	timeOffRepo repository.DoctorTimeOffRepository,
	doctorRepo repository.DoctorRepository,
	audit service.AuditService,
) DoctorScheduleUsecase {
	return &doctorScheduleUsecase{
		db:           db,
		log:          log,
		scheduleRepo: scheduleRepo,
		timeOffRepo:  timeOffRepo,
		doctorRepo:   doctorRepo,
		audit:        audit,
	}
}

// validateTimeRange rejects malformed HH:MM strings and empty or
// inverted ranges before anything is written. The length check keeps
// zero-padding mandatory, matching the hhmm request tag; time.Parse
// alone would accept "9:00".
func validateTimeRange(startTime, endTime string) error {
	if len(startTime) != 5 || len(endTime) != 5 {
		return ErrInvalidTimeFormat
	}
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return ErrInvalidTimeFormat
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return ErrInvalidTimeFormat
	}
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

func (u *doctorScheduleUsecase) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	// One block per (doctor, clinic, day); changing hours goes through
	// update or bulk replace, never a second row.
	existing, err := u.scheduleRepo.FindByDoctorDay(u.db.WithContext(ctx), req.DoctorID, req.ClinicID, req.DayOfWeek)
	if err != nil {
		u.log.Warnf("Failed to check existing schedule: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateScheduleDay
	}

	slotDuration := req.SlotDuration
	if slotDuration == 0 {
		slotDuration = defaultSlotDuration
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	schedule := &entity.DoctorSchedule{
		DoctorID:     req.DoctorID,
		ClinicID:     req.ClinicID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SlotDuration: slotDuration,
		IsActive:     isActive,
	}

	staffID := staffIDFromContext(ctx)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.scheduleRepo.Create(tx, schedule); err != nil {
			return err
		}
		return u.audit.Record(tx, req.ClinicID, staffID, entity.EventScheduleCreate, entity.JSON{
			"schedule_id": schedule.ID,
			"doctor_id":   schedule.DoctorID.String(),
			"day_of_week": schedule.DayOfWeek,
		})
	})
	if err != nil {
		// A concurrent create can slip past the existence check; the
		// (doctor, clinic, day) unique index reports it here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateScheduleDay
		}
		u.log.Warnf("Failed to create schedule: %+v", err)
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) UpdateSchedule(ctx context.Context, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	if req.StartTime != "" {
		schedule.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		schedule.EndTime = req.EndTime
	}
	if err := validateTimeRange(schedule.StartTime, schedule.EndTime); err != nil {
		return nil, err
	}
	if req.SlotDuration != nil {
		schedule.SlotDuration = *req.SlotDuration
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	staffID := staffIDFromContext(ctx)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.scheduleRepo.Update(tx, schedule); err != nil {
			return err
		}
		return u.audit.Record(tx, schedule.ClinicID, staffID, entity.EventScheduleUpdate, entity.JSON{
			"schedule_id": schedule.ID,
			"start_time":  schedule.StartTime,
			"end_time":    schedule.EndTime,
			"is_active":   schedule.IsActive,
		})
	})
	if err != nil {
		u.log.Warnf("Failed to update schedule %d: %+v", scheduleID, err)
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) DeleteSchedule(ctx context.Context, scheduleID int) error {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", scheduleID, err)
		return err
	}
	if schedule == nil {
		return ErrScheduleNotFound
	}

	staffID := staffIDFromContext(ctx)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := u.scheduleRepo.Delete(tx, scheduleID); err != nil {
			return err
		}
		return u.audit.Record(tx, schedule.ClinicID, staffID, entity.EventScheduleDelete, entity.JSON{
			"schedule_id": scheduleID,
			"doctor_id":   schedule.DoctorID.String(),
		})
	})
	if err != nil {
		u.log.Warnf("Failed to delete schedule %d: %+v", scheduleID, err)
		return err
	}

	return nil
}

func (u *doctorScheduleUsecase) ListSchedules(ctx context.Context, doctorID uuid.UUID, clinicID *uuid.UUID) (*dto.ScheduleListResponse, error) {
	schedules, err := u.scheduleRepo.FindByDoctor(u.db.WithContext(ctx), doctorID, clinicID)
	if err != nil {
		u.log.Warnf("Failed to list schedules for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

// BulkReplaceSchedules swaps a doctor's entire weekly plan at one
// clinic for the given set. The whole batch is validated before the
// transaction, so a bad item aborts with nothing deleted.
func (u *doctorScheduleUsecase) BulkReplaceSchedules(ctx context.Context, req *dto.BulkReplaceSchedulesRequest) (*dto.ScheduleListResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	seenDays := make(map[int]bool, len(req.Items))
	schedules := make([]entity.DoctorSchedule, 0, len(req.Items))
	for _, item := range req.Items {
		if err := validateTimeRange(item.StartTime, item.EndTime); err != nil {
			return nil, err
		}
		if seenDays[item.DayOfWeek] {
			return nil, ErrDuplicateScheduleDay
		}
		seenDays[item.DayOfWeek] = true

		slotDuration := item.SlotDuration
		if slotDuration == 0 {
			slotDuration = defaultSlotDuration
		}
		isActive := true
		if item.IsActive != nil {
			isActive = *item.IsActive
		}

		schedules = append(schedules, entity.DoctorSchedule{
			DoctorID:     req.DoctorID,
			ClinicID:     req.ClinicID,
			DayOfWeek:    item.DayOfWeek,
			StartTime:    item.StartTime,
			EndTime:      item.EndTime,
			SlotDuration: slotDuration,
			IsActive:     isActive,
		})
	}

	staffID := staffIDFromContext(ctx)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.scheduleRepo.DeleteByDoctorAndClinic(tx, req.DoctorID, req.ClinicID); err != nil {
			return err
		}
		if err := u.scheduleRepo.CreateBatch(tx, schedules); err != nil {
			return err
		}
		return u.audit.Record(tx, req.ClinicID, staffID, entity.EventScheduleReplace, entity.JSON{
			"doctor_id": req.DoctorID.String(),
			"count":     len(schedules),
		})
	})
	if err != nil {
		u.log.Warnf("Failed to bulk replace schedules for doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

func (u *doctorScheduleUsecase) CreateTimeOff(ctx context.Context, req *dto.CreateTimeOffRequest) (*dto.TimeOffResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}

	if !req.IsFullDay {
		if req.StartTime == "" || req.EndTime == "" {
			return nil, ErrMissingPartialBounds
		}
		if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
			return nil, err
		}
	}

	timeOff := &entity.DoctorTimeOff{
		DoctorID:  req.DoctorID,
		ClinicID:  req.ClinicID,
		StartDate: startDate,
		EndDate:   endDate,
		IsFullDay: req.IsFullDay,
		Reason:    req.Reason,
	}
	if !req.IsFullDay {
		timeOff.StartTime = req.StartTime
		timeOff.EndTime = req.EndTime
	}

	// Clinic-agnostic entries are audited under the doctor's id since
	// there is no single clinic to attribute them to.
	auditClinic := uuid.Nil
	if req.ClinicID != nil {
		auditClinic = *req.ClinicID
	}

	staffID := staffIDFromContext(ctx)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.timeOffRepo.Create(tx, timeOff); err != nil {
			return err
		}
		return u.audit.Record(tx, auditClinic, staffID, entity.EventTimeOffCreate, entity.JSON{
			"time_off_id": timeOff.ID,
			"doctor_id":   timeOff.DoctorID.String(),
			"start_date":  req.StartDate,
			"end_date":    req.EndDate,
			"is_full_day": req.IsFullDay,
		})
	})
	if err != nil {
		u.log.Warnf("Failed to create time off: %+v", err)
		return nil, err
	}

	return converter.TimeOffToResponse(timeOff), nil
}

func (u *doctorScheduleUsecase) DeleteTimeOff(ctx context.Context, timeOffID int) error {
	timeOff, err := u.timeOffRepo.FindByID(u.db.WithContext(ctx), timeOffID)
	if err != nil {
		u.log.Warnf("Failed to find time off %d: %+v", timeOffID, err)
		return err
	}
	if timeOff == nil {
		return ErrTimeOffNotFound
	}

	auditClinic := uuid.Nil
	if timeOff.ClinicID != nil {
		auditClinic = *timeOff.ClinicID
	}

	staffID := staffIDFromContext(ctx)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := u.timeOffRepo.Delete(tx, timeOffID); err != nil {
			return err
		}
		return u.audit.Record(tx, auditClinic, staffID, entity.EventTimeOffDelete, entity.JSON{
			"time_off_id": timeOffID,
			"doctor_id":   timeOff.DoctorID.String(),
		})
	})
	if err != nil {
		u.log.Warnf("Failed to delete time off %d: %+v", timeOffID, err)
		return err
	}

	return nil
}

func (u *doctorScheduleUsecase) ListTimeOff(ctx context.Context, doctorID uuid.UUID) (*dto.TimeOffListResponse, error) {
	entries, err := u.timeOffRepo.FindByDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list time off for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.TimeOffListResponse{
		Entries: converter.TimeOffsToResponses(entries),
		Total:   len(entries),
	}, nil
}

// staffIDFromContext returns the authenticated staff id for audit
// attribution, or nil for unauthenticated internal calls.
func staffIDFromContext(ctx context.Context) *uuid.UUID {
	staffID, ok := middleware.GetStaffIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &staffID
}
