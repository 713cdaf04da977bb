package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"clinic-queue-engine/internal/delivery/dto"
	"clinic-queue-engine/internal/domain/entity"
	"clinic-queue-engine/internal/domain/repository"
	"clinic-queue-engine/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SlotUsecase interface {
	// GetAvailableSlots expands every active schedule of the clinic-day
	// into candidate slots, overlaying time off, existing bookings and
	// the current time. Unavailable slots are emitted too, flagged
	// is_available=false, so callers can render them as disabled.
	GetAvailableSlots(ctx context.Context, clinicID uuid.UUID, date string, doctorID *uuid.UUID) (*dto.SlotListResponse, error)
}

type slotUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clock           clock.Clock
	scheduleRepo    repository.DoctorScheduleRepository
	timeOffRepo     repository.DoctorTimeOffRepository
	appointmentRepo repository.AppointmentRepository
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clk clock.Clock,
	scheduleRepo repository.DoctorScheduleRepository,
	timeOffRepo repository.DoctorTimeOffRepository,
	appointmentRepo repository.AppointmentRepository,
) SlotUsecase {
	return &slotUsecase{
		db:              db,
		log:             log,
		clock:           clk,
		scheduleRepo:    scheduleRepo,
		timeOffRepo:     timeOffRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (u *slotUsecase) GetAvailableSlots(ctx context.Context, clinicID uuid.UUID, date string, doctorID *uuid.UUID) (*dto.SlotListResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	schedules, err := u.scheduleRepo.FindActiveForDay(u.db.WithContext(ctx), clinicID, int(day.Weekday()), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedules for clinic %s on %s: %+v", clinicID, date, err)
		return nil, err
	}
	if len(schedules) == 0 {
		return &dto.SlotListResponse{Date: date, Slots: []dto.SlotResponse{}, Total: 0}, nil
	}

	doctorIDs := make([]uuid.UUID, 0, len(schedules))
	for _, s := range schedules {
		doctorIDs = append(doctorIDs, s.DoctorID)
	}

	timeOff, err := u.timeOffRepo.FindCoveringDate(u.db.WithContext(ctx), doctorIDs, clinicID, day)
	if err != nil {
		u.log.Warnf("Failed to find time off for clinic %s on %s: %+v", clinicID, date, err)
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindBlockingForDoctorsOnDate(
		u.db.WithContext(ctx), doctorIDs, day, day.AddDate(0, 0, 1))
	if err != nil {
		u.log.Warnf("Failed to find appointments for clinic %s on %s: %+v", clinicID, date, err)
		return nil, err
	}

	now := u.clock.Now()
	slots := make([]dto.SlotResponse, 0, len(schedules)*16)
	for i := range schedules {
		schedule := &schedules[i]

		if hasFullDayTimeOff(timeOff, schedule.DoctorID, clinicID) {
			continue
		}

		partialWindows := partialTimeOffFor(timeOff, schedule.DoctorID, clinicID)
		doctorBookings := appointmentsForDoctor(appointments, schedule.DoctorID)
		slots = append(slots, buildDoctorSlots(schedule, day, partialWindows, doctorBookings, now)...)
	}

	// Time ascending, doctor name as the tie-break for same-time
	// multi-doctor lists.
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Time != slots[j].Time {
			return slots[i].Time < slots[j].Time
		}
		return slots[i].DoctorName < slots[j].DoctorName
	})

	return &dto.SlotListResponse{Date: date, Slots: slots, Total: len(slots)}, nil
}

// buildDoctorSlots steps through one schedule block in slot-duration
// increments. The loop condition keeps whole slots inside the block:
// a zero-length block, or a duration larger than the block span,
// yields zero slots rather than an error.
func buildDoctorSlots(schedule *entity.DoctorSchedule, day time.Time, partialWindows []timeWindow, bookings []entity.Appointment, now time.Time) []dto.SlotResponse {
	startMinutes, err := parseClockMinutes(schedule.StartTime)
	if err != nil {
		return nil
	}
	endMinutes, err := parseClockMinutes(schedule.EndTime)
	if err != nil {
		return nil
	}

	duration := schedule.SlotDuration
	if duration <= 0 {
		return nil
	}

	var slots []dto.SlotResponse
	for m := startMinutes; m+duration <= endMinutes; m += duration {
		slotStart := day.Add(time.Duration(m) * time.Minute)
		slotEnd := slotStart.Add(time.Duration(duration) * time.Minute)

		isDuringTimeOff := false
		for _, w := range partialWindows {
			if m >= w.start && m < w.end {
				isDuringTimeOff = true
				break
			}
		}

		isBooked := false
		for _, b := range bookings {
			// Half-open interval overlap.
			if slotStart.Before(b.EndTime) && b.StartTime.Before(slotEnd) {
				isBooked = true
				break
			}
		}

		isPast := slotStart.Before(now)

		slots = append(slots, dto.SlotResponse{
			Time:           minutesToClock(m),
			EndTime:        minutesToClock(m + duration),
			DoctorID:       schedule.DoctorID,
			DoctorName:     schedule.Doctor.FullName,
			Specialization: schedule.Doctor.Specialization,
			IsAvailable:    !isDuringTimeOff && !isBooked && !isPast,
		})
	}

	return slots
}

// timeWindow is a partial time-off interval in minutes from midnight,
// half-open.
type timeWindow struct {
	start int
	end   int
}

func hasFullDayTimeOff(entries []entity.DoctorTimeOff, doctorID, clinicID uuid.UUID) bool {
	for i := range entries {
		t := &entries[i]
		if t.DoctorID == doctorID && t.IsFullDay && t.AppliesToClinic(clinicID) {
			return true
		}
	}
	return false
}

// partialTimeOffFor collects the doctor's partial windows for the day.
// Bounds apply as local clock time independently on each date of a
// multi-day range; adjacent days' windows never interact.
func partialTimeOffFor(entries []entity.DoctorTimeOff, doctorID, clinicID uuid.UUID) []timeWindow {
	var windows []timeWindow
	for i := range entries {
		t := &entries[i]
		if t.DoctorID != doctorID || t.IsFullDay || !t.AppliesToClinic(clinicID) {
			continue
		}
		start, err := parseClockMinutes(t.StartTime)
		if err != nil {
			continue
		}
		end, err := parseClockMinutes(t.EndTime)
		if err != nil {
			continue
		}
		windows = append(windows, timeWindow{start: start, end: end})
	}
	return windows
}

func appointmentsForDoctor(appointments []entity.Appointment, doctorID uuid.UUID) []entity.Appointment {
	var result []entity.Appointment
	for _, a := range appointments {
		if a.DoctorID == doctorID {
			result = append(result, a)
		}
	}
	return result
}

// parseClockMinutes converts a strict 24h HH:MM string to minutes from
// midnight.
func parseClockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
