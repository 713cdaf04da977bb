package usecase

import (
	"testing"
	"time"

	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
)

var slotDay = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday

func testSchedule(start, end string, duration int) *entity.DoctorSchedule {
	return &entity.DoctorSchedule{
		DoctorID:     uuid.New(),
		ClinicID:     uuid.New(),
		DayOfWeek:    1,
		StartTime:    start,
		EndTime:      end,
		SlotDuration: duration,
		IsActive:     true,
		Doctor:       entity.Doctor{FullName: "Dr. Sarah Tan", Specialization: "General Practice"},
	}
}

func dayMinute(m int) time.Time {
	return slotDay.Add(time.Duration(m) * time.Minute)
}

func TestBuildDoctorSlotsWholeSlotsOnly(t *testing.T) {
	// 09:00-09:30 at 15 minutes gives exactly two slots; a third would
	// spill past the end of the block.
	schedule := testSchedule("09:00", "09:30", 15)
	slots := buildDoctorSlots(schedule, slotDay, nil, nil, dayMinute(0))

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Time != "09:00" || slots[0].EndTime != "09:15" {
		t.Errorf("first slot = %s-%s, want 09:00-09:15", slots[0].Time, slots[0].EndTime)
	}
	if slots[1].Time != "09:15" || slots[1].EndTime != "09:30" {
		t.Errorf("second slot = %s-%s, want 09:15-09:30", slots[1].Time, slots[1].EndTime)
	}
}

func TestBuildDoctorSlotsDurationLargerThanBlock(t *testing.T) {
	schedule := testSchedule("09:00", "09:20", 30)
	if slots := buildDoctorSlots(schedule, slotDay, nil, nil, dayMinute(0)); len(slots) != 0 {
		t.Errorf("expected no slots when the duration exceeds the block, got %d", len(slots))
	}
}

func TestBuildDoctorSlotsZeroSpanBlock(t *testing.T) {
	schedule := testSchedule("09:00", "09:00", 30)
	if slots := buildDoctorSlots(schedule, slotDay, nil, nil, dayMinute(0)); len(slots) != 0 {
		t.Errorf("expected no slots for a zero-span block, got %d", len(slots))
	}
}

func TestBuildDoctorSlotsPartialTimeOff(t *testing.T) {
	// 12:00-13:00 off inside a 09:00-17:00 day: slots starting in the
	// window are unavailable, the 13:00 slot is back on.
	schedule := testSchedule("09:00", "17:00", 30)
	windows := []timeWindow{{start: 12 * 60, end: 13 * 60}}
	slots := buildDoctorSlots(schedule, slotDay, windows, nil, dayMinute(0))

	byTime := map[string]bool{}
	for _, s := range slots {
		byTime[s.Time] = s.IsAvailable
	}

	if byTime["11:30"] != true {
		t.Error("11:30 should be available before the window")
	}
	if byTime["12:00"] != false || byTime["12:30"] != false {
		t.Error("slots starting inside 12:00-13:00 should be unavailable")
	}
	if byTime["13:00"] != true {
		t.Error("13:00 starts at the window end and should be available")
	}
}

func TestBuildDoctorSlotsBookingOverlap(t *testing.T) {
	// A 10:00-10:30 booking against 10-minute slots blocks 10:00,
	// 10:10 and 10:20 but not 10:30.
	schedule := testSchedule("10:00", "11:00", 10)
	bookings := []entity.Appointment{{
		DoctorID:  schedule.DoctorID,
		StartTime: dayMinute(10 * 60),
		EndTime:   dayMinute(10*60 + 30),
		Status:    entity.AppointmentStatusBooked,
	}}
	slots := buildDoctorSlots(schedule, slotDay, nil, bookings, dayMinute(0))

	byTime := map[string]bool{}
	for _, s := range slots {
		byTime[s.Time] = s.IsAvailable
	}

	for _, blocked := range []string{"10:00", "10:10", "10:20"} {
		if byTime[blocked] {
			t.Errorf("%s overlaps the booking and should be unavailable", blocked)
		}
	}
	if !byTime["10:30"] {
		t.Error("10:30 touches the booking end only and should be available")
	}
}

func TestBuildDoctorSlotsPastSlotsUnavailable(t *testing.T) {
	schedule := testSchedule("09:00", "10:00", 30)
	now := dayMinute(9*60 + 10) // 09:10
	slots := buildDoctorSlots(schedule, slotDay, nil, nil, now)

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].IsAvailable {
		t.Error("09:00 already started and should be unavailable")
	}
	if !slots[1].IsAvailable {
		t.Error("09:30 is still in the future and should be available")
	}
}

func TestBuildDoctorSlotsCarriesDoctorInfo(t *testing.T) {
	schedule := testSchedule("09:00", "09:30", 30)
	slots := buildDoctorSlots(schedule, slotDay, nil, nil, dayMinute(0))

	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].DoctorID != schedule.DoctorID {
		t.Error("slot should carry the schedule's doctor ID")
	}
	if slots[0].DoctorName != "Dr. Sarah Tan" || slots[0].Specialization != "General Practice" {
		t.Errorf("slot doctor info = %q/%q", slots[0].DoctorName, slots[0].Specialization)
	}
}

func TestHasFullDayTimeOff(t *testing.T) {
	doctorID := uuid.New()
	clinicID := uuid.New()
	otherClinic := uuid.New()

	entries := []entity.DoctorTimeOff{
		{DoctorID: doctorID, ClinicID: &otherClinic, IsFullDay: true},
	}
	if hasFullDayTimeOff(entries, doctorID, clinicID) {
		t.Error("full-day entry scoped to another clinic must not apply")
	}

	entries = append(entries, entity.DoctorTimeOff{DoctorID: doctorID, IsFullDay: true})
	if !hasFullDayTimeOff(entries, doctorID, clinicID) {
		t.Error("clinic-agnostic full-day entry must apply everywhere")
	}
}

func TestPartialTimeOffForSkipsMalformedTimes(t *testing.T) {
	doctorID := uuid.New()
	clinicID := uuid.New()

	entries := []entity.DoctorTimeOff{
		{DoctorID: doctorID, IsFullDay: false, StartTime: "12:00", EndTime: "13:00"},
		{DoctorID: doctorID, IsFullDay: false, StartTime: "bad", EndTime: "13:00"},
		{DoctorID: uuid.New(), IsFullDay: false, StartTime: "08:00", EndTime: "09:00"},
	}

	windows := partialTimeOffFor(entries, doctorID, clinicID)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if windows[0].start != 12*60 || windows[0].end != 13*60 {
		t.Errorf("window = %d-%d, want 720-780", windows[0].start, windows[0].end)
	}
}

func TestParseClockMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"0930", 0, true},
	}

	for _, tt := range tests {
		got, err := parseClockMinutes(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseClockMinutes(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseClockMinutes(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseClockMinutes(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
