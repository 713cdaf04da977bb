package validator

import "testing"

type clockFields struct {
	StartTime string `validate:"required,hhmm"`
	Date      string `validate:"required,dateonly"`
}

func TestHHMMTag(t *testing.T) {
	v := NewValidator()

	valid := []string{"00:00", "09:30", "23:59"}
	for _, s := range valid {
		if err := v.Validate(&clockFields{StartTime: s, Date: "2025-06-02"}); err != nil {
			t.Errorf("expected %q to pass hhmm validation: %v", s, err)
		}
	}

	invalid := []string{"9:30", "24:00", "12:60", "0930", "noon", "09:30:00"}
	for _, s := range invalid {
		if err := v.Validate(&clockFields{StartTime: s, Date: "2025-06-02"}); err == nil {
			t.Errorf("expected %q to fail hhmm validation", s)
		}
	}
}

func TestDateOnlyTag(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&clockFields{StartTime: "09:00", Date: "2025-02-28"}); err != nil {
		t.Errorf("expected valid date to pass: %v", err)
	}

	invalid := []string{"2025-02-30", "2025-13-01", "28-02-2025", "2025/02/28"}
	for _, s := range invalid {
		if err := v.Validate(&clockFields{StartTime: "09:00", Date: s}); err == nil {
			t.Errorf("expected %q to fail dateonly validation", s)
		}
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&clockFields{StartTime: "bad", Date: ""})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	formatted := v.FormatValidationErrors(err)
	if formatted["StartTime"] != "StartTime must be a 24-hour HH:MM time" {
		t.Errorf("unexpected StartTime message: %q", formatted["StartTime"])
	}
	if formatted["Date"] != "Date is required" {
		t.Errorf("unexpected Date message: %q", formatted["Date"])
	}
}
