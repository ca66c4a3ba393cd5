package validation

import (
	"testing"
	"time"
)

func TestValidators(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		check func(Violations)
		field string
		want  string
	}{
		{"required blank", func(v Violations) { Required("name", "  ", v) }, "name", "required"},
		{"required ok", func(v Violations) { Required("name", "Gala", v) }, "name", ""},
		{"email ok", func(v Violations) { Email("email", "kim@acme.test", v) }, "email", ""},
		{"email empty", func(v Violations) { Email("email", "", v) }, "email", "required"},
		{"email invalid", func(v Violations) { Email("email", "not-an-email", v) }, "email", "invalid_email"},
		{"email display name", func(v Violations) { Email("email", "Kim <kim@acme.test>", v) }, "email", "invalid_email"},
		{"negative float", func(v Violations) { NonNegativeFloat("total_amount", -1, v) }, "total_amount", "must_be_non_negative"},
		{"zero float", func(v Violations) { NonNegativeFloat("total_amount", 0, v) }, "total_amount", ""},
		{"negative int", func(v Violations) { NonNegativeInt("attendees", -3, v) }, "attendees", "must_be_non_negative"},
		{"range", func(v Violations) { RangeFloat("remaining_amount", 120, 0, 100, v) }, "remaining_amount", "out_of_range"},
		{"too long", func(v Violations) { MaxLen("phone_number", "0123456789012345678901", 20, v) }, "phone_number", "too_long"},
		{"end before start", func(v Violations) { NotBefore("event_date_end", now, now.Add(-time.Hour), v) }, "event_date_end", "before_start"},
		{"end after start", func(v Violations) { NotBefore("event_date_end", now, now.Add(time.Hour), v) }, "event_date_end", ""},
		{"zero time", func(v Violations) { RequiredTime("event_date_start", time.Time{}, v) }, "event_date_start", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := make(Violations)
			tt.check(v)
			if got := v[tt.field]; got != tt.want {
				t.Errorf("violation for %s = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestViolations_AddKeepsFirst(t *testing.T) {
	v := make(Violations)
	Required("email", "", v)
	Email("email", "x", v)
	if v["email"] != "required" {
		t.Errorf("expected first violation to win, got %q", v["email"])
	}
	if v.Empty() {
		t.Error("expected violations")
	}
}
