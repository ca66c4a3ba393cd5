// Package validation collects field errors for request payloads.
package validation

import (
	"net/mail"
	"strings"
	"time"
)

// Violations maps a field name to a short machine-readable code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already failed.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func MaxLen(field, value string, limit int, v Violations) {
	if len(value) > limit {
		v.Add(field, "too_long")
	}
}

// Email accepts a bare address ("a@b.c"), not a display-name form.
func Email(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.Add(field, "invalid_email")
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v.Add(field, "must_be_non_negative")
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v.Add(field, "must_be_non_negative")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

// NotBefore flags field when end is before start. Zero times are left to Required checks.
func NotBefore(field string, start, end time.Time, v Violations) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if end.Before(start) {
		v.Add(field, "before_start")
	}
}

// RequiredTime flags a zero time.
func RequiredTime(field string, t time.Time, v Violations) {
	if t.IsZero() {
		v.Add(field, "required")
	}
}
