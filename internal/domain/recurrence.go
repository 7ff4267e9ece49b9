package domain

import (
	"time"
)

// DateLayout is the calendar-date format used for all day-valued fields
// (occurrence dates, bounding dates, planning dates, exception dates).
const DateLayout = "2006-01-02"

// ClockLayout is the local wall-clock format used by window start/end times.
const ClockLayout = "15:04"

// DayKeyLayout is the compact day key used in derived identifiers.
const DayKeyLayout = "20060102"

// RecurrenceDefinition describes how a source item or block repeats.
// Rule is an RFC 5545 RRULE subset, optionally prefixed with a DTSTART line
// in compact UTC basic format.
type RecurrenceDefinition struct {
	Rule           string
	Anchor         *time.Time
	Timezone       string
	ExceptionDates []string // DateLayout; occurrences on these days are dropped
	Source         RecurrenceSource
}

// Validate checks the definition's structural invariants. The rule text
// itself is validated by the evaluator, not here.
func (d RecurrenceDefinition) Validate() error {
	var errs []FieldError

	if d.Rule == "" {
		errs = append(errs, FieldError{Field: "rule", Message: "must not be empty"})
	}
	if d.Source != "" && !d.Source.IsValid() {
		errs = append(errs, FieldError{Field: "source", Message: "unknown recurrence source"})
	}
	if d.Timezone != "" {
		if _, err := time.LoadLocation(d.Timezone); err != nil {
			errs = append(errs, FieldError{Field: "timezone", Message: "unknown timezone"})
		}
	}
	for _, ex := range d.ExceptionDates {
		if _, err := time.Parse(DateLayout, ex); err != nil {
			errs = append(errs, FieldError{Field: "exceptionDates", Message: "invalid date " + ex})
		}
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// IsException reports whether the given calendar date (DateLayout) is one of
// the definition's explicit exception dates.
func (d RecurrenceDefinition) IsException(date string) bool {
	for _, ex := range d.ExceptionDates {
		if ex == date {
			return true
		}
	}
	return false
}

// ISOWeekday returns the ISO-8601 weekday number for t: Monday = 1 … Sunday = 7.
// Go's native numbering puts Sunday at 0; it is remapped to 7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
