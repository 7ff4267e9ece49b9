package domain

import (
	"time"

	"github.com/google/uuid"
)

// Block is a recurring named container of availability windows into which
// occurrences may be scheduled ("Mornings", "Home chores time").
type Block struct {
	ID                   uuid.UUID
	OwnerID              uuid.UUID
	Name                 string
	Color                string
	Recurrence           RecurrenceDefinition
	Windows              []BlockWindow
	MinDurationMinutes   int
	MaxDurationMinutes   int
	DailyCapacityMinutes int
	Priority             int // lower wins ties
	BufferBeforeMinutes  int
	BufferAfterMinutes   int
	Enabled              bool
	Visible              bool
	Constraints          *BlockConstraints
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// BlockWindow is one weekly availability window on a block: a set of ISO
// weekdays with local start/end wall-clock times, optionally bounded by
// calendar dates.
type BlockWindow struct {
	Weekdays  []int  // ISO 1–7 (Mon–Sun)
	StartTime string // ClockLayout, local
	EndTime   string // ClockLayout, local
	StartDate string // DateLayout; empty = unbounded
	EndDate   string // DateLayout; empty = unbounded
}

// BlockConstraints are optional placement constraints attached to a block.
type BlockConstraints struct {
	RequiredLocation   string
	QuietHours         []QuietWindow
	RequiredDeviceTags []string
	RequiredTags       []string
	ExcludedTags       []string
}

// QuietWindow is a time range during which the block must not accept
// scheduled instances. An empty Weekdays set applies every day. A window
// whose end is at or before its start spans local midnight (22:00–06:00).
type QuietWindow struct {
	Weekdays  []int  // ISO 1–7; empty = every day
	StartTime string // ClockLayout, local
	EndTime   string // ClockLayout, local
}

// Validate checks the block's structural invariants.
func (b Block) Validate() error {
	var errs []FieldError

	if b.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if b.MinDurationMinutes > b.MaxDurationMinutes {
		errs = append(errs, FieldError{Field: "minDurationMinutes", Message: "must not exceed maxDurationMinutes"})
	}
	if b.MinDurationMinutes < 0 {
		errs = append(errs, FieldError{Field: "minDurationMinutes", Message: "must be >= 0"})
	}
	if b.DailyCapacityMinutes < 0 {
		errs = append(errs, FieldError{Field: "dailyCapacityMinutes", Message: "must be >= 0"})
	}
	if b.BufferBeforeMinutes < 0 || b.BufferAfterMinutes < 0 {
		errs = append(errs, FieldError{Field: "buffers", Message: "must be >= 0"})
	}

	for _, w := range b.Windows {
		errs = append(errs, w.validate()...)
	}
	if b.Constraints != nil {
		for _, q := range b.Constraints.QuietHours {
			errs = append(errs, q.validate()...)
		}
	}
	errs = appendValidation(errs, b.Recurrence.Validate())

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

func (w BlockWindow) validate() []FieldError {
	var errs []FieldError

	start, serr := time.Parse(ClockLayout, w.StartTime)
	if serr != nil {
		errs = append(errs, FieldError{Field: "windows.startTime", Message: "invalid time " + w.StartTime})
	}
	end, eerr := time.Parse(ClockLayout, w.EndTime)
	if eerr != nil {
		errs = append(errs, FieldError{Field: "windows.endTime", Message: "invalid time " + w.EndTime})
	}
	// Windows must not wrap midnight: startTime < endTime within a single day.
	if serr == nil && eerr == nil && !start.Before(end) {
		errs = append(errs, FieldError{Field: "windows", Message: "startTime must be before endTime"})
	}
	if len(w.Weekdays) == 0 {
		errs = append(errs, FieldError{Field: "windows.weekdays", Message: "must not be empty"})
	}
	for _, wd := range w.Weekdays {
		if wd < 1 || wd > 7 {
			errs = append(errs, FieldError{Field: "windows.weekdays", Message: "weekday out of ISO range 1-7"})
		}
	}
	if w.StartDate != "" {
		if _, err := time.Parse(DateLayout, w.StartDate); err != nil {
			errs = append(errs, FieldError{Field: "windows.startDate", Message: "invalid date " + w.StartDate})
		}
	}
	if w.EndDate != "" {
		if _, err := time.Parse(DateLayout, w.EndDate); err != nil {
			errs = append(errs, FieldError{Field: "windows.endDate", Message: "invalid date " + w.EndDate})
		}
	}

	return errs
}

func (q QuietWindow) validate() []FieldError {
	var errs []FieldError

	if _, err := time.Parse(ClockLayout, q.StartTime); err != nil {
		errs = append(errs, FieldError{Field: "quietHours.startTime", Message: "invalid time " + q.StartTime})
	}
	if _, err := time.Parse(ClockLayout, q.EndTime); err != nil {
		errs = append(errs, FieldError{Field: "quietHours.endTime", Message: "invalid time " + q.EndTime})
	}
	for _, wd := range q.Weekdays {
		if wd < 1 || wd > 7 {
			errs = append(errs, FieldError{Field: "quietHours.weekdays", Message: "weekday out of ISO range 1-7"})
		}
	}

	return errs
}
