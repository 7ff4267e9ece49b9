package domain

import (
	"time"

	"github.com/google/uuid"
)

// Routine is a recurring source item with a tracked completion type
// (boolean, quantitative, or streak-based).
type Routine struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Title            string
	Type             RoutineType
	Unit             string  // "glasses", "minutes"; quantitative only
	DailyTarget      float64 // quantitative only
	Streak           *StreakSettings
	Recurrence       RecurrenceDefinition
	EstimatedMinutes int
	Priority         int
	RequiredBlockIDs []uuid.UUID
	EligibleBlockIDs []uuid.UUID
	Policy           SchedulingPolicy
	RequiredLocation string
	Tags             []string
	Meta             Metadata
	SnoozedUntil     *time.Time
	LastDoneAt       *time.Time
	Enabled          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StreakSettings configure streak accounting for a streak-type routine.
type StreakSettings struct {
	Timezone     string
	GraceMinutes int
	PausedDates  []string // DateLayout; days excluded from streak accounting
}

// Validate checks the routine's structural invariants.
func (r Routine) Validate() error {
	var errs []FieldError

	if r.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	if !r.Type.IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "unknown routine type"})
	}
	if r.Type == RoutineTypeQuantitative && r.DailyTarget <= 0 {
		errs = append(errs, FieldError{Field: "dailyTarget", Message: "must be > 0 for quantitative routines"})
	}
	if r.EstimatedMinutes <= 0 {
		errs = append(errs, FieldError{Field: "estimatedMinutes", Message: "must be > 0"})
	}
	if r.Streak != nil {
		if r.Streak.GraceMinutes < 0 {
			errs = append(errs, FieldError{Field: "streak.graceMinutes", Message: "must be >= 0"})
		}
		if r.Streak.Timezone != "" {
			if _, err := time.LoadLocation(r.Streak.Timezone); err != nil {
				errs = append(errs, FieldError{Field: "streak.timezone", Message: "unknown timezone"})
			}
		}
		for _, d := range r.Streak.PausedDates {
			if _, err := time.Parse(DateLayout, d); err != nil {
				errs = append(errs, FieldError{Field: "streak.pausedDates", Message: "invalid date " + d})
			}
		}
	}
	errs = appendValidation(errs, r.Recurrence.Validate())
	errs = appendValidation(errs, r.Policy.Validate())

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// IsSnoozed reports whether the routine is snoozed past the given day start.
func (r Routine) IsSnoozed(dayStart time.Time) bool {
	return r.SnoozedUntil != nil && dayStart.Before(*r.SnoozedUntil)
}
