package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SchedulingPolicy is the configured fallback behavior for occurrences of a
// source item that cannot be honored as planned.
type SchedulingPolicy struct {
	Mode PolicyMode
	// GraceMinutes is how long after the planned start an occurrence may
	// still be committed before it counts as missed. Only meaningful for
	// roll_forward.
	GraceMinutes int
	// EscalateBlockIDs is the ordered fallback block list consulted by
	// escalate_to_next_priority_block.
	EscalateBlockIDs []uuid.UUID
}

// Validate checks the policy's structural invariants.
func (p SchedulingPolicy) Validate() error {
	var errs []FieldError

	if !p.Mode.IsValid() {
		errs = append(errs, FieldError{Field: "policy.mode", Message: "unknown policy mode"})
	}
	if p.GraceMinutes < 0 {
		errs = append(errs, FieldError{Field: "policy.graceMinutes", Message: "must be >= 0"})
	}
	if p.Mode == PolicyModeEscalate && len(p.EscalateBlockIDs) == 0 {
		errs = append(errs, FieldError{Field: "policy.escalateBlockIds", Message: "required for escalate_to_next_priority_block"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Chore is a recurring single completable action needing to be scheduled.
type Chore struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Title            string
	Recurrence       RecurrenceDefinition
	EstimatedMinutes int
	Priority         int // lower wins ties
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

// Validate checks the chore's structural invariants.
func (c Chore) Validate() error {
	var errs []FieldError

	if c.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	if c.EstimatedMinutes <= 0 {
		errs = append(errs, FieldError{Field: "estimatedMinutes", Message: "must be > 0"})
	}
	errs = appendValidation(errs, c.Recurrence.Validate())
	errs = appendValidation(errs, c.Policy.Validate())

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// IsSnoozed reports whether the chore is snoozed past the given day start.
func (c Chore) IsSnoozed(dayStart time.Time) bool {
	return c.SnoozedUntil != nil && dayStart.Before(*c.SnoozedUntil)
}

func appendValidation(errs []FieldError, err error) []FieldError {
	if err == nil {
		return errs
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return append(errs, ve.Errors...)
	}
	return append(errs, FieldError{Field: "", Message: err.Error()})
}
