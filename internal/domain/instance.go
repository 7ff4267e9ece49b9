package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledInstance is the materialized occurrence of a chore or routine on a
// specific calendar day. Its ID is derived deterministically from
// (owner, source, day), so at most one instance can exist per occurrence —
// replayed writes land on the same record instead of duplicating it.
type ScheduledInstance struct {
	ID                  string // deterministic, see schedule.MakeInstanceID
	OwnerID             uuid.UUID
	SourceType          SourceType
	SourceID            uuid.UUID
	OccurrenceDate      string // DateLayout
	BlockID             *uuid.UUID
	Priority            int // copied from the source at materialization time
	PlannedStart        *time.Time
	PlannedEnd          *time.Time
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	DurationMinutes     int
	Status              InstanceStatus
	StatusReason        string
	StatusUpdatedAt     time.Time
	RequiredBlockIDs    []uuid.UUID
	CandidateBlockIDs   []uuid.UUID
	Context             SchedulingContext
	ExternalSync        *ExternalSyncState
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SchedulingContext carries audit fields describing how the instance was
// placed by the planning run that produced it.
type SchedulingContext struct {
	BlockPriority *int
	SolverRunID   string
	TieBreak      string // tie-break rule applied, free text from the solver
}

// ExternalSyncState tracks synchronization with an external calendar.
type ExternalSyncState struct {
	CalendarEventID string
	SyncedAt        *time.Time
}

// Validate checks the instance's structural invariants.
func (i ScheduledInstance) Validate() error {
	var errs []FieldError

	if i.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "must not be empty"})
	}
	if !i.SourceType.IsValid() {
		errs = append(errs, FieldError{Field: "sourceType", Message: "unknown source type"})
	}
	if !i.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "unknown status"})
	}
	if _, err := time.Parse(DateLayout, i.OccurrenceDate); err != nil {
		errs = append(errs, FieldError{Field: "occurrenceDate", Message: "invalid date " + i.OccurrenceDate})
	}
	if i.DurationMinutes < 0 {
		errs = append(errs, FieldError{Field: "durationMinutes", Message: "must be >= 0"})
	}
	if i.PlannedStart != nil && i.PlannedEnd != nil && !i.PlannedStart.Before(*i.PlannedEnd) {
		errs = append(errs, FieldError{Field: "plannedStart", Message: "must be before plannedEnd"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
