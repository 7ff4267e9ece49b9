package domain

// InstanceStatus represents the lifecycle state of a materialized scheduled
// instance. Values are wire-stable; they are stored and transported as-is.
type InstanceStatus string

const (
	InstanceStatusDraft       InstanceStatus = "draft"
	InstanceStatusPlanned     InstanceStatus = "planned"
	InstanceStatusCommitted   InstanceStatus = "committed"
	InstanceStatusCompleted   InstanceStatus = "completed"
	InstanceStatusMissed      InstanceStatus = "missed"
	InstanceStatusSkipped     InstanceStatus = "skipped"
	InstanceStatusUnscheduled InstanceStatus = "unscheduled"
	InstanceStatusCancelled   InstanceStatus = "cancelled"
)

func (s InstanceStatus) String() string { return string(s) }

func (s InstanceStatus) IsValid() bool {
	switch s {
	case InstanceStatusDraft, InstanceStatusPlanned, InstanceStatusCommitted,
		InstanceStatusCompleted, InstanceStatusMissed, InstanceStatusSkipped,
		InstanceStatusUnscheduled, InstanceStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave this state.
// Unscheduled is retryable by a later planning run and therefore not terminal.
func (s InstanceStatus) IsTerminal() bool {
	switch s {
	case InstanceStatusCompleted, InstanceStatusMissed, InstanceStatusSkipped,
		InstanceStatusCancelled:
		return true
	}
	return false
}

// PolicyMode represents the fallback behavior for an occurrence that cannot
// be honored as planned.
type PolicyMode string

const (
	PolicyModeRollForward PolicyMode = "roll_forward"
	PolicyModeSkip        PolicyMode = "skip"
	PolicyModeEscalate    PolicyMode = "escalate_to_next_priority_block"
)

func (m PolicyMode) String() string { return string(m) }

func (m PolicyMode) IsValid() bool {
	switch m {
	case PolicyModeRollForward, PolicyModeSkip, PolicyModeEscalate:
		return true
	}
	return false
}

// RoutineType classifies how a routine's completion is tracked.
type RoutineType string

const (
	RoutineTypeBoolean      RoutineType = "boolean"
	RoutineTypeQuantitative RoutineType = "quantitative"
	RoutineTypeStreak       RoutineType = "streak"
)

func (t RoutineType) String() string { return string(t) }

func (t RoutineType) IsValid() bool {
	switch t {
	case RoutineTypeBoolean, RoutineTypeQuantitative, RoutineTypeStreak:
		return true
	}
	return false
}

// SourceType identifies the kind of recurring source item an instance was
// materialized from.
type SourceType string

const (
	SourceTypeChore   SourceType = "chore"
	SourceTypeRoutine SourceType = "routine"
)

func (t SourceType) String() string { return string(t) }

func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeChore, SourceTypeRoutine:
		return true
	}
	return false
}

// ConflictReason explains why a source could not be placed into a window.
type ConflictReason string

const (
	ConflictReasonCapacity   ConflictReason = "capacity"
	ConflictReasonNoBlock    ConflictReason = "no-block"
	ConflictReasonQuietHours ConflictReason = "quiet-hours"
	ConflictReasonBusy       ConflictReason = "busy"
	ConflictReasonUnknown    ConflictReason = "unknown"
)

func (r ConflictReason) String() string { return string(r) }

func (r ConflictReason) IsValid() bool {
	switch r {
	case ConflictReasonCapacity, ConflictReasonNoBlock, ConflictReasonQuietHours,
		ConflictReasonBusy, ConflictReasonUnknown:
		return true
	}
	return false
}

// PlanRunStatus represents the state of one planning run record.
type PlanRunStatus string

const (
	PlanRunStatusPending   PlanRunStatus = "pending"
	PlanRunStatusRunning   PlanRunStatus = "running"
	PlanRunStatusSucceeded PlanRunStatus = "succeeded"
	PlanRunStatusFailed    PlanRunStatus = "failed"
)

func (s PlanRunStatus) String() string { return string(s) }

func (s PlanRunStatus) IsValid() bool {
	switch s {
	case PlanRunStatusPending, PlanRunStatusRunning, PlanRunStatusSucceeded,
		PlanRunStatusFailed:
		return true
	}
	return false
}

// RecurrenceSource records how a recurrence rule was produced.
type RecurrenceSource string

const (
	RecurrenceSourceNaturalLanguage RecurrenceSource = "natural_language"
	RecurrenceSourceRRule           RecurrenceSource = "rrule"
)

func (s RecurrenceSource) String() string { return string(s) }

func (s RecurrenceSource) IsValid() bool {
	switch s {
	case RecurrenceSourceNaturalLanguage, RecurrenceSourceRRule:
		return true
	}
	return false
}
