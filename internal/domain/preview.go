package domain

import "github.com/google/uuid"

// SchedulePreview is the transient, non-persisted output of a planning
// attempt: what would be created, what could not be placed, and why.
type SchedulePreview struct {
	Instances []ScheduledInstance
	Unplaced  []UnplacedSource
	Conflicts []SchedulingConflict
}

// UnplacedSource names a source item that produced no candidate placement
// for a day, with the reason it was passed over.
type UnplacedSource struct {
	SourceType SourceType
	SourceID   uuid.UUID
	DayKey     string // DayKeyLayout
	Reason     ConflictReason
}

// SchedulingConflict describes one collision found while assembling
// candidates. Conflicts are outcomes, not errors — the optimizer decides
// the remedy.
type SchedulingConflict struct {
	Reason     ConflictReason
	SourceType SourceType
	SourceID   uuid.UUID
	BlockID    *uuid.UUID
	DayKey     string // DayKeyLayout
	Detail     string
}
