package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlanningJobState is the persisted record of one planning run, keyed
// deterministically per (owner, planning date). It is never deleted; it is
// the historical record of what planning attempted and what came of it.
type PlanningJobState struct {
	Key              string // "{ownerID}__{planningDateISO}"
	OwnerID          uuid.UUID
	PlanningDate     string // DateLayout
	SolverRunID      string // empty until the solver reports one
	Status           PlanRunStatus
	WindowStart      string // DateLayout
	WindowEnd        string // DateLayout
	PlannedCount     int
	UnscheduledCount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PlanRequest is the invocation contract for the external planning job.
// StartDate defaults to today and Timezone to the owner's default when empty.
type PlanRequest struct {
	StartDate   string // DateLayout; optional
	Days        int    // optional, bounded by config
	Timezone    string // optional
	IncludeBusy bool
}

// PlanResponse is the external planning job's immediate reply. An empty
// SolverRunID means the job was accepted but run tracking is not yet
// available to the caller.
type PlanResponse struct {
	SolverRunID string
}

// PlanRunSummary carries the completion counts reported by the solver.
type PlanRunSummary struct {
	Status           PlanRunStatus // succeeded or failed
	PlannedCount     int
	UnscheduledCount int
}
