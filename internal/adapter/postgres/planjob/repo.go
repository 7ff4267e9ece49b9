// Package planjob implements the planning-job state repository using
// PostgreSQL. One row per (owner, planning date); rows are never deleted.
package planjob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/planvine/tempo-backend/internal/adapter/postgres"
	"github.com/planvine/tempo-backend/internal/domain"
)

// Repo provides planning-job persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new planning-job repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const planJobColumns = `
key, owner_id, planning_date, solver_run_id, status, window_start, window_end,
planned_count, unscheduled_count, created_at, updated_at`

const upsertSQL = `
INSERT INTO planning_jobs (` + planJobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (key) DO UPDATE SET
    solver_run_id = EXCLUDED.solver_run_id,
    status = EXCLUDED.status,
    window_start = EXCLUDED.window_start,
    window_end = EXCLUDED.window_end,
    planned_count = EXCLUDED.planned_count,
    unscheduled_count = EXCLUDED.unscheduled_count,
    updated_at = EXCLUDED.updated_at`

const getSQL = `SELECT ` + planJobColumns + `
FROM planning_jobs WHERE owner_id = $1 AND planning_date = $2`

const markRunningSQL = `
UPDATE planning_jobs
SET status = $2, solver_run_id = $3, updated_at = $4
WHERE key = $1`

const markCompletedSQL = `
UPDATE planning_jobs
SET status = $2, planned_count = $3, unscheduled_count = $4, updated_at = $5
WHERE key = $1`

// Upsert inserts the job state or rewrites the existing row with the same key.
func (r *Repo) Upsert(ctx context.Context, state domain.PlanningJobState) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	planningDate, err := parseDate(state.PlanningDate, "planning date")
	if err != nil {
		return err
	}
	windowStart, err := parseDate(state.WindowStart, "window start")
	if err != nil {
		return err
	}
	windowEnd, err := parseDate(state.WindowEnd, "window end")
	if err != nil {
		return err
	}

	_, err = querier.Exec(ctx, upsertSQL,
		state.Key, state.OwnerID, planningDate, state.SolverRunID, state.Status,
		windowStart, windowEnd, state.PlannedCount, state.UnscheduledCount,
		state.CreatedAt, state.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "planning_job", state.Key)
	}
	return nil
}

// Get returns the job state for the owner and planning date. Returns
// domain.ErrNotFound if no run was ever requested for that date.
func (r *Repo) Get(ctx context.Context, ownerID uuid.UUID, planningDate string) (*domain.PlanningJobState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	date, err := parseDate(planningDate, "planning date")
	if err != nil {
		return nil, err
	}

	row := querier.QueryRow(ctx, getSQL, ownerID, date)
	state, err := scanPlanJob(row)
	if err != nil {
		return nil, postgres.MapError(err, "planning_job", planningDate)
	}
	return state, nil
}

// MarkRunning records the solver run id once the external job acknowledges
// the request.
func (r *Repo) MarkRunning(ctx context.Context, key string, solverRunID string, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, markRunningSQL, key, domain.PlanRunStatusRunning, solverRunID, at)
	if err != nil {
		return postgres.MapError(err, "planning_job", key)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("planning_job %s: %w", key, domain.ErrNotFound)
	}
	return nil
}

// MarkCompleted records the terminal status and counts reported by the solver.
func (r *Repo) MarkCompleted(ctx context.Context, key string, summary domain.PlanRunSummary, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, markCompletedSQL,
		key, summary.Status, summary.PlannedCount, summary.UnscheduledCount, at)
	if err != nil {
		return postgres.MapError(err, "planning_job", key)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("planning_job %s: %w", key, domain.ErrNotFound)
	}
	return nil
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("planning_job %s %q: %w", field, value, domain.ErrValidation)
	}
	return t, nil
}

func scanPlanJob(row pgx.Row) (*domain.PlanningJobState, error) {
	var (
		state        domain.PlanningJobState
		planningDate time.Time
		windowStart  time.Time
		windowEnd    time.Time
	)

	err := row.Scan(
		&state.Key, &state.OwnerID, &planningDate, &state.SolverRunID,
		&state.Status, &windowStart, &windowEnd,
		&state.PlannedCount, &state.UnscheduledCount,
		&state.CreatedAt, &state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.PlanningDate = planningDate.Format(domain.DateLayout)
	state.WindowStart = windowStart.Format(domain.DateLayout)
	state.WindowEnd = windowEnd.Format(domain.DateLayout)
	return &state, nil
}
