// Package routine implements the routine repository using PostgreSQL.
package routine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/planvine/tempo-backend/internal/adapter/postgres"
	"github.com/planvine/tempo-backend/internal/domain"
)

// Repo provides routine persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new routine repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const routineColumns = `
id, owner_id, title, type, unit, daily_target, streak, recurrence,
estimated_minutes, priority, required_block_ids, eligible_block_ids,
policy, required_location, tags, meta, snoozed_until, last_done_at,
enabled, created_at, updated_at`

const getByIDSQL = `SELECT ` + routineColumns + `
FROM routines WHERE id = $1 AND owner_id = $2`

const listSQL = `SELECT ` + routineColumns + `
FROM routines WHERE owner_id = $1
ORDER BY priority, id`

const listSchedulableSQL = `SELECT ` + routineColumns + `
FROM routines WHERE owner_id = $1 AND enabled
ORDER BY priority, id`

const createSQL = `
INSERT INTO routines (` + routineColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
        $15, $16, $17, $18, $19, $20, $21)
RETURNING ` + routineColumns

const updateSQL = `
UPDATE routines SET
    title = $3, type = $4, unit = $5, daily_target = $6, streak = $7,
    recurrence = $8, estimated_minutes = $9, priority = $10,
    required_block_ids = $11, eligible_block_ids = $12, policy = $13,
    required_location = $14, tags = $15, meta = $16, enabled = $17,
    updated_at = $18
WHERE id = $1 AND owner_id = $2
RETURNING ` + routineColumns

const deleteSQL = `DELETE FROM routines WHERE id = $1 AND owner_id = $2`

const touchLastDoneSQL = `
UPDATE routines SET last_done_at = $3, updated_at = $3
WHERE id = $1 AND owner_id = $2`

const setSnoozedUntilSQL = `
UPDATE routines SET snoozed_until = $3, updated_at = $4
WHERE id = $1 AND owner_id = $2`

// streakJSON is the JSONB shape of the streak column.
type streakJSON struct {
	Timezone     string   `json:"timezone,omitempty"`
	GraceMinutes int      `json:"grace_minutes,omitempty"`
	PausedDates  []string `json:"paused_dates,omitempty"`
}

// GetByID returns a routine by primary key. Returns domain.ErrNotFound if
// the routine does not exist or belongs to another owner.
func (r *Repo) GetByID(ctx context.Context, ownerID, routineID uuid.UUID) (*domain.Routine, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, routineID, ownerID)
	routine, err := scanRoutine(row)
	if err != nil {
		return nil, postgres.MapError(err, "routine", routineID.String())
	}
	return routine, nil
}

// List returns all of the owner's routines ordered by priority.
func (r *Repo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Routine, error) {
	return r.list(ctx, ownerID, listSQL)
}

// ListSchedulable returns the owner's enabled routines ordered by priority.
func (r *Repo) ListSchedulable(ctx context.Context, ownerID uuid.UUID) ([]domain.Routine, error) {
	return r.list(ctx, ownerID, listSchedulableSQL)
}

func (r *Repo) list(ctx context.Context, ownerID uuid.UUID, sql string) ([]domain.Routine, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	defer rows.Close()

	var routines []domain.Routine
	for rows.Next() {
		routine, err := scanRoutine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		routines = append(routines, *routine)
	}
	return routines, rows.Err()
}

// Create inserts a new routine and returns the persisted row.
func (r *Repo) Create(ctx context.Context, routine domain.Routine) (*domain.Routine, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	recurrence, policy, meta, streak, err := marshalRoutineJSON(routine)
	if err != nil {
		return nil, err
	}

	row := querier.QueryRow(ctx, createSQL,
		routine.ID, routine.OwnerID, routine.Title, routine.Type, routine.Unit,
		routine.DailyTarget, streak, recurrence, routine.EstimatedMinutes,
		routine.Priority, routine.RequiredBlockIDs, routine.EligibleBlockIDs,
		policy, routine.RequiredLocation, routine.Tags, meta,
		routine.SnoozedUntil, routine.LastDoneAt, routine.Enabled,
		routine.CreatedAt, routine.UpdatedAt,
	)
	created, err := scanRoutine(row)
	if err != nil {
		return nil, postgres.MapError(err, "routine", routine.ID.String())
	}
	return created, nil
}

// Update rewrites the routine's mutable columns. Snooze and last-done
// bookkeeping have dedicated operations and are not touched here.
func (r *Repo) Update(ctx context.Context, routine domain.Routine) (*domain.Routine, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	recurrence, policy, meta, streak, err := marshalRoutineJSON(routine)
	if err != nil {
		return nil, err
	}

	row := querier.QueryRow(ctx, updateSQL,
		routine.ID, routine.OwnerID, routine.Title, routine.Type, routine.Unit,
		routine.DailyTarget, streak, recurrence, routine.EstimatedMinutes,
		routine.Priority, routine.RequiredBlockIDs, routine.EligibleBlockIDs,
		policy, routine.RequiredLocation, routine.Tags, meta, routine.Enabled,
		routine.UpdatedAt,
	)
	updated, err := scanRoutine(row)
	if err != nil {
		return nil, postgres.MapError(err, "routine", routine.ID.String())
	}
	return updated, nil
}

// Delete removes a routine. Returns domain.ErrNotFound if it does not exist
// or belongs to another owner.
func (r *Repo) Delete(ctx context.Context, ownerID, routineID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, routineID, ownerID)
	if err != nil {
		return postgres.MapError(err, "routine", routineID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("routine %s: %w", routineID, domain.ErrNotFound)
	}
	return nil
}

// TouchLastDone stamps the routine's last completion time.
func (r *Repo) TouchLastDone(ctx context.Context, ownerID, routineID uuid.UUID, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, touchLastDoneSQL, routineID, ownerID, at)
	if err != nil {
		return postgres.MapError(err, "routine", routineID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("routine %s: %w", routineID, domain.ErrNotFound)
	}
	return nil
}

// SetSnoozedUntil pushes the routine out of scheduling until the given
// instant.
func (r *Repo) SetSnoozedUntil(ctx context.Context, ownerID, routineID uuid.UUID, until time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setSnoozedUntilSQL, routineID, ownerID, until, time.Now().UTC())
	if err != nil {
		return postgres.MapError(err, "routine", routineID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("routine %s: %w", routineID, domain.ErrNotFound)
	}
	return nil
}

func marshalRoutineJSON(routine domain.Routine) (recurrence, policy, meta, streak []byte, err error) {
	if recurrence, err = postgres.MarshalRecurrence(routine.Recurrence); err != nil {
		return nil, nil, nil, nil, err
	}
	if policy, err = postgres.MarshalPolicy(routine.Policy); err != nil {
		return nil, nil, nil, nil, err
	}
	if meta, err = postgres.MarshalMetadata(routine.Meta); err != nil {
		return nil, nil, nil, nil, err
	}
	if routine.Streak != nil {
		streak, err = json.Marshal(streakJSON{
			Timezone:     routine.Streak.Timezone,
			GraceMinutes: routine.Streak.GraceMinutes,
			PausedDates:  routine.Streak.PausedDates,
		})
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal streak: %w", err)
		}
	}
	return recurrence, policy, meta, streak, nil
}

// scanRoutine works for both pgx.Row and pgx.Rows.
func scanRoutine(row pgx.Row) (*domain.Routine, error) {
	var (
		rt         domain.Routine
		streak     []byte
		recurrence []byte
		policy     []byte
		meta       []byte
	)

	err := row.Scan(
		&rt.ID, &rt.OwnerID, &rt.Title, &rt.Type, &rt.Unit, &rt.DailyTarget,
		&streak, &recurrence, &rt.EstimatedMinutes, &rt.Priority,
		&rt.RequiredBlockIDs, &rt.EligibleBlockIDs, &policy,
		&rt.RequiredLocation, &rt.Tags, &meta, &rt.SnoozedUntil,
		&rt.LastDoneAt, &rt.Enabled, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(streak) > 0 {
		var s streakJSON
		if err := json.Unmarshal(streak, &s); err != nil {
			return nil, fmt.Errorf("unmarshal streak: %w", err)
		}
		rt.Streak = &domain.StreakSettings{
			Timezone:     s.Timezone,
			GraceMinutes: s.GraceMinutes,
			PausedDates:  s.PausedDates,
		}
	}
	if rt.Recurrence, err = postgres.UnmarshalRecurrence(recurrence); err != nil {
		return nil, err
	}
	if rt.Policy, err = postgres.UnmarshalPolicy(policy); err != nil {
		return nil, err
	}
	if rt.Meta, err = postgres.UnmarshalMetadata(meta); err != nil {
		return nil, err
	}
	return &rt, nil
}
