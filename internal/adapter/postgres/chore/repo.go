// Package chore implements the chore repository using PostgreSQL.
package chore

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

// Repo provides chore persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new chore repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const choreColumns = `
id, owner_id, title, recurrence, estimated_minutes, priority,
required_block_ids, eligible_block_ids, policy, required_location,
tags, meta, snoozed_until, last_done_at, enabled, created_at, updated_at`

const getByIDSQL = `SELECT ` + choreColumns + `
FROM chores WHERE id = $1 AND owner_id = $2`

const listSQL = `SELECT ` + choreColumns + `
FROM chores WHERE owner_id = $1
ORDER BY priority, id`

// Snoozed chores stay listed; the scheduling layer decides per-day whether a
// snooze is still in effect.
const listSchedulableSQL = `SELECT ` + choreColumns + `
FROM chores WHERE owner_id = $1 AND enabled
ORDER BY priority, id`

const createSQL = `
INSERT INTO chores (` + choreColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING ` + choreColumns

const updateSQL = `
UPDATE chores SET
    title = $3, recurrence = $4, estimated_minutes = $5, priority = $6,
    required_block_ids = $7, eligible_block_ids = $8, policy = $9,
    required_location = $10, tags = $11, meta = $12, enabled = $13,
    updated_at = $14
WHERE id = $1 AND owner_id = $2
RETURNING ` + choreColumns

const deleteSQL = `DELETE FROM chores WHERE id = $1 AND owner_id = $2`

const touchLastDoneSQL = `
UPDATE chores SET last_done_at = $3, updated_at = $3
WHERE id = $1 AND owner_id = $2`

const setSnoozedUntilSQL = `
UPDATE chores SET snoozed_until = $3, updated_at = $4
WHERE id = $1 AND owner_id = $2`

// GetByID returns a chore by primary key. Returns domain.ErrNotFound if the
// chore does not exist or belongs to another owner.
func (r *Repo) GetByID(ctx context.Context, ownerID, choreID uuid.UUID) (*domain.Chore, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, choreID, ownerID)
	chore, err := scanChore(row)
	if err != nil {
		return nil, postgres.MapError(err, "chore", choreID.String())
	}
	return chore, nil
}

// List returns all of the owner's chores ordered by priority.
func (r *Repo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Chore, error) {
	return r.list(ctx, ownerID, listSQL)
}

// ListSchedulable returns the owner's enabled chores ordered by priority.
func (r *Repo) ListSchedulable(ctx context.Context, ownerID uuid.UUID) ([]domain.Chore, error) {
	return r.list(ctx, ownerID, listSchedulableSQL)
}

func (r *Repo) list(ctx context.Context, ownerID uuid.UUID, sql string) ([]domain.Chore, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []domain.Chore
	for rows.Next() {
		chore, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *chore)
	}
	return chores, rows.Err()
}

// Create inserts a new chore and returns the persisted row.
func (r *Repo) Create(ctx context.Context, chore domain.Chore) (*domain.Chore, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	recurrence, policy, meta, err := marshalChoreJSON(chore)
	if err != nil {
		return nil, err
	}

	row := querier.QueryRow(ctx, createSQL,
		chore.ID, chore.OwnerID, chore.Title, recurrence, chore.EstimatedMinutes,
		chore.Priority, chore.RequiredBlockIDs, chore.EligibleBlockIDs, policy,
		chore.RequiredLocation, chore.Tags, meta, chore.SnoozedUntil,
		chore.LastDoneAt, chore.Enabled, chore.CreatedAt, chore.UpdatedAt,
	)
	created, err := scanChore(row)
	if err != nil {
		return nil, postgres.MapError(err, "chore", chore.ID.String())
	}
	return created, nil
}

// Update rewrites the chore's mutable columns. Snooze and last-done
// bookkeeping have dedicated operations and are not touched here.
func (r *Repo) Update(ctx context.Context, chore domain.Chore) (*domain.Chore, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	recurrence, policy, meta, err := marshalChoreJSON(chore)
	if err != nil {
		return nil, err
	}

	row := querier.QueryRow(ctx, updateSQL,
		chore.ID, chore.OwnerID, chore.Title, recurrence, chore.EstimatedMinutes,
		chore.Priority, chore.RequiredBlockIDs, chore.EligibleBlockIDs, policy,
		chore.RequiredLocation, chore.Tags, meta, chore.Enabled, chore.UpdatedAt,
	)
	updated, err := scanChore(row)
	if err != nil {
		return nil, postgres.MapError(err, "chore", chore.ID.String())
	}
	return updated, nil
}

// Delete removes a chore. Returns domain.ErrNotFound if it does not exist or
// belongs to another owner.
func (r *Repo) Delete(ctx context.Context, ownerID, choreID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, choreID, ownerID)
	if err != nil {
		return postgres.MapError(err, "chore", choreID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chore %s: %w", choreID, domain.ErrNotFound)
	}
	return nil
}

// TouchLastDone stamps the chore's last completion time.
func (r *Repo) TouchLastDone(ctx context.Context, ownerID, choreID uuid.UUID, at time.Time) error {
	return r.exec(ctx, touchLastDoneSQL, choreID, ownerID, at)
}

// SetSnoozedUntil pushes the chore out of scheduling until the given instant.
func (r *Repo) SetSnoozedUntil(ctx context.Context, ownerID, choreID uuid.UUID, until time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setSnoozedUntilSQL, choreID, ownerID, until, time.Now().UTC())
	if err != nil {
		return postgres.MapError(err, "chore", choreID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chore %s: %w", choreID, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) exec(ctx context.Context, sql string, choreID, ownerID uuid.UUID, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, sql, choreID, ownerID, at)
	if err != nil {
		return postgres.MapError(err, "chore", choreID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chore %s: %w", choreID, domain.ErrNotFound)
	}
	return nil
}

func marshalChoreJSON(chore domain.Chore) (recurrence, policy, meta []byte, err error) {
	if recurrence, err = postgres.MarshalRecurrence(chore.Recurrence); err != nil {
		return nil, nil, nil, err
	}
	if policy, err = postgres.MarshalPolicy(chore.Policy); err != nil {
		return nil, nil, nil, err
	}
	if meta, err = postgres.MarshalMetadata(chore.Meta); err != nil {
		return nil, nil, nil, err
	}
	return recurrence, policy, meta, nil
}

// scanChore works for both pgx.Row and pgx.Rows.
func scanChore(row pgx.Row) (*domain.Chore, error) {
	var (
		c          domain.Chore
		recurrence []byte
		policy     []byte
		meta       []byte
	)

	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Title, &recurrence, &c.EstimatedMinutes,
		&c.Priority, &c.RequiredBlockIDs, &c.EligibleBlockIDs, &policy,
		&c.RequiredLocation, &c.Tags, &meta, &c.SnoozedUntil, &c.LastDoneAt,
		&c.Enabled, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if c.Recurrence, err = postgres.UnmarshalRecurrence(recurrence); err != nil {
		return nil, err
	}
	if c.Policy, err = postgres.UnmarshalPolicy(policy); err != nil {
		return nil, err
	}
	if c.Meta, err = postgres.UnmarshalMetadata(meta); err != nil {
		return nil, err
	}
	return &c, nil
}
