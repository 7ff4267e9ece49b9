// Package block implements the availability-block repository using
// PostgreSQL. Recurrence, weekly windows, and placement constraints are
// stored as JSONB; everything queryable lives in plain columns.
package block

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/planvine/tempo-backend/internal/adapter/postgres"
	"github.com/planvine/tempo-backend/internal/domain"
)

// Repo provides block persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new block repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const blockColumns = `
id, owner_id, name, color, recurrence, windows,
min_duration_minutes, max_duration_minutes, daily_capacity_minutes,
priority, buffer_before_minutes, buffer_after_minutes,
enabled, visible, constraints, created_at, updated_at`

const getByIDSQL = `SELECT ` + blockColumns + `
FROM blocks WHERE id = $1 AND owner_id = $2`

const listSQL = `SELECT ` + blockColumns + `
FROM blocks WHERE owner_id = $1
ORDER BY priority, id`

const listEnabledSQL = `SELECT ` + blockColumns + `
FROM blocks WHERE owner_id = $1 AND enabled
ORDER BY priority, id`

const existByIDsSQL = `SELECT id FROM blocks WHERE owner_id = $1 AND id = ANY($2::uuid[])`

const createSQL = `
INSERT INTO blocks (` + blockColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING ` + blockColumns

const updateSQL = `
UPDATE blocks SET
    name = $3, color = $4, recurrence = $5, windows = $6,
    min_duration_minutes = $7, max_duration_minutes = $8,
    daily_capacity_minutes = $9, priority = $10,
    buffer_before_minutes = $11, buffer_after_minutes = $12,
    enabled = $13, visible = $14, constraints = $15, updated_at = $16
WHERE id = $1 AND owner_id = $2
RETURNING ` + blockColumns

const deleteSQL = `DELETE FROM blocks WHERE id = $1 AND owner_id = $2`

// GetByID returns a block by primary key. Returns domain.ErrNotFound if the
// block does not exist or belongs to another owner.
func (r *Repo) GetByID(ctx context.Context, ownerID, blockID uuid.UUID) (*domain.Block, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, blockID, ownerID)
	block, err := scanBlock(row)
	if err != nil {
		return nil, postgres.MapError(err, "block", blockID.String())
	}
	return block, nil
}

// List returns all of the owner's blocks ordered by priority.
func (r *Repo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Block, error) {
	return r.list(ctx, ownerID, listSQL)
}

// ListEnabled returns the owner's enabled blocks ordered by priority.
func (r *Repo) ListEnabled(ctx context.Context, ownerID uuid.UUID) ([]domain.Block, error) {
	return r.list(ctx, ownerID, listEnabledSQL)
}

func (r *Repo) list(ctx context.Context, ownerID uuid.UUID, sql string) ([]domain.Block, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.Block
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, *block)
	}
	return blocks, rows.Err()
}

// ExistByIDs reports which of the given ids exist and belong to the owner.
// Missing ids are simply absent from the result map.
func (r *Repo) ExistByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, existByIDsSQL, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("check block ids: %w", err)
	}
	defer rows.Close()

	exist := make(map[uuid.UUID]bool, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan block id: %w", err)
		}
		exist[id] = true
	}
	return exist, rows.Err()
}

// Create inserts a new block and returns the persisted row.
func (r *Repo) Create(ctx context.Context, block domain.Block) (*domain.Block, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	args, err := blockArgs(block)
	if err != nil {
		return nil, err
	}

	row := querier.QueryRow(ctx, createSQL, args...)
	created, err := scanBlock(row)
	if err != nil {
		return nil, postgres.MapError(err, "block", block.ID.String())
	}
	return created, nil
}

// Update rewrites all mutable columns of the block. Returns
// domain.ErrNotFound if it does not exist or belongs to another owner.
func (r *Repo) Update(ctx context.Context, block domain.Block) (*domain.Block, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	recurrence, windows, constraints, err := marshalBlockJSON(block)
	if err != nil {
		return nil, err
	}

	row := querier.QueryRow(ctx, updateSQL,
		block.ID, block.OwnerID, block.Name, block.Color, recurrence, windows,
		block.MinDurationMinutes, block.MaxDurationMinutes, block.DailyCapacityMinutes,
		block.Priority, block.BufferBeforeMinutes, block.BufferAfterMinutes,
		block.Enabled, block.Visible, constraints, block.UpdatedAt,
	)
	updated, err := scanBlock(row)
	if err != nil {
		return nil, postgres.MapError(err, "block", block.ID.String())
	}
	return updated, nil
}

// Delete removes a block. Returns domain.ErrNotFound if it does not exist or
// belongs to another owner.
func (r *Repo) Delete(ctx context.Context, ownerID, blockID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, blockID, ownerID)
	if err != nil {
		return postgres.MapError(err, "block", blockID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("block %s: %w", blockID, domain.ErrNotFound)
	}
	return nil
}

func blockArgs(block domain.Block) ([]any, error) {
	recurrence, windows, constraints, err := marshalBlockJSON(block)
	if err != nil {
		return nil, err
	}
	return []any{
		block.ID, block.OwnerID, block.Name, block.Color, recurrence, windows,
		block.MinDurationMinutes, block.MaxDurationMinutes, block.DailyCapacityMinutes,
		block.Priority, block.BufferBeforeMinutes, block.BufferAfterMinutes,
		block.Enabled, block.Visible, constraints, block.CreatedAt, block.UpdatedAt,
	}, nil
}

// scanBlock works for both pgx.Row and pgx.Rows.
func scanBlock(row pgx.Row) (*domain.Block, error) {
	var (
		b           domain.Block
		recurrence  []byte
		windows     []byte
		constraints []byte
	)

	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Color, &recurrence, &windows,
		&b.MinDurationMinutes, &b.MaxDurationMinutes, &b.DailyCapacityMinutes,
		&b.Priority, &b.BufferBeforeMinutes, &b.BufferAfterMinutes,
		&b.Enabled, &b.Visible, &constraints, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if b.Recurrence, err = postgres.UnmarshalRecurrence(recurrence); err != nil {
		return nil, err
	}
	if b.Windows, err = unmarshalWindows(windows); err != nil {
		return nil, err
	}
	if b.Constraints, err = unmarshalConstraints(constraints); err != nil {
		return nil, err
	}
	return &b, nil
}
