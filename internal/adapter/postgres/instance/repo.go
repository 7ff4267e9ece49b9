// Package instance implements the scheduled-instance repository using
// PostgreSQL. Instance ids are deterministic strings derived from
// (source, day), so writes go through an upsert: replaying a
// materialization or planning sweep lands on the existing row.
package instance

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/planvine/tempo-backend/internal/adapter/postgres"
	"github.com/planvine/tempo-backend/internal/domain"
)

// Repo provides scheduled-instance persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new scheduled-instance repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const instanceColumns = `
id, owner_id, source_type, source_id, occurrence_date, block_id, priority,
planned_start, planned_end, buffer_before_minutes, buffer_after_minutes,
duration_minutes, status, status_reason, status_updated_at,
required_block_ids, candidate_block_ids, context, external_sync,
created_at, updated_at`

const getByIDSQL = `SELECT ` + instanceColumns + `
FROM scheduled_instances WHERE id = $1 AND owner_id = $2`

// Upsert keeps created_at and does not resurrect rows into an older status
// blindly: the full row is rewritten because callers always pass a complete
// instance.
const upsertSQL = `
INSERT INTO scheduled_instances (` + instanceColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
        $16, $17, $18, $19, $20, $21)
ON CONFLICT (id) DO UPDATE SET
    block_id = EXCLUDED.block_id,
    priority = EXCLUDED.priority,
    planned_start = EXCLUDED.planned_start,
    planned_end = EXCLUDED.planned_end,
    buffer_before_minutes = EXCLUDED.buffer_before_minutes,
    buffer_after_minutes = EXCLUDED.buffer_after_minutes,
    duration_minutes = EXCLUDED.duration_minutes,
    status = EXCLUDED.status,
    status_reason = EXCLUDED.status_reason,
    status_updated_at = EXCLUDED.status_updated_at,
    required_block_ids = EXCLUDED.required_block_ids,
    candidate_block_ids = EXCLUDED.candidate_block_ids,
    context = EXCLUDED.context,
    external_sync = EXCLUDED.external_sync,
    updated_at = EXCLUDED.updated_at`

const updateStatusSQL = `
UPDATE scheduled_instances
SET status = $3, status_reason = $4, status_updated_at = $5, updated_at = $5
WHERE id = $1 AND owner_id = $2`

// GetByID returns an instance by its deterministic id. Returns
// domain.ErrNotFound if it does not exist or belongs to another owner.
func (r *Repo) GetByID(ctx context.Context, ownerID uuid.UUID, instanceID string) (*domain.ScheduledInstance, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, instanceID, ownerID)
	inst, err := scanInstance(row)
	if err != nil {
		return nil, postgres.MapError(err, "scheduled_instance", instanceID)
	}
	return inst, nil
}

// Upsert inserts the instance or rewrites the existing row with the same id.
func (r *Repo) Upsert(ctx context.Context, inst domain.ScheduledInstance) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	occurrence, err := time.Parse(domain.DateLayout, inst.OccurrenceDate)
	if err != nil {
		return fmt.Errorf("instance %s occurrence date: %w", inst.ID, domain.ErrValidation)
	}
	context_, externalSync, err := marshalInstanceJSON(inst)
	if err != nil {
		return err
	}

	_, err = querier.Exec(ctx, upsertSQL,
		inst.ID, inst.OwnerID, inst.SourceType, inst.SourceID, occurrence,
		inst.BlockID, inst.Priority, inst.PlannedStart, inst.PlannedEnd,
		inst.BufferBeforeMinutes, inst.BufferAfterMinutes, inst.DurationMinutes,
		inst.Status, inst.StatusReason, inst.StatusUpdatedAt,
		inst.RequiredBlockIDs, inst.CandidateBlockIDs, context_, externalSync,
		inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "scheduled_instance", inst.ID)
	}
	return nil
}

// UpdateStatus stamps the instance's lifecycle status and reason. The legal
// transition check belongs to the service layer; this is a plain write.
func (r *Repo) UpdateStatus(ctx context.Context, ownerID uuid.UUID, instanceID string, status domain.InstanceStatus, reason string, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateStatusSQL, instanceID, ownerID, status, reason, at)
	if err != nil {
		return postgres.MapError(err, "scheduled_instance", instanceID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scheduled_instance %s: %w", instanceID, domain.ErrNotFound)
	}
	return nil
}

// List returns instances matching the filter, ordered by occurrence date
// then id. The query is assembled dynamically; unset filter fields add no
// predicate.
func (r *Repo) List(ctx context.Context, ownerID uuid.UUID, filter domain.InstanceFilter) ([]domain.ScheduledInstance, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	builder := sq.Select(
		"id", "owner_id", "source_type", "source_id", "occurrence_date",
		"block_id", "priority", "planned_start", "planned_end",
		"buffer_before_minutes", "buffer_after_minutes", "duration_minutes",
		"status", "status_reason", "status_updated_at",
		"required_block_ids", "candidate_block_ids", "context", "external_sync",
		"created_at", "updated_at",
	).
		From("scheduled_instances").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("occurrence_date", "id").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		builder = builder.Where(sq.Eq{"status": statuses})
	}
	if filter.SourceType != nil {
		builder = builder.Where(sq.Eq{"source_type": string(*filter.SourceType)})
	}
	if filter.SourceID != nil {
		builder = builder.Where(sq.Eq{"source_id": *filter.SourceID})
	}
	if filter.BlockID != nil {
		builder = builder.Where(sq.Eq{"block_id": *filter.BlockID})
	}
	if filter.FromDate != "" {
		builder = builder.Where(sq.GtOrEq{"occurrence_date": filter.FromDate})
	}
	if filter.ToDate != "" {
		builder = builder.Where(sq.LtOrEq{"occurrence_date": filter.ToDate})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build instance query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list scheduled_instances: %w", err)
	}
	defer rows.Close()

	var instances []domain.ScheduledInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled_instance: %w", err)
		}
		instances = append(instances, *inst)
	}
	return instances, rows.Err()
}

// scanInstance works for both pgx.Row and pgx.Rows.
func scanInstance(row pgx.Row) (*domain.ScheduledInstance, error) {
	var (
		inst         domain.ScheduledInstance
		occurrence   time.Time
		contextJSON  []byte
		externalSync []byte
	)

	err := row.Scan(
		&inst.ID, &inst.OwnerID, &inst.SourceType, &inst.SourceID, &occurrence,
		&inst.BlockID, &inst.Priority, &inst.PlannedStart, &inst.PlannedEnd,
		&inst.BufferBeforeMinutes, &inst.BufferAfterMinutes, &inst.DurationMinutes,
		&inst.Status, &inst.StatusReason, &inst.StatusUpdatedAt,
		&inst.RequiredBlockIDs, &inst.CandidateBlockIDs, &contextJSON, &externalSync,
		&inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inst.OccurrenceDate = occurrence.Format(domain.DateLayout)
	if inst.Context, inst.ExternalSync, err = unmarshalInstanceJSON(contextJSON, externalSync); err != nil {
		return nil, err
	}
	return &inst, nil
}
