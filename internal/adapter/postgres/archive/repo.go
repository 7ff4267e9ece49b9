// Package archive implements cold storage for terminal scheduled instances.
// Rows are moved out of the hot table in one statement and carry an explicit
// delete_at horizon; a separate purge removes rows past it.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/planvine/tempo-backend/internal/adapter/postgres"
	"github.com/planvine/tempo-backend/internal/domain"
)

// Repo provides archived-instance persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new archive repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// archiveCompletedSQL moves terminal rows atomically: the full source row is
// preserved as jsonb payload so archived data survives later schema changes
// to the hot table. Replays of already-archived ids overwrite.
const archiveCompletedSQL = `
WITH moved AS (
    DELETE FROM scheduled_instances
    WHERE status = $1 AND status_updated_at <= $2
    RETURNING id, owner_id, source_type, source_id, occurrence_date,
              status, status_reason, status_updated_at,
              to_jsonb(scheduled_instances) AS payload
)
INSERT INTO archived_instances (
    id, owner_id, source_type, source_id, occurrence_date,
    status, status_reason, status_updated_at, payload, archived_at, delete_at
)
SELECT id, owner_id, source_type, source_id, occurrence_date,
       status, status_reason, status_updated_at, payload, $3, $4
FROM moved
ON CONFLICT (id) DO UPDATE SET
    payload = EXCLUDED.payload,
    archived_at = EXCLUDED.archived_at,
    delete_at = EXCLUDED.delete_at`

const purgeExpiredSQL = `DELETE FROM archived_instances WHERE delete_at <= $1`

const countForOwnerSQL = `SELECT count(*) FROM archived_instances WHERE owner_id = $1`

// ArchiveCompleted moves completed instances whose status was last updated at
// or before cutoff into the archive, stamping archivedAt and deleteAt.
// Returns the number of rows moved.
func (r *Repo) ArchiveCompleted(ctx context.Context, cutoff, archivedAt, deleteAt time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, archiveCompletedSQL,
		string(domain.InstanceStatusCompleted), cutoff, archivedAt, deleteAt)
	if err != nil {
		return 0, fmt.Errorf("archive completed instances: %w", postgres.MapError(err, "archived instance", ""))
	}
	return tag.RowsAffected(), nil
}

// PurgeExpired deletes archived rows whose delete_at horizon has passed.
// Returns the number of rows removed.
func (r *Repo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, purgeExpiredSQL, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired archives: %w", postgres.MapError(err, "archived instance", ""))
	}
	return tag.RowsAffected(), nil
}

// CountForOwner reports how many archived rows an owner has.
func (r *Repo) CountForOwner(ctx context.Context, ownerID string) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int64
	if err := querier.QueryRow(ctx, countForOwnerSQL, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count archived instances: %w", postgres.MapError(err, "archived instance", ""))
	}
	return n, nil
}
