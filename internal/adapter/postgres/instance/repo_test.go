package instance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planvine/tempo-backend/internal/adapter/postgres/instance"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/testhelper"
	"github.com/planvine/tempo-backend/internal/domain"
)

func newRepo(t *testing.T) (*instance.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return instance.New(pool), pool
}

func buildInstance(ownerID uuid.UUID, sourceID uuid.UUID, date string) domain.ScheduledInstance {
	now := time.Now().UTC().Truncate(time.Microsecond)
	day, _ := time.Parse(domain.DateLayout, date)
	return domain.ScheduledInstance{
		ID:              "chore_" + sourceID.String() + "_" + day.Format(domain.DayKeyLayout),
		OwnerID:         ownerID,
		SourceType:      domain.SourceTypeChore,
		SourceID:        sourceID,
		OccurrenceDate:  date,
		Priority:        2,
		DurationMinutes: 30,
		Status:          domain.InstanceStatusDraft,
		StatusUpdatedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestRepo_Upsert_Roundtrip(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	owner := testhelper.NewOwnerID()
	blockID := uuid.New()
	start := time.Date(2025, time.September, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	synced := start.Add(time.Hour)
	blockPriority := 1

	inst := buildInstance(owner, uuid.New(), "2025-09-10")
	inst.BlockID = &blockID
	inst.PlannedStart = &start
	inst.PlannedEnd = &end
	inst.BufferBeforeMinutes = 5
	inst.BufferAfterMinutes = 10
	inst.Status = domain.InstanceStatusPlanned
	inst.RequiredBlockIDs = []uuid.UUID{blockID}
	inst.CandidateBlockIDs = []uuid.UUID{blockID, uuid.New()}
	inst.Context = domain.SchedulingContext{
		BlockPriority: &blockPriority,
		SolverRunID:   "run-42",
		TieBreak:      "priority",
	}
	inst.ExternalSync = &domain.ExternalSyncState{
		CalendarEventID: "cal-evt-1",
		SyncedAt:        &synced,
	}

	if err := repo.Upsert(ctx, inst); err != nil {
		t.Fatalf("Upsert: unexpected error: %v", err)
	}

	stored, err := repo.GetByID(ctx, owner, inst.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}

	if stored.OccurrenceDate != "2025-09-10" {
		t.Errorf("OccurrenceDate mismatch: got %q", stored.OccurrenceDate)
	}
	if stored.BlockID == nil || *stored.BlockID != blockID {
		t.Errorf("BlockID mismatch: got %v", stored.BlockID)
	}
	if stored.PlannedStart == nil || !stored.PlannedStart.Equal(start) {
		t.Errorf("PlannedStart mismatch: got %v", stored.PlannedStart)
	}
	if stored.Context.BlockPriority == nil || *stored.Context.BlockPriority != 1 {
		t.Errorf("Context.BlockPriority mismatch: got %v", stored.Context.BlockPriority)
	}
	if stored.Context.SolverRunID != "run-42" {
		t.Errorf("Context.SolverRunID mismatch: got %q", stored.Context.SolverRunID)
	}
	if stored.ExternalSync == nil || stored.ExternalSync.CalendarEventID != "cal-evt-1" {
		t.Errorf("ExternalSync mismatch: got %+v", stored.ExternalSync)
	}
	if stored.ExternalSync != nil {
		if stored.ExternalSync.SyncedAt == nil || !stored.ExternalSync.SyncedAt.Equal(synced) {
			t.Errorf("ExternalSync.SyncedAt mismatch: got %v, want %v", stored.ExternalSync.SyncedAt, synced)
		}
	}
	if len(stored.CandidateBlockIDs) != 2 {
		t.Errorf("CandidateBlockIDs mismatch: got %v", stored.CandidateBlockIDs)
	}
}

func TestRepo_Upsert_ReplaysOntoSameRow(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	owner := testhelper.NewOwnerID()
	inst := buildInstance(owner, uuid.New(), "2025-09-11")

	if err := repo.Upsert(ctx, inst); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	inst.Status = domain.InstanceStatusPlanned
	inst.DurationMinutes = 45
	inst.UpdatedAt = inst.UpdatedAt.Add(time.Minute)
	if err := repo.Upsert(ctx, inst); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	stored, err := repo.GetByID(ctx, owner, inst.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != domain.InstanceStatusPlanned || stored.DurationMinutes != 45 {
		t.Errorf("replayed upsert not applied: got %+v", stored)
	}
}

func TestRepo_UpdateStatus(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	owner := testhelper.NewOwnerID()
	inst := buildInstance(owner, uuid.New(), "2025-09-12")
	if err := repo.Upsert(ctx, inst); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Microsecond)
	err := repo.UpdateStatus(ctx, owner, inst.ID, domain.InstanceStatusMissed, "overslept", at)
	if err != nil {
		t.Fatalf("UpdateStatus: unexpected error: %v", err)
	}

	stored, err := repo.GetByID(ctx, owner, inst.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != domain.InstanceStatusMissed || stored.StatusReason != "overslept" {
		t.Errorf("status not applied: got %q/%q", stored.Status, stored.StatusReason)
	}
	if !stored.StatusUpdatedAt.Equal(at) {
		t.Errorf("StatusUpdatedAt mismatch: got %v, want %v", stored.StatusUpdatedAt, at)
	}

	err = repo.UpdateStatus(ctx, testhelper.NewOwnerID(), inst.ID, domain.InstanceStatusMissed, "", at)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
}

func TestRepo_List_Filters(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	owner := testhelper.NewOwnerID()
	choreID := uuid.New()

	days := []string{"2025-09-10", "2025-09-11", "2025-09-12"}
	for i, day := range days {
		inst := buildInstance(owner, choreID, day)
		if i == 2 {
			inst.Status = domain.InstanceStatusCompleted
		}
		if err := repo.Upsert(ctx, inst); err != nil {
			t.Fatalf("Upsert %s: %v", day, err)
		}
	}
	// Another source, should be excluded by the SourceID filter.
	other := buildInstance(owner, uuid.New(), "2025-09-11")
	if err := repo.Upsert(ctx, other); err != nil {
		t.Fatalf("Upsert other: %v", err)
	}

	t.Run("by source and date range", func(t *testing.T) {
		got, err := repo.List(ctx, owner, domain.InstanceFilter{
			SourceID: &choreID,
			FromDate: "2025-09-11",
			ToDate:   "2025-09-12",
		})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 instances, got %d", len(got))
		}
		if got[0].OccurrenceDate != "2025-09-11" || got[1].OccurrenceDate != "2025-09-12" {
			t.Errorf("expected date order, got %q then %q", got[0].OccurrenceDate, got[1].OccurrenceDate)
		}
	})

	t.Run("by status", func(t *testing.T) {
		got, err := repo.List(ctx, owner, domain.InstanceFilter{
			Statuses: []domain.InstanceStatus{domain.InstanceStatusCompleted},
		})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].OccurrenceDate != "2025-09-12" {
			t.Fatalf("expected single completed instance, got %d", len(got))
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := repo.List(ctx, owner, domain.InstanceFilter{
			SourceID: &choreID,
			Limit:    1,
			Offset:   1,
		})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].OccurrenceDate != "2025-09-11" {
			t.Fatalf("expected the middle instance, got %+v", got)
		}
	})

	t.Run("foreign owner sees nothing", func(t *testing.T) {
		got, err := repo.List(ctx, testhelper.NewOwnerID(), domain.InstanceFilter{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no rows, got %d", len(got))
		}
	})
}

func TestRepo_Upsert_RejectsBadDate(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	inst := buildInstance(testhelper.NewOwnerID(), uuid.New(), "2025-09-10")
	inst.OccurrenceDate = "not-a-date"

	err := repo.Upsert(ctx, inst)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
