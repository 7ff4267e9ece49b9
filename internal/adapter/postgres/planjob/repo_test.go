package planjob_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planvine/tempo-backend/internal/adapter/postgres/planjob"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/testhelper"
	"github.com/planvine/tempo-backend/internal/domain"
)

func newRepo(t *testing.T) (*planjob.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return planjob.New(pool), pool
}

func seedState(t *testing.T, repo *planjob.Repo, planningDate string) domain.PlanningJobState {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	owner := testhelper.NewOwnerID()
	state := domain.PlanningJobState{
		Key:          owner.String() + "__" + planningDate,
		OwnerID:      owner,
		PlanningDate: planningDate,
		Status:       domain.PlanRunStatusPending,
		WindowStart:  planningDate,
		WindowEnd:    "2025-09-30",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Upsert(context.Background(), state); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return state
}

func TestRepo_Upsert_Roundtrip(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	state := seedState(t, repo, "2025-09-15")

	stored, err := repo.Get(ctx, state.OwnerID, state.PlanningDate)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}

	if stored.Key != state.Key {
		t.Errorf("Key mismatch: got %q, want %q", stored.Key, state.Key)
	}
	if stored.Status != domain.PlanRunStatusPending {
		t.Errorf("Status mismatch: got %q", stored.Status)
	}
	if stored.WindowStart != "2025-09-15" || stored.WindowEnd != "2025-09-30" {
		t.Errorf("window mismatch: got %q..%q", stored.WindowStart, stored.WindowEnd)
	}
	if stored.SolverRunID != "" {
		t.Errorf("expected empty SolverRunID, got %q", stored.SolverRunID)
	}
}

func TestRepo_Upsert_Replays(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	state := seedState(t, repo, "2025-09-16")

	state.WindowEnd = "2025-10-05"
	state.UpdatedAt = state.UpdatedAt.Add(time.Minute)
	if err := repo.Upsert(ctx, state); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	stored, err := repo.Get(ctx, state.OwnerID, state.PlanningDate)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.WindowEnd != "2025-10-05" {
		t.Errorf("replayed upsert not applied: got %q", stored.WindowEnd)
	}
}

func TestRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, testhelper.NewOwnerID(), "2025-09-17")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_MarkRunning(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	state := seedState(t, repo, "2025-09-18")

	at := time.Now().UTC().Truncate(time.Microsecond)
	if err := repo.MarkRunning(ctx, state.Key, "run-7", at); err != nil {
		t.Fatalf("MarkRunning: unexpected error: %v", err)
	}

	stored, err := repo.Get(ctx, state.OwnerID, state.PlanningDate)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != domain.PlanRunStatusRunning || stored.SolverRunID != "run-7" {
		t.Errorf("run state mismatch: got %q/%q", stored.Status, stored.SolverRunID)
	}

	err = repo.MarkRunning(ctx, "nonexistent__2025-09-18", "run-8", at)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown key, got %v", err)
	}
}

func TestRepo_MarkCompleted(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	state := seedState(t, repo, "2025-09-19")

	at := time.Now().UTC().Truncate(time.Microsecond)
	summary := domain.PlanRunSummary{
		Status:           domain.PlanRunStatusSucceeded,
		PlannedCount:     12,
		UnscheduledCount: 3,
	}
	if err := repo.MarkCompleted(ctx, state.Key, summary, at); err != nil {
		t.Fatalf("MarkCompleted: unexpected error: %v", err)
	}

	stored, err := repo.Get(ctx, state.OwnerID, state.PlanningDate)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != domain.PlanRunStatusSucceeded {
		t.Errorf("Status mismatch: got %q", stored.Status)
	}
	if stored.PlannedCount != 12 || stored.UnscheduledCount != 3 {
		t.Errorf("counts mismatch: got %d/%d", stored.PlannedCount, stored.UnscheduledCount)
	}
}

func TestRepo_Upsert_RejectsBadDate(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	state := domain.PlanningJobState{
		Key:          "bad__date",
		OwnerID:      testhelper.NewOwnerID(),
		PlanningDate: "tomorrow",
		Status:       domain.PlanRunStatusPending,
		WindowStart:  "2025-09-15",
		WindowEnd:    "2025-09-30",
	}
	err := repo.Upsert(ctx, state)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
