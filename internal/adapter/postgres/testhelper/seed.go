package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planvine/tempo-backend/internal/adapter/postgres/block"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/chore"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/instance"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/routine"
	"github.com/planvine/tempo-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NewOwnerID returns a fresh owner id. Owners are external identities; rows
// only reference them, so a random uuid isolates each test's data.
func NewOwnerID() uuid.UUID {
	return uuid.New()
}

// anchorAt returns a recurrence anchor at 09:00 UTC on the given day.
func anchorAt(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 9, 0, 0, 0, time.UTC)
	return &t
}

// SeedBlock creates an enabled weekday block (Mon-Fri 09:00-17:00) for the
// owner and returns the stored row.
func SeedBlock(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID) domain.Block {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	b := domain.Block{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Block " + uniqueSuffix(),
		Color:   "#4a90d9",
		Recurrence: domain.RecurrenceDefinition{
			Rule:     "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR",
			Anchor:   anchorAt(2025, time.September, 1),
			Timezone: "UTC",
			Source:   domain.RecurrenceSourceRRule,
		},
		Windows: []domain.BlockWindow{
			{Weekdays: []int{1, 2, 3, 4, 5}, StartTime: "09:00", EndTime: "17:00"},
		},
		MinDurationMinutes:   15,
		MaxDurationMinutes:   120,
		DailyCapacityMinutes: 240,
		Priority:             1,
		Enabled:              true,
		Visible:              true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	stored, err := block.New(pool).Create(ctx, b)
	if err != nil {
		t.Fatalf("testhelper: SeedBlock create: %v", err)
	}
	return *stored
}

// SeedChore creates an enabled daily chore eligible for the given blocks and
// returns the stored row.
func SeedChore(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, eligibleBlockIDs ...uuid.UUID) domain.Chore {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.Chore{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   "Chore " + uniqueSuffix(),
		Recurrence: domain.RecurrenceDefinition{
			Rule:     "FREQ=DAILY",
			Anchor:   anchorAt(2025, time.September, 1),
			Timezone: "UTC",
			Source:   domain.RecurrenceSourceRRule,
		},
		EstimatedMinutes: 30,
		Priority:         2,
		EligibleBlockIDs: eligibleBlockIDs,
		Policy: domain.SchedulingPolicy{
			Mode:         domain.PolicyModeRollForward,
			GraceMinutes: 60,
		},
		Tags:      []string{"home"},
		Meta:      domain.NewMetadata(),
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := chore.New(pool).Create(ctx, c)
	if err != nil {
		t.Fatalf("testhelper: SeedChore create: %v", err)
	}
	return *stored
}

// SeedRoutine creates an enabled daily boolean routine and returns the
// stored row.
func SeedRoutine(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID) domain.Routine {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	r := domain.Routine{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   "Routine " + uniqueSuffix(),
		Type:    domain.RoutineTypeBoolean,
		Recurrence: domain.RecurrenceDefinition{
			Rule:     "FREQ=DAILY",
			Anchor:   anchorAt(2025, time.September, 1),
			Timezone: "UTC",
			Source:   domain.RecurrenceSourceRRule,
		},
		EstimatedMinutes: 15,
		Priority:         3,
		Policy: domain.SchedulingPolicy{
			Mode: domain.PolicyModeSkip,
		},
		Meta:      domain.NewMetadata(),
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := routine.New(pool).Create(ctx, r)
	if err != nil {
		t.Fatalf("testhelper: SeedRoutine create: %v", err)
	}
	return *stored
}

// SeedInstance upserts a draft scheduled instance for the chore on the given
// day and returns it.
func SeedInstance(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, c domain.Chore, occurrenceDate string) domain.ScheduledInstance {
	t.Helper()
	ctx := context.Background()

	day, err := time.Parse(domain.DateLayout, occurrenceDate)
	if err != nil {
		t.Fatalf("testhelper: SeedInstance bad date %q: %v", occurrenceDate, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	inst := domain.ScheduledInstance{
		ID:                "chore_" + c.ID.String() + "_" + day.Format(domain.DayKeyLayout),
		OwnerID:           ownerID,
		SourceType:        domain.SourceTypeChore,
		SourceID:          c.ID,
		OccurrenceDate:    occurrenceDate,
		Priority:          c.Priority,
		DurationMinutes:   c.EstimatedMinutes,
		Status:            domain.InstanceStatusDraft,
		StatusUpdatedAt:   now,
		CandidateBlockIDs: c.EligibleBlockIDs,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := instance.New(pool).Upsert(ctx, inst); err != nil {
		t.Fatalf("testhelper: SeedInstance upsert: %v", err)
	}
	return inst
}
