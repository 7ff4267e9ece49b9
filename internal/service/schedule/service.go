package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type blockRepo interface {
	Create(ctx context.Context, block domain.Block) (*domain.Block, error)
	GetByID(ctx context.Context, ownerID, blockID uuid.UUID) (*domain.Block, error)
	ListEnabled(ctx context.Context, ownerID uuid.UUID) ([]domain.Block, error)
	ExistByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

type choreRepo interface {
	Create(ctx context.Context, chore domain.Chore) (*domain.Chore, error)
	GetByID(ctx context.Context, ownerID, choreID uuid.UUID) (*domain.Chore, error)
	ListSchedulable(ctx context.Context, ownerID uuid.UUID) ([]domain.Chore, error)
	TouchLastDone(ctx context.Context, ownerID, choreID uuid.UUID, at time.Time) error
	SetSnoozedUntil(ctx context.Context, ownerID, choreID uuid.UUID, until time.Time) error
}

type routineRepo interface {
	Create(ctx context.Context, routine domain.Routine) (*domain.Routine, error)
	GetByID(ctx context.Context, ownerID, routineID uuid.UUID) (*domain.Routine, error)
	ListSchedulable(ctx context.Context, ownerID uuid.UUID) ([]domain.Routine, error)
	TouchLastDone(ctx context.Context, ownerID, routineID uuid.UUID, at time.Time) error
	SetSnoozedUntil(ctx context.Context, ownerID, routineID uuid.UUID, until time.Time) error
}

type instanceRepo interface {
	Upsert(ctx context.Context, inst domain.ScheduledInstance) error
	GetByID(ctx context.Context, ownerID uuid.UUID, instanceID string) (*domain.ScheduledInstance, error)
	UpdateStatus(ctx context.Context, ownerID uuid.UUID, instanceID string, status domain.InstanceStatus, reason string, at time.Time) error
	List(ctx context.Context, ownerID uuid.UUID, filter domain.InstanceFilter) ([]domain.ScheduledInstance, error)
}

type planJobRepo interface {
	Upsert(ctx context.Context, state domain.PlanningJobState) error
	Get(ctx context.Context, ownerID uuid.UUID, planningDate string) (*domain.PlanningJobState, error)
	MarkRunning(ctx context.Context, key, solverRunID string, at time.Time) error
	MarkCompleted(ctx context.Context, key string, summary domain.PlanRunSummary, at time.Time) error
}

type solverClient interface {
	Plan(ctx context.Context, ownerID uuid.UUID, req domain.PlanRequest) (domain.PlanResponse, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Options bound the service's planning behavior. Zero values fall back to
// the defaults below.
type Options struct {
	DefaultTimezone string
	LookaheadDays   int // materialization window
	MaxPlanningDays int // upper bound on PlanRequest.Days
	MaxSnoozeDays   int
}

const (
	defaultLookaheadDays   = 14
	defaultMaxPlanningDays = 31
	defaultMaxSnoozeDays   = 14
)

// Service implements the recurring-task scheduling business logic.
type Service struct {
	blocks    blockRepo
	chores    choreRepo
	routines  routineRepo
	instances instanceRepo
	planJobs  planJobRepo
	solver    solverClient
	tx        txManager
	logger    *slog.Logger
	opts      Options
	now       func() time.Time
}

// New creates the scheduling service.
func New(
	blocks blockRepo,
	chores choreRepo,
	routines routineRepo,
	instances instanceRepo,
	planJobs planJobRepo,
	solver solverClient,
	tx txManager,
	logger *slog.Logger,
	opts Options,
) *Service {
	if opts.DefaultTimezone == "" {
		opts.DefaultTimezone = "UTC"
	}
	if opts.LookaheadDays <= 0 {
		opts.LookaheadDays = defaultLookaheadDays
	}
	if opts.MaxPlanningDays <= 0 {
		opts.MaxPlanningDays = defaultMaxPlanningDays
	}
	if opts.MaxSnoozeDays <= 0 {
		opts.MaxSnoozeDays = defaultMaxSnoozeDays
	}

	return &Service{
		blocks:    blocks,
		chores:    chores,
		routines:  routines,
		instances: instances,
		planJobs:  planJobs,
		solver:    solver,
		tx:        tx,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
}

// ---------------------------------------------------------------------------
// Planning runs
// ---------------------------------------------------------------------------

// RequestPlan issues a fire-and-forget planning request to the external
// solver and records its deterministic PlanningJobState. The caller gets the
// state back immediately; results land asynchronously and a read right after
// this call may not reflect them. There is no cancellation primitive — a
// caller unhappy with a run issues a corrective follow-up run.
func (s *Service) RequestPlan(ctx context.Context, ownerID uuid.UUID, req domain.PlanRequest) (*domain.PlanningJobState, error) {
	now := s.now().UTC()
	loc := ParseTimezone(s.timezoneOrDefault(req.Timezone))

	startDate := req.StartDate
	if startDate == "" {
		startDate = ISODate(now, loc)
	}
	start, err := time.ParseInLocation(domain.DateLayout, startDate, loc)
	if err != nil {
		return nil, domain.NewValidationError("startDate", "invalid date "+req.StartDate)
	}

	days := req.Days
	if days <= 0 {
		days = s.opts.LookaheadDays
	}
	if days > s.opts.MaxPlanningDays {
		days = s.opts.MaxPlanningDays
	}

	state := domain.PlanningJobState{
		Key:          PlanJobKey(ownerID, startDate),
		OwnerID:      ownerID,
		PlanningDate: startDate,
		Status:       domain.PlanRunStatusPending,
		WindowStart:  startDate,
		WindowEnd:    start.AddDate(0, 0, days-1).Format(domain.DateLayout),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.planJobs.Upsert(ctx, state); err != nil {
		return nil, fmt.Errorf("record planning job: %w", err)
	}

	resp, err := s.solver.Plan(ctx, ownerID, domain.PlanRequest{
		StartDate:   startDate,
		Days:        days,
		Timezone:    s.timezoneOrDefault(req.Timezone),
		IncludeBusy: req.IncludeBusy,
	})
	if err != nil {
		// Best effort: the historical record should say the invocation
		// failed, but the transport error is what the caller needs.
		if markErr := s.planJobs.MarkCompleted(ctx, state.Key, domain.PlanRunSummary{Status: domain.PlanRunStatusFailed}, s.now().UTC()); markErr != nil {
			s.logger.Warn("mark planning job failed",
				slog.String("key", state.Key),
				slog.String("error", markErr.Error()),
			)
		}
		return nil, fmt.Errorf("invoke planning job: %w", err)
	}

	state.SolverRunID = resp.SolverRunID
	if resp.SolverRunID != "" {
		state.Status = domain.PlanRunStatusRunning
		if err := s.planJobs.MarkRunning(ctx, state.Key, resp.SolverRunID, s.now().UTC()); err != nil {
			return nil, fmt.Errorf("record solver run id: %w", err)
		}
	}

	s.logger.Info("planning run requested",
		slog.String("owner_id", ownerID.String()),
		slog.String("start_date", startDate),
		slog.Int("days", days),
		slog.String("solver_run_id", resp.SolverRunID),
	)

	return &state, nil
}

// CompleteRun records the solver's reported outcome on the planning job
// state. The record is historical and never deleted.
func (s *Service) CompleteRun(ctx context.Context, ownerID uuid.UUID, planningDate string, summary domain.PlanRunSummary) error {
	if summary.Status != domain.PlanRunStatusSucceeded && summary.Status != domain.PlanRunStatusFailed {
		return domain.NewValidationError("status", "completion status must be succeeded or failed")
	}
	if _, err := time.Parse(domain.DateLayout, planningDate); err != nil {
		return domain.NewValidationError("planningDate", "invalid date "+planningDate)
	}

	key := PlanJobKey(ownerID, planningDate)
	if err := s.planJobs.MarkCompleted(ctx, key, summary, s.now().UTC()); err != nil {
		return fmt.Errorf("complete planning job %s: %w", key, err)
	}

	s.logger.Info("planning run completed",
		slog.String("key", key),
		slog.String("status", summary.Status.String()),
		slog.Int("planned", summary.PlannedCount),
		slog.Int("unscheduled", summary.UnscheduledCount),
	)
	return nil
}

// ---------------------------------------------------------------------------
// Preview
// ---------------------------------------------------------------------------

// Preview assembles the candidate feasible placements for one calendar day
// without persisting anything. Pre-existing planned/committed instances are
// charged against block capacity.
func (s *Service) Preview(ctx context.Context, ownerID uuid.UUID, day time.Time, timezone string) (*domain.SchedulePreview, error) {
	loc := ParseTimezone(s.timezoneOrDefault(timezone))

	blocks, err := s.blocks.ListEnabled(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	chores, err := s.chores.ListSchedulable(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	routines, err := s.routines.ListSchedulable(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}

	busy, err := s.busyMinutes(ctx, ownerID, day, loc)
	if err != nil {
		return nil, err
	}

	preview := BuildPreview(PreviewInput{
		Day:                day,
		Location:           loc,
		Now:                s.now(),
		Blocks:             blocks,
		Chores:             chores,
		Routines:           routines,
		BusyMinutesByBlock: busy,
	})

	for _, c := range preview.Conflicts {
		if c.Reason == domain.ConflictReasonUnknown {
			s.logger.Warn("recurrence rule rejected during preview",
				slog.String("source_id", c.SourceID.String()),
				slog.String("detail", c.Detail),
			)
		}
	}

	return &preview, nil
}

// busyMinutes sums already-placed instance durations per block for the day.
func (s *Service) busyMinutes(ctx context.Context, ownerID uuid.UUID, day time.Time, loc *time.Location) (map[uuid.UUID]int, error) {
	date := ISODate(day, loc)
	placed, err := s.instances.List(ctx, ownerID, domain.InstanceFilter{
		Statuses: []domain.InstanceStatus{domain.InstanceStatusPlanned, domain.InstanceStatusCommitted},
		FromDate: date,
		ToDate:   date,
	})
	if err != nil {
		return nil, fmt.Errorf("list placed instances: %w", err)
	}

	busy := make(map[uuid.UUID]int)
	for _, inst := range placed {
		if inst.BlockID != nil {
			busy[*inst.BlockID] += inst.DurationMinutes
		}
	}
	return busy, nil
}

// ---------------------------------------------------------------------------
// Materialization
// ---------------------------------------------------------------------------

// MaterializeResult summarizes one materialization sweep.
type MaterializeResult struct {
	Days         int
	Materialized int
	RuleFailures int
}

// MaterializeWindow idempotently creates draft ScheduledInstances for every
// due occurrence in the lookahead window starting at start. Instance ids are
// deterministic, so replaying a sweep overwrites rather than duplicates.
// Snoozed sources and exception dates are skipped. Malformed recurrence
// rules are counted and logged but do not abort the sweep.
func (s *Service) MaterializeWindow(ctx context.Context, ownerID uuid.UUID, start time.Time, days int, timezone string) (*MaterializeResult, error) {
	if days <= 0 {
		days = s.opts.LookaheadDays
	}
	loc := ParseTimezone(s.timezoneOrDefault(timezone))
	now := s.now().UTC()

	chores, err := s.chores.ListSchedulable(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	routines, err := s.routines.ListSchedulable(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}

	result := &MaterializeResult{Days: days}

	for i := 0; i < days; i++ {
		dayStart := DayStart(start, loc).AddDate(0, 0, i)
		nextDay := dayStart.AddDate(0, 0, 1)

		sources := collectSources(PreviewInput{Chores: chores, Routines: routines}, dayStart)
		for _, src := range sources {
			if src.Snoozed {
				continue
			}

			next, err := NextDue(src.Recurrence, dayStart, loc)
			if err != nil {
				result.RuleFailures++
				s.logger.Warn("recurrence rule rejected during materialization",
					slog.String("source_id", src.ID.String()),
					slog.String("error", err.Error()),
				)
				continue
			}
			if next == nil || !next.Before(nextDay) {
				continue
			}

			inst := domain.ScheduledInstance{
				ID:               MakeInstanceID(src.Type, src.ID, dayStart),
				OwnerID:          ownerID,
				SourceType:       src.Type,
				SourceID:         src.ID,
				OccurrenceDate:   dayStart.Format(domain.DateLayout),
				Priority:         src.Priority,
				DurationMinutes:  src.EstimatedMinutes,
				Status:           domain.InstanceStatusDraft,
				StatusUpdatedAt:  now,
				RequiredBlockIDs: src.RequiredBlockIDs,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := s.instances.Upsert(ctx, inst); err != nil {
				return result, fmt.Errorf("materialize %s: %w", inst.ID, err)
			}
			result.Materialized++
		}
	}

	s.logger.Info("materialization sweep finished",
		slog.String("owner_id", ownerID.String()),
		slog.Int("days", result.Days),
		slog.Int("materialized", result.Materialized),
		slog.Int("rule_failures", result.RuleFailures),
	)
	return result, nil
}

// ---------------------------------------------------------------------------
// Completion / snooze
// ---------------------------------------------------------------------------

// CompleteToday marks today's instance of the source completed and stamps
// the source's last-done bookkeeping. The instance is walked through the
// legal transition chain (draft → planned → committed → completed) so the
// state machine stays honest even when the user completes an unplanned
// occurrence.
func (s *Service) CompleteToday(ctx context.Context, ownerID uuid.UUID, sourceType domain.SourceType, sourceID uuid.UUID, timezone string) (*domain.ScheduledInstance, error) {
	if !sourceType.IsValid() {
		return nil, domain.NewValidationError("sourceType", "unknown source type")
	}

	now := s.now().UTC()
	loc := ParseTimezone(s.timezoneOrDefault(timezone))
	instanceID := MakeInstanceID(sourceType, sourceID, DayStart(now, loc))

	inst, err := s.instances.GetByID(ctx, ownerID, instanceID)
	if err != nil {
		return nil, fmt.Errorf("load instance %s: %w", instanceID, err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for inst.Status != domain.InstanceStatusCompleted {
			next, ok := stepToward(inst.Status, domain.InstanceStatusCompleted)
			if !ok {
				return fmt.Errorf("%s → completed: %w", inst.Status, domain.ErrIllegalTransition)
			}
			if err := Transition(inst, next, "", now); err != nil {
				return err
			}
			if err := s.instances.UpdateStatus(ctx, ownerID, inst.ID, inst.Status, inst.StatusReason, now); err != nil {
				return fmt.Errorf("update instance status: %w", err)
			}
		}

		switch sourceType {
		case domain.SourceTypeChore:
			return s.chores.TouchLastDone(ctx, ownerID, sourceID, now)
		default:
			return s.routines.TouchLastDone(ctx, ownerID, sourceID, now)
		}
	})
	if err != nil {
		return nil, err
	}

	return inst, nil
}

// stepToward returns the next hop on the happy path from the current status
// to the target.
func stepToward(from, target domain.InstanceStatus) (domain.InstanceStatus, bool) {
	if CanTransition(from, target) {
		return target, true
	}
	switch from {
	case domain.InstanceStatusDraft, domain.InstanceStatusUnscheduled:
		return domain.InstanceStatusPlanned, true
	case domain.InstanceStatusPlanned:
		return domain.InstanceStatusCommitted, true
	}
	return "", false
}

// Snooze pushes the source out of materialization until dayStart(now)+days.
// Days are clamped to [1, MaxSnoozeDays].
func (s *Service) Snooze(ctx context.Context, ownerID uuid.UUID, sourceType domain.SourceType, sourceID uuid.UUID, days int, timezone string) (time.Time, error) {
	if !sourceType.IsValid() {
		return time.Time{}, domain.NewValidationError("sourceType", "unknown source type")
	}
	if days < 1 {
		days = 1
	}
	if days > s.opts.MaxSnoozeDays {
		days = s.opts.MaxSnoozeDays
	}

	loc := ParseTimezone(s.timezoneOrDefault(timezone))
	until := DayStart(s.now(), loc).AddDate(0, 0, days)

	var err error
	switch sourceType {
	case domain.SourceTypeChore:
		err = s.chores.SetSnoozedUntil(ctx, ownerID, sourceID, until)
	default:
		err = s.routines.SetSnoozedUntil(ctx, ownerID, sourceID, until)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("snooze %s %s: %w", sourceType, sourceID, err)
	}
	return until, nil
}

// ---------------------------------------------------------------------------
// Policy application
// ---------------------------------------------------------------------------

// ApplyOutcome applies the source's scheduling policy to one unresolved
// occurrence: transition the instance, and for roll_forward materialize the
// replacement occurrence on the next feasible day. Returns the decision that
// was applied.
func (s *Service) ApplyOutcome(ctx context.Context, ownerID uuid.UUID, instanceID string, outcome OccurrenceOutcome) (*PolicyDecision, error) {
	inst, err := s.instances.GetByID(ctx, ownerID, instanceID)
	if err != nil {
		return nil, fmt.Errorf("load instance %s: %w", instanceID, err)
	}
	if inst.Status.IsTerminal() {
		return nil, fmt.Errorf("instance %s is %s: %w", instanceID, inst.Status, domain.ErrConflict)
	}

	policy, recurrence, err := s.sourcePolicy(ctx, ownerID, inst.SourceType, inst.SourceID)
	if err != nil {
		return nil, err
	}

	decision := ResolvePolicy(*policy, outcome)
	now := s.now().UTC()
	loc := ParseTimezone(s.timezoneOrDefault(recurrence.Timezone))

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target := transitionFor(inst.Status, outcome, decision.Action)
		if err := Transition(inst, target, decision.Reason, now); err != nil {
			return err
		}
		if decision.Action == PolicyActionRetryWithFallback {
			inst.CandidateBlockIDs = decision.FallbackBlockIDs
		}
		if err := s.instances.Upsert(ctx, *inst); err != nil {
			return fmt.Errorf("update instance: %w", err)
		}

		if decision.Action != PolicyActionRetryLater {
			return nil
		}

		// Roll forward: materialize the next occurrence after this one's day.
		occurrence, perr := time.ParseInLocation(domain.DateLayout, inst.OccurrenceDate, loc)
		if perr != nil {
			return fmt.Errorf("instance %s occurrence date: %w", inst.ID, perr)
		}
		next, nerr := NextDue(*recurrence, occurrence.AddDate(0, 0, 1), loc)
		if nerr != nil {
			return nerr
		}
		if next == nil {
			// Rule exhausted; nothing to roll forward to.
			return nil
		}

		replacement := domain.ScheduledInstance{
			ID:               MakeInstanceID(inst.SourceType, inst.SourceID, DayStart(*next, loc)),
			OwnerID:          ownerID,
			SourceType:       inst.SourceType,
			SourceID:         inst.SourceID,
			OccurrenceDate:   ISODate(*next, loc),
			Priority:         inst.Priority,
			DurationMinutes:  inst.DurationMinutes,
			Status:           domain.InstanceStatusDraft,
			StatusReason:     decision.Reason,
			StatusUpdatedAt:  now,
			RequiredBlockIDs: inst.RequiredBlockIDs,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.instances.Upsert(ctx, replacement); err != nil {
			return fmt.Errorf("materialize replacement %s: %w", replacement.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &decision, nil
}

// transitionFor maps an outcome and the resolved action onto the target
// lifecycle state.
func transitionFor(from domain.InstanceStatus, outcome OccurrenceOutcome, action PolicyAction) domain.InstanceStatus {
	if outcome == OutcomeMissed {
		return domain.InstanceStatusMissed
	}
	// Blocked: a policy-driven drop becomes skipped where legal; everything
	// else parks as unscheduled for the next planning run.
	if action == PolicyActionDrop && CanTransition(from, domain.InstanceStatusSkipped) {
		return domain.InstanceStatusSkipped
	}
	return domain.InstanceStatusUnscheduled
}

func (s *Service) sourcePolicy(ctx context.Context, ownerID uuid.UUID, sourceType domain.SourceType, sourceID uuid.UUID) (*domain.SchedulingPolicy, *domain.RecurrenceDefinition, error) {
	switch sourceType {
	case domain.SourceTypeChore:
		chore, err := s.chores.GetByID(ctx, ownerID, sourceID)
		if err != nil {
			return nil, nil, fmt.Errorf("load chore %s: %w", sourceID, err)
		}
		return &chore.Policy, &chore.Recurrence, nil
	case domain.SourceTypeRoutine:
		routine, err := s.routines.GetByID(ctx, ownerID, sourceID)
		if err != nil {
			return nil, nil, fmt.Errorf("load routine %s: %w", sourceID, err)
		}
		return &routine.Policy, &routine.Recurrence, nil
	default:
		return nil, nil, domain.NewValidationError("sourceType", "unknown source type")
	}
}

// ---------------------------------------------------------------------------
// Source item writes
// ---------------------------------------------------------------------------

// CreateBlock validates and persists a new availability block.
func (s *Service) CreateBlock(ctx context.Context, ownerID uuid.UUID, block domain.Block) (*domain.Block, error) {
	block.ID = uuid.New()
	block.OwnerID = ownerID
	now := s.now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now

	if err := block.Validate(); err != nil {
		return nil, err
	}
	created, err := s.blocks.Create(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	return created, nil
}

// CreateChore validates and persists a new chore. Referenced block ids —
// required, eligible, and escalation fallbacks — must exist and belong to
// the owner; dangling references are rejected at write time rather than
// surfacing as solver failures later.
func (s *Service) CreateChore(ctx context.Context, ownerID uuid.UUID, chore domain.Chore) (*domain.Chore, error) {
	chore.ID = uuid.New()
	chore.OwnerID = ownerID
	now := s.now().UTC()
	chore.CreatedAt = now
	chore.UpdatedAt = now

	if err := chore.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkBlockRefs(ctx, ownerID, chore.RequiredBlockIDs, chore.EligibleBlockIDs, chore.Policy.EscalateBlockIDs); err != nil {
		return nil, err
	}

	created, err := s.chores.Create(ctx, chore)
	if err != nil {
		return nil, fmt.Errorf("create chore: %w", err)
	}
	return created, nil
}

// CreateRoutine validates and persists a new routine, with the same block
// reference checks as CreateChore.
func (s *Service) CreateRoutine(ctx context.Context, ownerID uuid.UUID, routine domain.Routine) (*domain.Routine, error) {
	routine.ID = uuid.New()
	routine.OwnerID = ownerID
	now := s.now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now

	if err := routine.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkBlockRefs(ctx, ownerID, routine.RequiredBlockIDs, routine.EligibleBlockIDs, routine.Policy.EscalateBlockIDs); err != nil {
		return nil, err
	}

	created, err := s.routines.Create(ctx, routine)
	if err != nil {
		return nil, fmt.Errorf("create routine: %w", err)
	}
	return created, nil
}

func (s *Service) checkBlockRefs(ctx context.Context, ownerID uuid.UUID, idLists ...[]uuid.UUID) error {
	var all []uuid.UUID
	for _, ids := range idLists {
		all = append(all, ids...)
	}
	if len(all) == 0 {
		return nil
	}

	exist, err := s.blocks.ExistByIDs(ctx, ownerID, all)
	if err != nil {
		return fmt.Errorf("check block references: %w", err)
	}
	for _, id := range all {
		if !exist[id] {
			return domain.NewValidationError("blockIds", "unknown or foreign block "+id.String())
		}
	}
	return nil
}

func (s *Service) timezoneOrDefault(tz string) string {
	if tz != "" {
		return tz
	}
	return s.opts.DefaultTimezone
}
