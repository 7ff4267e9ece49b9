package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/domain"
)

// PreviewInput holds everything candidate assembly needs. Pure value — the
// builder performs no I/O and mutates none of the inputs.
type PreviewInput struct {
	Day      time.Time
	Location *time.Location
	Now      time.Time
	Blocks   []domain.Block
	Chores   []domain.Chore
	Routines []domain.Routine
	// BusyMinutesByBlock charges pre-existing busy time against block
	// capacity before any candidate is considered.
	BusyMinutesByBlock map[uuid.UUID]int
}

// sourceItem is the common scheduling surface of chores and routines.
type sourceItem struct {
	Type             domain.SourceType
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Priority         int
	EstimatedMinutes int
	RequiredBlockIDs []uuid.UUID
	EligibleBlockIDs []uuid.UUID
	Recurrence       domain.RecurrenceDefinition
	Snoozed          bool
}

// BuildPreview assembles the candidate feasible placements for one calendar
// day: which sources are due, which blocks could host them, and every
// collision found along the way. It feeds the external optimizer; it does
// not solve.
func BuildPreview(in PreviewInput) domain.SchedulePreview {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	dayStart := DayStart(in.Day, loc)
	nextDay := NextDayStart(in.Day, loc)
	dayKey := DayKey(in.Day, loc)

	preview := domain.SchedulePreview{
		Instances: []domain.ScheduledInstance{},
		Unplaced:  []domain.UnplacedSource{},
		Conflicts: []domain.SchedulingConflict{},
	}

	blocks := orderedEnabledBlocks(in.Blocks)
	blockByID := make(map[uuid.UUID]domain.Block, len(blocks))
	for _, b := range blocks {
		blockByID[b.ID] = b
	}

	usedMinutes := make(map[uuid.UUID]int, len(in.BusyMinutesByBlock))
	for id, m := range in.BusyMinutesByBlock {
		usedMinutes[id] = m
	}

	for _, src := range collectSources(in, dayStart) {
		if src.Snoozed {
			continue
		}

		next, err := NextDue(src.Recurrence, dayStart, loc)
		if err != nil {
			preview.Conflicts = append(preview.Conflicts, domain.SchedulingConflict{
				Reason:     domain.ConflictReasonUnknown,
				SourceType: src.Type,
				SourceID:   src.ID,
				DayKey:     dayKey,
				Detail:     err.Error(),
			})
			preview.Unplaced = append(preview.Unplaced, domain.UnplacedSource{
				SourceType: src.Type,
				SourceID:   src.ID,
				DayKey:     dayKey,
				Reason:     domain.ConflictReasonUnknown,
			})
			continue
		}
		if next == nil || !next.Before(nextDay) {
			// Not due today.
			continue
		}

		candidates := candidateBlocks(src, blocks, blockByID)

		var (
			feasible    []uuid.UUID
			primary     *domain.Block
			duration    int
			sawQuiet    bool
			sawBusy     bool
			sawCapacity bool
		)

		for i := range candidates {
			block := candidates[i]
			need := clampDuration(src.EstimatedMinutes, block)

			_, reason := firstFeasibleSlot(block, in.Day, loc, need, usedMinutes, in.BusyMinutesByBlock)
			switch reason {
			case domain.ConflictReasonQuietHours:
				sawQuiet = true
				preview.Conflicts = append(preview.Conflicts, domain.SchedulingConflict{
					Reason:     domain.ConflictReasonQuietHours,
					SourceType: src.Type,
					SourceID:   src.ID,
					BlockID:    &block.ID,
					DayKey:     dayKey,
				})
				continue
			case domain.ConflictReasonBusy:
				sawBusy = true
				preview.Conflicts = append(preview.Conflicts, domain.SchedulingConflict{
					Reason:     domain.ConflictReasonBusy,
					SourceType: src.Type,
					SourceID:   src.ID,
					BlockID:    &block.ID,
					DayKey:     dayKey,
				})
				continue
			case domain.ConflictReasonCapacity:
				sawCapacity = true
				preview.Conflicts = append(preview.Conflicts, domain.SchedulingConflict{
					Reason:     domain.ConflictReasonCapacity,
					SourceType: src.Type,
					SourceID:   src.ID,
					BlockID:    &block.ID,
					DayKey:     dayKey,
				})
				continue
			case domain.ConflictReasonNoBlock:
				continue
			}

			feasible = append(feasible, block.ID)
			if primary == nil {
				b := block
				primary = &b
				duration = need
				// The primary candidate is the likely placement; charge its
				// capacity so later sources see the remaining budget.
				usedMinutes[block.ID] += need
			}
		}

		if primary == nil {
			reason := domain.ConflictReasonNoBlock
			if sawQuiet {
				reason = domain.ConflictReasonQuietHours
			} else if sawBusy {
				reason = domain.ConflictReasonBusy
			} else if sawCapacity {
				reason = domain.ConflictReasonCapacity
			}
			preview.Unplaced = append(preview.Unplaced, domain.UnplacedSource{
				SourceType: src.Type,
				SourceID:   src.ID,
				DayKey:     dayKey,
				Reason:     reason,
			})
			continue
		}

		blockPriority := primary.Priority
		preview.Instances = append(preview.Instances, domain.ScheduledInstance{
			ID:                  MakeInstanceID(src.Type, src.ID, dayStart),
			OwnerID:             src.OwnerID,
			SourceType:          src.Type,
			SourceID:            src.ID,
			OccurrenceDate:      dayStart.Format(domain.DateLayout),
			Priority:            src.Priority,
			DurationMinutes:     duration,
			BufferBeforeMinutes: primary.BufferBeforeMinutes,
			BufferAfterMinutes:  primary.BufferAfterMinutes,
			Status:              domain.InstanceStatusDraft,
			StatusUpdatedAt:     in.Now.UTC(),
			RequiredBlockIDs:    src.RequiredBlockIDs,
			CandidateBlockIDs:   feasible,
			Context: domain.SchedulingContext{
				BlockPriority: &blockPriority,
			},
		})
	}

	return preview
}

// orderedEnabledBlocks filters to enabled blocks and orders them by priority
// (lower wins), ties broken by id for stability.
func orderedEnabledBlocks(blocks []domain.Block) []domain.Block {
	out := make([]domain.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Enabled {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// collectSources flattens chores and routines into the common scheduling
// surface, ordered by priority then id for a deterministic result.
func collectSources(in PreviewInput, dayStart time.Time) []sourceItem {
	items := make([]sourceItem, 0, len(in.Chores)+len(in.Routines))

	for _, c := range in.Chores {
		if !c.Enabled {
			continue
		}
		items = append(items, sourceItem{
			Type:             domain.SourceTypeChore,
			ID:               c.ID,
			OwnerID:          c.OwnerID,
			Priority:         c.Priority,
			EstimatedMinutes: c.EstimatedMinutes,
			RequiredBlockIDs: c.RequiredBlockIDs,
			EligibleBlockIDs: c.EligibleBlockIDs,
			Recurrence:       c.Recurrence,
			Snoozed:          c.IsSnoozed(dayStart),
		})
	}
	for _, r := range in.Routines {
		if !r.Enabled {
			continue
		}
		items = append(items, sourceItem{
			Type:             domain.SourceTypeRoutine,
			ID:               r.ID,
			OwnerID:          r.OwnerID,
			Priority:         r.Priority,
			EstimatedMinutes: r.EstimatedMinutes,
			RequiredBlockIDs: r.RequiredBlockIDs,
			EligibleBlockIDs: r.EligibleBlockIDs,
			Recurrence:       r.Recurrence,
			Snoozed:          r.IsSnoozed(dayStart),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items
}

// candidateBlocks resolves the block ids a source may be placed into, in
// block priority order: required ids bind hard, then eligible ids, then any
// enabled block when the source names none.
func candidateBlocks(src sourceItem, ordered []domain.Block, byID map[uuid.UUID]domain.Block) []domain.Block {
	ids := src.RequiredBlockIDs
	if len(ids) == 0 {
		ids = src.EligibleBlockIDs
	}
	if len(ids) == 0 {
		return ordered
	}

	out := make([]domain.Block, 0, len(ids))
	for _, b := range ordered {
		for _, id := range ids {
			if b.ID == id {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// clampDuration fits the source's estimate into the block's per-occupant
// bounds.
func clampDuration(estimated int, block domain.Block) int {
	d := estimated
	if block.MinDurationMinutes > 0 && d < block.MinDurationMinutes {
		d = block.MinDurationMinutes
	}
	if block.MaxDurationMinutes > 0 && d > block.MaxDurationMinutes {
		d = block.MaxDurationMinutes
	}
	return d
}

// firstFeasibleSlot finds the earliest window slot on the block that can
// host a placement of the given length, honoring quiet hours and daily
// capacity. Capacity exhaustion caused by pre-existing busy time alone is
// reported as busy, not capacity. The zero reason means a slot was found;
// ConflictReasonNoBlock means the block simply has no window today.
func firstFeasibleSlot(block domain.Block, day time.Time, loc *time.Location, need int, usedMinutes, busyMinutes map[uuid.UUID]int) (WindowSlot, domain.ConflictReason) {
	slots := ExpandWindows(block, day, loc)
	if len(slots) == 0 {
		return WindowSlot{}, domain.ConflictReasonNoBlock
	}

	var quiet []domain.QuietWindow
	if block.Constraints != nil {
		quiet = block.Constraints.QuietHours
	}

	sawQuiet := false
	for _, slot := range slots {
		if need > slot.Minutes() {
			continue
		}
		if block.DailyCapacityMinutes > 0 && usedMinutes[block.ID]+need > block.DailyCapacityMinutes {
			if usedMinutes[block.ID]-busyMinutes[block.ID]+need <= block.DailyCapacityMinutes {
				return WindowSlot{}, domain.ConflictReasonBusy
			}
			return WindowSlot{}, domain.ConflictReasonCapacity
		}
		candidateEnd := slot.Start.Add(time.Duration(need) * time.Minute)
		if OverlapsQuietHours(quiet, slot.Start, candidateEnd, loc) {
			sawQuiet = true
			continue
		}
		return slot, ""
	}

	if sawQuiet {
		return WindowSlot{}, domain.ConflictReasonQuietHours
	}
	return WindowSlot{}, domain.ConflictReasonNoBlock
}
