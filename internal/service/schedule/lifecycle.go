package schedule

import (
	"fmt"
	"time"

	"github.com/planvine/tempo-backend/internal/domain"
)

// legalTransitions is the instance state machine. The domain layer defines
// what is legal; transitions are invoked by the external optimizer or by
// user action, never by a timer in this layer.
//
//	draft     → planned | unscheduled | cancelled
//	planned   → committed | missed | skipped | unscheduled | cancelled
//	committed → completed | missed | cancelled
//	unscheduled → planned | cancelled   (a replanning run retries it)
//
// completed, missed, skipped, cancelled are terminal.
var legalTransitions = map[domain.InstanceStatus][]domain.InstanceStatus{
	domain.InstanceStatusDraft: {
		domain.InstanceStatusPlanned,
		domain.InstanceStatusUnscheduled,
		domain.InstanceStatusCancelled,
	},
	domain.InstanceStatusPlanned: {
		domain.InstanceStatusCommitted,
		domain.InstanceStatusMissed,
		domain.InstanceStatusSkipped,
		domain.InstanceStatusUnscheduled,
		domain.InstanceStatusCancelled,
	},
	domain.InstanceStatusCommitted: {
		domain.InstanceStatusCompleted,
		domain.InstanceStatusMissed,
		domain.InstanceStatusCancelled,
	},
	domain.InstanceStatusUnscheduled: {
		domain.InstanceStatusPlanned,
		domain.InstanceStatusCancelled,
	},
}

// CanTransition reports whether the state machine permits from → to.
func CanTransition(from, to domain.InstanceStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequiresReason reports whether transitions into the state must carry a
// statusReason.
func RequiresReason(to domain.InstanceStatus) bool {
	return to == domain.InstanceStatusMissed || to == domain.InstanceStatusUnscheduled
}

// Transition moves the instance to the new status, stamping StatusUpdatedAt
// and recording the reason. Illegal transitions return
// domain.ErrIllegalTransition; transitions into missed or unscheduled
// without a reason are rejected as validation errors.
func Transition(inst *domain.ScheduledInstance, to domain.InstanceStatus, reason string, now time.Time) error {
	if !to.IsValid() {
		return domain.NewValidationError("status", fmt.Sprintf("unknown status %q", to))
	}
	if !CanTransition(inst.Status, to) {
		return fmt.Errorf("%s → %s: %w", inst.Status, to, domain.ErrIllegalTransition)
	}
	if reason == "" && RequiresReason(to) {
		return domain.NewValidationError("statusReason", fmt.Sprintf("required for transition into %s", to))
	}

	inst.Status = to
	inst.StatusReason = reason
	inst.StatusUpdatedAt = now.UTC()
	return nil
}
