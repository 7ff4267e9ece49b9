package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/domain"
)

// PolicyAction is what the resolver tells the caller to do with an
// occurrence that could not be honored as planned.
type PolicyAction string

const (
	// PolicyActionRetryLater re-attempts the occurrence on the next
	// feasible day.
	PolicyActionRetryLater PolicyAction = "retry_later"
	// PolicyActionDrop abandons the occurrence; no replacement is generated.
	PolicyActionDrop PolicyAction = "drop"
	// PolicyActionRetryWithFallback re-attempts placement against the
	// policy's fallback block list.
	PolicyActionRetryWithFallback PolicyAction = "retry_with_fallback"
)

// OccurrenceOutcome describes why an occurrence was not honored.
type OccurrenceOutcome string

const (
	// OutcomeMissed means the grace window elapsed without completion.
	OutcomeMissed OccurrenceOutcome = "missed"
	// OutcomeBlocked means no placement was found in the occurrence's
	// required or eligible blocks.
	OutcomeBlocked OccurrenceOutcome = "blocked"
)

// PolicyDecision is the resolver's verdict plus the human-readable reason
// recorded on the instance's statusReason.
type PolicyDecision struct {
	Action           PolicyAction
	FallbackBlockIDs []uuid.UUID
	Reason           string
}

// ResolvePolicy interprets a source item's scheduling policy for one
// occurrence outcome. It decides, it does not execute — placement belongs to
// the external optimizer.
func ResolvePolicy(policy domain.SchedulingPolicy, outcome OccurrenceOutcome) PolicyDecision {
	switch policy.Mode {
	case domain.PolicyModeRollForward:
		return PolicyDecision{
			Action: PolicyActionRetryLater,
			Reason: fmt.Sprintf("policy roll_forward: %s occurrence retried on the next feasible day", outcome),
		}

	case domain.PolicyModeSkip:
		return PolicyDecision{
			Action: PolicyActionDrop,
			Reason: fmt.Sprintf("policy skip: %s occurrence dropped", outcome),
		}

	case domain.PolicyModeEscalate:
		// Escalation answers placement failure. A missed occurrence has
		// nothing to escalate to, so it is dropped.
		if outcome == OutcomeBlocked && len(policy.EscalateBlockIDs) > 0 {
			return PolicyDecision{
				Action:           PolicyActionRetryWithFallback,
				FallbackBlockIDs: policy.EscalateBlockIDs,
				Reason:           fmt.Sprintf("policy escalate: retrying against %d fallback block(s)", len(policy.EscalateBlockIDs)),
			}
		}
		return PolicyDecision{
			Action: PolicyActionDrop,
			Reason: fmt.Sprintf("policy escalate: no fallback placement for %s occurrence", outcome),
		}

	default:
		return PolicyDecision{
			Action: PolicyActionDrop,
			Reason: fmt.Sprintf("unknown policy mode %q: occurrence dropped", policy.Mode),
		}
	}
}

// WithinGrace reports whether now is still within the policy grace window
// after the planned start. At the boundary the occurrence may still be
// committed.
func WithinGrace(plannedStart, now time.Time, graceMinutes int) bool {
	deadline := plannedStart.Add(time.Duration(graceMinutes) * time.Minute)
	return !now.After(deadline)
}
