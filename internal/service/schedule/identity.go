package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/domain"
)

// Deterministic identifier derivation. Replaying the same planning request
// resolves to the same record locations, so re-running planning overwrites
// instead of duplicating. Identity collisions between replays are the
// mechanism, not an error.

// MakePlanID derives the one-plan-per-owner-per-day identifier:
// "yyyyMMdd-ownerId".
func MakePlanID(ownerID string, day time.Time) string {
	return day.Format(domain.DayKeyLayout) + "-" + ownerID
}

// MakeAssignmentID derives a stable short id for a (plan, item) pair: a
// deterministic 32-bit rolling hash over the concatenated inputs, rendered
// base-36.
func MakeAssignmentID(planID, itemType, itemID string) string {
	h := uint32(5381)
	for _, b := range []byte(planID + "|" + itemType + "|" + itemID) {
		h = h*33 + uint32(b)
	}
	return strconv.FormatUint(uint64(h), 36)
}

// MakeInstanceID derives the scheduled-instance identifier enforcing the
// one-instance-per-(source, day) invariant: "{type}_{sourceId}_{dayKey}".
func MakeInstanceID(sourceType domain.SourceType, sourceID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s_%s_%s", sourceType, sourceID, day.Format(domain.DayKeyLayout))
}

// PlanJobKey derives the planning-job record key: "{ownerId}__{dateISO}".
func PlanJobKey(ownerID uuid.UUID, planningDate string) string {
	return ownerID.String() + "__" + planningDate
}
