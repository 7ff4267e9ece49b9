package instance

import (
	"encoding/json"
	"fmt"

	"github.com/planvine/tempo-backend/internal/domain"
)

// Wire shapes for the jsonb columns. Domain types stay free of storage tags.
// Instants are integer epoch milliseconds on the wire; timestamptz columns
// are the store's own and stay native.

type contextJSON struct {
	BlockPriority *int   `json:"block_priority,omitempty"`
	SolverRunID   string `json:"solver_run_id,omitempty"`
	TieBreak      string `json:"tie_break,omitempty"`
}

type externalSyncJSON struct {
	CalendarEventID string `json:"calendar_event_id"`
	SyncedAt        *int64 `json:"synced_at,omitempty"`
}

func marshalInstanceJSON(inst domain.ScheduledInstance) (contextData, syncData []byte, err error) {
	contextData, err = json.Marshal(contextJSON{
		BlockPriority: inst.Context.BlockPriority,
		SolverRunID:   inst.Context.SolverRunID,
		TieBreak:      inst.Context.TieBreak,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal instance context: %w", err)
	}

	if inst.ExternalSync != nil {
		syncData, err = json.Marshal(externalSyncJSON{
			CalendarEventID: inst.ExternalSync.CalendarEventID,
			SyncedAt:        domain.TimeMillisPtr(inst.ExternalSync.SyncedAt),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("marshal instance external sync: %w", err)
		}
	}
	return contextData, syncData, nil
}

func unmarshalInstanceJSON(contextData, syncData []byte) (domain.SchedulingContext, *domain.ExternalSyncState, error) {
	var schedCtx domain.SchedulingContext
	if len(contextData) > 0 {
		var wire contextJSON
		if err := json.Unmarshal(contextData, &wire); err != nil {
			return domain.SchedulingContext{}, nil, fmt.Errorf("unmarshal instance context: %w", err)
		}
		schedCtx = domain.SchedulingContext{
			BlockPriority: wire.BlockPriority,
			SolverRunID:   wire.SolverRunID,
			TieBreak:      wire.TieBreak,
		}
	}

	var sync *domain.ExternalSyncState
	if len(syncData) > 0 {
		var wire externalSyncJSON
		if err := json.Unmarshal(syncData, &wire); err != nil {
			return domain.SchedulingContext{}, nil, fmt.Errorf("unmarshal instance external sync: %w", err)
		}
		sync = &domain.ExternalSyncState{
			CalendarEventID: wire.CalendarEventID,
			SyncedAt:        domain.MillisToTimePtr(wire.SyncedAt),
		}
	}
	return schedCtx, sync, nil
}
