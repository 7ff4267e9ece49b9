package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/domain"
)

// JSONB serialization shapes shared by the entity repositories. Domain types
// carry no json tags; the adapter layer owns the wire format of every jsonb
// column. Renaming a tag here is a data migration.

type recurrenceJSON struct {
	Rule           string   `json:"rule"`
	Anchor         *string  `json:"anchor,omitempty"` // RFC 3339
	Timezone       string   `json:"timezone,omitempty"`
	ExceptionDates []string `json:"exception_dates,omitempty"`
	Source         string   `json:"source,omitempty"`
}

// MarshalRecurrence converts a domain recurrence definition to JSONB bytes.
func MarshalRecurrence(def domain.RecurrenceDefinition) ([]byte, error) {
	j := recurrenceJSON{
		Rule:           def.Rule,
		Timezone:       def.Timezone,
		ExceptionDates: def.ExceptionDates,
		Source:         string(def.Source),
	}
	if def.Anchor != nil {
		s := def.Anchor.UTC().Format(time.RFC3339)
		j.Anchor = &s
	}
	return json.Marshal(j)
}

// UnmarshalRecurrence converts JSONB bytes back to a domain recurrence
// definition.
func UnmarshalRecurrence(data []byte) (domain.RecurrenceDefinition, error) {
	var j recurrenceJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return domain.RecurrenceDefinition{}, fmt.Errorf("unmarshal recurrence: %w", err)
	}

	def := domain.RecurrenceDefinition{
		Rule:           j.Rule,
		Timezone:       j.Timezone,
		ExceptionDates: j.ExceptionDates,
		Source:         domain.RecurrenceSource(j.Source),
	}
	if j.Anchor != nil {
		t, err := time.Parse(time.RFC3339, *j.Anchor)
		if err != nil {
			return domain.RecurrenceDefinition{}, fmt.Errorf("unmarshal recurrence anchor: %w", err)
		}
		def.Anchor = &t
	}
	return def, nil
}

type policyJSON struct {
	Mode             string      `json:"mode"`
	GraceMinutes     int         `json:"grace_minutes,omitempty"`
	EscalateBlockIDs []uuid.UUID `json:"escalate_block_ids,omitempty"`
}

// MarshalPolicy converts a scheduling policy to JSONB bytes.
func MarshalPolicy(p domain.SchedulingPolicy) ([]byte, error) {
	return json.Marshal(policyJSON{
		Mode:             string(p.Mode),
		GraceMinutes:     p.GraceMinutes,
		EscalateBlockIDs: p.EscalateBlockIDs,
	})
}

// UnmarshalPolicy converts JSONB bytes back to a scheduling policy.
func UnmarshalPolicy(data []byte) (domain.SchedulingPolicy, error) {
	var j policyJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return domain.SchedulingPolicy{}, fmt.Errorf("unmarshal policy: %w", err)
	}
	return domain.SchedulingPolicy{
		Mode:             domain.PolicyMode(j.Mode),
		GraceMinutes:     j.GraceMinutes,
		EscalateBlockIDs: j.EscalateBlockIDs,
	}, nil
}

type metadataJSON struct {
	Version int               `json:"version"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MarshalMetadata converts a metadata bag to JSONB bytes. An unversioned bag
// is stamped with the current schema version on the way out.
func MarshalMetadata(m domain.Metadata) ([]byte, error) {
	if m.Version == 0 {
		m.Version = domain.MetadataVersion
	}
	return json.Marshal(metadataJSON{Version: m.Version, Fields: m.Fields})
}

// UnmarshalMetadata converts JSONB bytes back to a metadata bag.
func UnmarshalMetadata(data []byte) (domain.Metadata, error) {
	if len(data) == 0 {
		return domain.NewMetadata(), nil
	}
	var j metadataJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return domain.Metadata{}, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return domain.Metadata{Version: j.Version, Fields: j.Fields}, nil
}
