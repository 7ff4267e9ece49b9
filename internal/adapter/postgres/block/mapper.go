package block

import (
	"encoding/json"
	"fmt"

	postgres "github.com/planvine/tempo-backend/internal/adapter/postgres"
	"github.com/planvine/tempo-backend/internal/domain"
)

// JSONB shapes for the windows and constraints columns. Domain types carry
// no json tags; renaming a tag here is a data migration.

type windowJSON struct {
	Weekdays  []int  `json:"weekdays"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type quietWindowJSON struct {
	Weekdays  []int  `json:"weekdays,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type constraintsJSON struct {
	RequiredLocation   string            `json:"required_location,omitempty"`
	QuietHours         []quietWindowJSON `json:"quiet_hours,omitempty"`
	RequiredDeviceTags []string          `json:"required_device_tags,omitempty"`
	RequiredTags       []string          `json:"required_tags,omitempty"`
	ExcludedTags       []string          `json:"excluded_tags,omitempty"`
}

func marshalBlockJSON(block domain.Block) (recurrence, windows, constraints []byte, err error) {
	recurrence, err = postgres.MarshalRecurrence(block.Recurrence)
	if err != nil {
		return nil, nil, nil, err
	}

	ws := make([]windowJSON, len(block.Windows))
	for i, w := range block.Windows {
		ws[i] = windowJSON{
			Weekdays:  w.Weekdays,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			StartDate: w.StartDate,
			EndDate:   w.EndDate,
		}
	}
	windows, err = json.Marshal(ws)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal windows: %w", err)
	}

	if block.Constraints != nil {
		c := constraintsJSON{
			RequiredLocation:   block.Constraints.RequiredLocation,
			RequiredDeviceTags: block.Constraints.RequiredDeviceTags,
			RequiredTags:       block.Constraints.RequiredTags,
			ExcludedTags:       block.Constraints.ExcludedTags,
		}
		for _, q := range block.Constraints.QuietHours {
			c.QuietHours = append(c.QuietHours, quietWindowJSON{
				Weekdays:  q.Weekdays,
				StartTime: q.StartTime,
				EndTime:   q.EndTime,
			})
		}
		constraints, err = json.Marshal(c)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal constraints: %w", err)
		}
	}

	return recurrence, windows, constraints, nil
}

func unmarshalWindows(data []byte) ([]domain.BlockWindow, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var ws []windowJSON
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal windows: %w", err)
	}

	out := make([]domain.BlockWindow, len(ws))
	for i, w := range ws {
		out[i] = domain.BlockWindow{
			Weekdays:  w.Weekdays,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			StartDate: w.StartDate,
			EndDate:   w.EndDate,
		}
	}
	return out, nil
}

func unmarshalConstraints(data []byte) (*domain.BlockConstraints, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var c constraintsJSON
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal constraints: %w", err)
	}

	out := &domain.BlockConstraints{
		RequiredLocation:   c.RequiredLocation,
		RequiredDeviceTags: c.RequiredDeviceTags,
		RequiredTags:       c.RequiredTags,
		ExcludedTags:       c.ExcludedTags,
	}
	for _, q := range c.QuietHours {
		out.QuietHours = append(out.QuietHours, domain.QuietWindow{
			Weekdays:  q.Weekdays,
			StartTime: q.StartTime,
			EndTime:   q.EndTime,
		})
	}
	return out, nil
}
