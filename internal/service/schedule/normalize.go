package schedule

import (
	"fmt"
	"strings"

	"github.com/planvine/tempo-backend/internal/domain"
)

// LegacyRecurrence is the loose recurrence shape produced by older imports:
// a frequency word, an interval, and lowercase weekday names.
type LegacyRecurrence struct {
	Frequency string // "daily", "weekly", "monthly", "yearly"
	Interval  int
	Weekdays  []string // "mon" … "sun"; weekly only
}

var byDayCodes = map[string]string{
	"mon": "MO", "tue": "TU", "wed": "WE", "thu": "TH",
	"fri": "FR", "sat": "SA", "sun": "SU",
}

// NormalizeRecurrence lifts a legacy loose recurrence into canonical RRULE
// text. Unknown frequencies and weekday names are rejected rather than
// silently dropped.
func NormalizeRecurrence(legacy LegacyRecurrence) (string, error) {
	var freq string
	switch strings.ToLower(strings.TrimSpace(legacy.Frequency)) {
	case "daily":
		freq = "DAILY"
	case "weekly":
		freq = "WEEKLY"
	case "monthly":
		freq = "MONTHLY"
	case "yearly", "annually":
		freq = "YEARLY"
	default:
		return "", fmt.Errorf("unknown frequency %q: %w", legacy.Frequency, domain.ErrInvalidRecurrence)
	}

	parts := []string{"FREQ=" + freq}

	if legacy.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", legacy.Interval))
	}

	if freq == "WEEKLY" && len(legacy.Weekdays) > 0 {
		codes := make([]string, 0, len(legacy.Weekdays))
		for _, d := range legacy.Weekdays {
			code, ok := byDayCodes[strings.ToLower(strings.TrimSpace(d))]
			if !ok {
				return "", fmt.Errorf("unknown weekday %q: %w", d, domain.ErrInvalidRecurrence)
			}
			codes = append(codes, code)
		}
		parts = append(parts, "BYDAY="+strings.Join(codes, ","))
	}

	return strings.Join(parts, ";"), nil
}
