package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/planvine/tempo-backend/internal/domain"
)

// anchorLayout is the compact UTC basic format used for synthesized DTSTART
// lines: yyyyMMdd'T'HHmmss'Z'.
const anchorLayout = "20060102T150405Z"

// NextDue evaluates a recurrence definition and returns the first occurrence
// at or after from (inclusive). A zero from means "now".
//
// The result is tagged rather than swallowed:
//   - (t, nil)   — the next occurrence
//   - (nil, nil) — the rule is legitimately exhausted, nothing left to schedule
//   - (nil, err) — the rule text is malformed; err wraps domain.ErrInvalidRecurrence
//
// If the rule text carries no DTSTART and the definition supplies an anchor,
// one is synthesized before evaluation. Explicit exception dates are skipped,
// compared against the occurrence's calendar day in loc.
func NextDue(def domain.RecurrenceDefinition, from time.Time, loc *time.Location) (*time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if from.IsZero() {
		from = time.Now().UTC()
	}

	text, err := normalizeRuleText(def)
	if err != nil {
		return nil, err
	}

	set, err := rrule.StrToRRuleSet(text)
	if err != nil {
		return nil, fmt.Errorf("parse recurrence %q: %w", def.Rule, domain.ErrInvalidRecurrence)
	}

	next := set.After(from, true)
	for !next.IsZero() && def.IsException(next.In(loc).Format(domain.DateLayout)) {
		next = set.After(next, false)
	}
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// normalizeRuleText turns a RecurrenceDefinition into the multi-line iCalendar
// fragment the rule engine expects. Bare rule bodies ("FREQ=DAILY") gain an
// RRULE: prefix; a missing DTSTART is synthesized from the anchor when one is
// supplied.
func normalizeRuleText(def domain.RecurrenceDefinition) (string, error) {
	raw := strings.TrimSpace(def.Rule)
	if raw == "" {
		return "", fmt.Errorf("empty recurrence rule: %w", domain.ErrInvalidRecurrence)
	}

	var lines []string
	hasAnchor := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "DTSTART"):
			hasAnchor = true
		case strings.HasPrefix(upper, "RRULE"),
			strings.HasPrefix(upper, "EXDATE"),
			strings.HasPrefix(upper, "RDATE"),
			strings.HasPrefix(upper, "EXRULE"):
			// already a property line
		default:
			line = "RRULE:" + line
		}
		lines = append(lines, line)
	}

	if !hasAnchor && def.Anchor != nil {
		anchor := "DTSTART:" + def.Anchor.UTC().Format(anchorLayout)
		lines = append([]string{anchor}, lines...)
	}

	return strings.Join(lines, "\n"), nil
}
