package schedule

import (
	"time"

	"github.com/planvine/tempo-backend/internal/domain"
)

// OverlapsQuietHours reports whether the candidate interval [start, end)
// collides with any of the quiet windows. Quiet windows are anchored to the
// candidate's local day in loc and compared half-open, so a candidate ending
// exactly when a quiet window starts does not overlap. The first matching
// window short-circuits.
//
// A window whose end is at or before its start spans midnight (22:00–06:00);
// such windows are also checked anchored to the previous day, since their
// tail reaches into the candidate's morning.
func OverlapsQuietHours(windows []domain.QuietWindow, start, end time.Time, loc *time.Location) bool {
	if len(windows) == 0 {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}

	midnight := DayStart(start, loc)

	for _, q := range windows {
		if overlapsAnchored(q, midnight, start, end) {
			return true
		}
		if isOvernight(q) && overlapsAnchored(q, midnight.AddDate(0, 0, -1), start, end) {
			return true
		}
	}
	return false
}

// overlapsAnchored checks one quiet window instance anchored at the given
// local midnight. Overlap holds when the candidate's start lies in
// [quietStart, quietEnd), its end lies strictly inside, or the quiet interval
// is fully contained within the candidate.
func overlapsAnchored(q domain.QuietWindow, midnight, start, end time.Time) bool {
	if len(q.Weekdays) > 0 && !containsWeekday(q.Weekdays, domain.ISOWeekday(midnight)) {
		return false
	}

	startOff, err := clockOffset(q.StartTime)
	if err != nil {
		return false
	}
	endOff, err := clockOffset(q.EndTime)
	if err != nil {
		return false
	}

	quietStart := midnight.Add(startOff)
	quietEnd := midnight.Add(endOff)
	if !quietEnd.After(quietStart) {
		quietEnd = quietEnd.AddDate(0, 0, 1)
	}

	if !start.Before(quietStart) && start.Before(quietEnd) {
		return true
	}
	if end.After(quietStart) && end.Before(quietEnd) {
		return true
	}
	if !quietStart.Before(start) && !quietEnd.After(end) {
		return true
	}
	return false
}

func isOvernight(q domain.QuietWindow) bool {
	startOff, err := clockOffset(q.StartTime)
	if err != nil {
		return false
	}
	endOff, err := clockOffset(q.EndTime)
	if err != nil {
		return false
	}
	return endOff <= startOff
}
