package schedule

import (
	"time"

	"github.com/planvine/tempo-backend/internal/domain"
)

// WindowSlot is one concrete availability interval produced by expanding a
// block window against a calendar day.
type WindowSlot struct {
	Window domain.BlockWindow
	Start  time.Time
	End    time.Time
}

// Minutes returns the slot length in whole minutes.
func (s WindowSlot) Minutes() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}

// ExpandWindows produces the absolute time intervals during which the block
// is open on the given calendar day, anchored at local midnight in loc.
//
// A window survives only if the day's ISO weekday is in its weekday set and
// the day falls inside its bounding dates. Pure function: identical inputs
// produce an identical, order-stable result (input window order is kept).
func ExpandWindows(block domain.Block, day time.Time, loc *time.Location) []WindowSlot {
	if loc == nil {
		loc = time.UTC
	}

	midnight := DayStart(day, loc)
	weekday := domain.ISOWeekday(midnight)
	date := midnight.Format(domain.DateLayout)

	slots := make([]WindowSlot, 0, len(block.Windows))
	for _, w := range block.Windows {
		if !containsWeekday(w.Weekdays, weekday) {
			continue
		}
		// DateLayout strings order lexicographically.
		if w.StartDate != "" && w.StartDate > date {
			continue
		}
		if w.EndDate != "" && w.EndDate < date {
			continue
		}

		start, err := clockOffset(w.StartTime)
		if err != nil {
			continue
		}
		end, err := clockOffset(w.EndTime)
		if err != nil {
			continue
		}

		slots = append(slots, WindowSlot{
			Window: w,
			Start:  midnight.Add(start),
			End:    midnight.Add(end),
		})
	}

	return slots
}

func containsWeekday(weekdays []int, wd int) bool {
	for _, d := range weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// clockOffset parses an "HH:mm" wall-clock string into an offset from
// midnight.
func clockOffset(clock string) (time.Duration, error) {
	t, err := time.Parse(domain.ClockLayout, clock)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
