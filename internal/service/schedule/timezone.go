package schedule

import (
	"time"

	"github.com/planvine/tempo-backend/internal/domain"
)

// Timezones are threaded explicitly through every evaluator in this package.
// Nothing here reads the process-local zone; behavior is reproducible in
// tests and across environments.

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayStart returns local midnight of the day containing t in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// NextDayStart returns local midnight of the following day.
// AddDate handles DST correctly, Add(24h) does not.
func NextDayStart(t time.Time, loc *time.Location) time.Time {
	return DayStart(t, loc).AddDate(0, 0, 1)
}

// DayKey returns the compact yyyyMMdd key for t's local day.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(domain.DayKeyLayout)
}

// ISODate returns the yyyy-MM-dd date for t's local day.
func ISODate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(domain.DateLayout)
}
