package domain

import "time"

// Instants cross wire boundaries as integer epoch milliseconds.
// Day-granularity values stay ISO date strings; these helpers cover the
// instants only.

// TimeMillis converts an instant to epoch milliseconds.
func TimeMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// MillisToTime converts epoch milliseconds back to a UTC instant.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// TimeMillisPtr converts an optional instant, preserving nil.
func TimeMillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// MillisToTimePtr converts an optional epoch-millis value, preserving nil.
func MillisToTimePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
