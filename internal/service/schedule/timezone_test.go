package schedule

import (
	"testing"
	"time"
)

func TestDayStart(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		tz       string
		wantHour int
		wantDay  int
	}{
		{
			name:     "UTC midnight",
			now:      time.Date(2025, 9, 8, 12, 30, 0, 0, time.UTC),
			tz:       "UTC",
			wantHour: 0,
			wantDay:  8,
		},
		{
			name:     "America/New_York",
			now:      time.Date(2025, 9, 8, 12, 30, 0, 0, time.UTC),
			tz:       "America/New_York",
			wantHour: 4, // EDT is UTC-4, so midnight EDT = 4:00 UTC
			wantDay:  8,
		},
		{
			name:     "Asia/Tokyo",
			now:      time.Date(2025, 9, 8, 12, 30, 0, 0, time.UTC),
			tz:       "Asia/Tokyo",
			wantHour: 15, // JST is UTC+9, so midnight JST = 15:00 prev day UTC
			wantDay:  7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := ParseTimezone(tt.tz)
			result := DayStart(tt.now, loc)

			utc := result.UTC()
			if utc.Hour() != tt.wantHour {
				t.Errorf("DayStart() UTC hour = %d, want %d", utc.Hour(), tt.wantHour)
			}
			if utc.Day() != tt.wantDay {
				t.Errorf("DayStart() UTC day = %d, want %d", utc.Day(), tt.wantDay)
			}
			if result.Minute() != 0 || result.Second() != 0 {
				t.Errorf("DayStart() should be at 00:00:00 local, got %02d:%02d:%02d",
					result.Hour(), result.Minute(), result.Second())
			}
		})
	}
}

func TestNextDayStart(t *testing.T) {
	now := time.Date(2025, 9, 8, 12, 30, 0, 0, time.UTC)

	next := NextDayStart(now, time.UTC)
	day := DayStart(now, time.UTC)

	if diff := next.Sub(day); diff != 24*time.Hour {
		t.Errorf("NextDayStart should be 24h after DayStart in UTC, got %v", diff)
	}
}

func TestNextDayStart_DSTTransition(t *testing.T) {
	loc := ParseTimezone("America/New_York")
	// 2025-11-02 is the fall-back day in the US: 25 wall-clock hours long.
	now := time.Date(2025, 11, 2, 12, 0, 0, 0, loc)

	next := NextDayStart(now, loc)
	day := DayStart(now, loc)

	if diff := next.Sub(day); diff != 25*time.Hour {
		t.Errorf("fall-back day should span 25h, got %v", diff)
	}
	if next.Hour() != 0 {
		t.Errorf("NextDayStart must land on local midnight, got hour %d", next.Hour())
	}
}

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name  string
		tz    string
		valid bool
	}{
		{"valid UTC", "UTC", true},
		{"valid New York", "America/New_York", true},
		{"invalid", "Invalid/Timezone", false},
		{"empty falls back to UTC", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := ParseTimezone(tt.tz)
			if loc == nil {
				t.Fatal("ParseTimezone returned nil")
			}
			if !tt.valid && loc != time.UTC {
				t.Errorf("invalid timezone should fall back to UTC, got %v", loc)
			}
		})
	}
}

func TestDayKeyAndISODate(t *testing.T) {
	ts := time.Date(2025, 9, 8, 23, 30, 0, 0, time.UTC)
	loc := ParseTimezone("Asia/Tokyo")

	// 23:30 UTC is already Sep 9 in Tokyo
	if got := DayKey(ts, loc); got != "20250909" {
		t.Errorf("DayKey() = %s, want 20250909", got)
	}
	if got := ISODate(ts, loc); got != "2025-09-09" {
		t.Errorf("ISODate() = %s, want 2025-09-09", got)
	}
	if got := DayKey(ts, time.UTC); got != "20250908" {
		t.Errorf("DayKey() UTC = %s, want 20250908", got)
	}
}
