// Package clock resolves calendar days in the configured business time zone.
package clock

import "time"

// Today is the calendar date of now in loc, at midnight UTC so it compares
// cleanly with DATE columns. A nil loc means UTC.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// TodayFrom calls now when set and falls back to the wall clock otherwise.
func TodayFrom(now func() time.Time, loc *time.Location) time.Time {
	if now == nil {
		now = time.Now
	}
	return Today(now(), loc)
}
