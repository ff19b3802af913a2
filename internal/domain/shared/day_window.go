package shared

import "time"

// DayWindow returns the half-open interval [startOfDay, endOfDay) containing t
// in the given location. All per-day aggregation (balance projection, daily
// reports, reconciliation) uses this window so the operating day boundary is
// consistent across components.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// DayWindowForDate is DayWindow for a calendar date given as year/month/day
// components, used when the caller holds a date rather than an instant.
func DayWindowForDate(year int, month time.Month, day int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
