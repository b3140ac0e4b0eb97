package utils

import "time"

// StartOfWeek returns Monday 00:00:00 of the week containing now, in loc.
// Sunday belongs to the week that started six days earlier.
func StartOfWeek(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	offset := int(local.Weekday()) - int(time.Monday)
	if local.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := local.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// MonthRange returns [first day 00:00, first day of next month 00:00) for the
// month containing now, in loc.
func MonthRange(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// ParseDeadline accepts an RFC3339 timestamp or a plain YYYY-MM-DD date, the
// latter read as midnight in loc.
func ParseDeadline(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}
