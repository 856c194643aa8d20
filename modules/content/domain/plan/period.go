package plan

import "time"

// PeriodEnd returns the exclusive end of a subscription period of the given
// number of months. Day-of-month overflow clamps to the last day of the
// target month, so a period opened on Jan 31 ends on Feb 28 rather than
// rolling into March.
func PeriodEnd(start time.Time, months int) time.Time {
	year, month, day := start.Date()
	month += time.Month(months)

	first := time.Date(year, month, 1, 0, 0, 0, 0, start.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	hour, minute, sec := start.Clock()
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, start.Nanosecond(), start.Location())
}
