// Package biztime centralizes time handling for billing operations.
// All persisted timestamps are UTC.
package biztime

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// AddMonths advances t by the given number of calendar months, clamping the
// day so that e.g. Jan 31 + 1 month yields Feb 28/29 rather than Mar 2/3.
// Billing periods must never spill into the month after the intended one.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	lastDay := daysIn(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// AddYears advances t by the given number of years with the same day clamping
// as AddMonths (Feb 29 on a non-leap target year becomes Feb 28).
func AddYears(t time.Time, years int) time.Time {
	return AddMonths(t, years*12)
}

// DaysUntil returns the number of whole days from `from` until `until`,
// rounding partial days up. Returns 0 when until is not after from.
func DaysUntil(from, until time.Time) int {
	d := until.Sub(from)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
