package model

import "time"

// NotDue is returned by DaysToExpire when no warning is due.
const NotDue = -1

// WarningSchedule lists the day offsets before expiry on which a warning is
// sent. A credential is reported only when the remaining whole days equal one
// of these values exactly, so a once-daily run warns once per offset.
var WarningSchedule = []int{0, 1, 2, 3, 5, 7, 10, 14, 20, 25, 30}

// TruncateToDay returns midnight UTC of the calendar day t falls on in UTC.
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysToExpire returns the schedule offset d such that now + d days lands on
// the same UTC day as expiry. It returns NotDue when expiry is nil, already
// past, or between two scheduled offsets.
func DaysToExpire(now time.Time, expiry *time.Time) int {
	if expiry == nil {
		return NotDue
	}

	today := TruncateToDay(now)
	expiryDay := TruncateToDay(*expiry)

	for _, d := range WarningSchedule {
		if today.AddDate(0, 0, d).Equal(expiryDay) {
			return d
		}
	}

	return NotDue
}
