package domain

import "time"

// DateLayout is the wire form of a civil date (dedup keys, exports).
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date in t's own location and returns it as UTC midnight.
// All scheduling arithmetic is done on values produced by DateOf.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a civil date by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return DateOf(date).AddDate(0, 0, n)
}
