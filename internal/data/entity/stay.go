package entity

import "time"

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds calendar months to a date. When the target month is shorter
// than the source day, the result is clamped to the last day of that month
// (2024-01-31 + 1 month = 2024-02-29).
func AddMonths(date time.Time, months int) time.Time {
	date = DateOnly(date)
	y, m, d := date.Date()

	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// CheckOutDate derives the exclusive end of a stay.
func CheckOutDate(checkIn time.Time, durationMonths int) time.Time {
	return AddMonths(checkIn, durationMonths)
}

// IntervalsOverlap reports whether [a1,a2) and [b1,b2) share any instant.
func IntervalsOverlap(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}
