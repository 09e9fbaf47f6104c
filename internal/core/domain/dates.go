package domain

import (
	"math"
	"time"
)

// DateOnly truncates t to its calendar date (midnight UTC). Borrow, due and
// return dates carry no time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. Negative when b
// is earlier than a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// RoundMoney rounds an amount to two decimal places. Applied only at the
// reporting boundary; intermediate accumulation stays unrounded.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
