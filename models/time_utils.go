package models

import "time"

// MonthOf returns the calendar month of t as 1-12 in t's location
func MonthOf(t time.Time) int {
	return int(t.Month())
}
