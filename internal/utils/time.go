package utils

import "time"

// truncates timestamp to the start of its hour in UTC
func GetHourBucket(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
}
