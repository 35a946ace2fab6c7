package utils

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
)

// FormatDate renders a day as DD.MM.YYYY
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateTime renders a timestamp as DD.MM.YYYY HH:MM
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// WeekKey returns the ISO week bucket key, e.g. 2026-W07
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey returns the calendar month bucket key, e.g. 2026-02
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// YearKey returns the calendar year bucket key
func YearKey(t time.Time) string {
	return t.Format("2006")
}

// StartOfWeek returns Monday 00:00 of t's ISO week in t's location
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first day of t's month at 00:00
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
