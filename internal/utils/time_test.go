package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodKeys(t *testing.T) {
	// 2021-01-01 belongs to ISO week 53 of 2020
	ts := time.Date(2021, time.January, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2020-W53", WeekKey(ts))
	assert.Equal(t, "2021-01", MonthKey(ts))
	assert.Equal(t, "2021", YearKey(ts))
	assert.Equal(t, "01.01.2021", FormatDate(ts))
	assert.Equal(t, "01.01.2021 10:00", FormatDateTime(ts))
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2026, time.October, 18, 21, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))

	monday := time.Date(2026, time.October, 12, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), StartOfWeek(monday))

	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(sunday))
}
