package timeday_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yomu-app/yomu_backend/internal/utils/timeday"
)

func TestCivilDate_TruncatesToMidnight(t *testing.T) {
	late := time.Date(2025, 3, 10, 23, 59, 0, 0, timeday.WIB)
	got := timeday.CivilDate(late, timeday.WIB)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, timeday.WIB), got)
}

func TestCivilDate_ConvertsZoneBeforeTruncating(t *testing.T) {
	// 20:00 UTC on March 10 is already March 11 in WIB
	utcEvening := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	got := timeday.CivilDate(utcEvening, timeday.WIB)

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, timeday.WIB), got)
}

func TestDaysUntil(t *testing.T) {
	due := time.Date(2025, 3, 17, 9, 0, 0, 0, timeday.WIB)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"a week before", time.Date(2025, 3, 10, 10, 0, 0, 0, timeday.WIB), 7},
		{"evening before due day", time.Date(2025, 3, 16, 23, 59, 0, 0, timeday.WIB), 1},
		{"morning of due day", time.Date(2025, 3, 17, 0, 1, 0, 0, timeday.WIB), 0},
		{"day after", time.Date(2025, 3, 18, 1, 0, 0, 0, timeday.WIB), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeday.DaysUntil(tt.now, due, timeday.WIB))
		})
	}
}

func TestSameOrAfterDay(t *testing.T) {
	due := time.Date(2025, 3, 17, 9, 0, 0, 0, timeday.WIB)

	// Just after WIB midnight on the due day counts, even though the
	// timestamp is hours before the due instant
	early := time.Date(2025, 3, 17, 0, 5, 0, 0, timeday.WIB)
	assert.True(t, timeday.SameOrAfterDay(early, due, timeday.WIB))

	// 23:59 the night before does not
	night := time.Date(2025, 3, 16, 23, 59, 0, 0, timeday.WIB)
	assert.False(t, timeday.SameOrAfterDay(night, due, timeday.WIB))
}

func TestStartOfDay_KeepsLocation(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, timeday.WIB)
	got := timeday.StartOfDay(now)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, timeday.WIB), got)
	assert.Equal(t, timeday.WIB, got.Location())
}
