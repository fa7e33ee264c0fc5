package monthgrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emiscal_backend/internals/features/calendar/schedule"
)

func TestMonthsFall2025(t *testing.T) {
	months := Months(schedule.MustDate("2025-08-01"), schedule.MustDate("2025-12-20"), Options{})
	require.Len(t, months, 5)

	labels := make([]string, 0, len(months))
	for _, m := range months {
		labels = append(labels, m.Label())
	}
	assert.Equal(t, []string{"August 2025", "September 2025", "October 2025", "November 2025", "December 2025"}, labels)
}

func TestMonthsSpanningYears(t *testing.T) {
	months := Months(schedule.MustDate("2024-07-15"), schedule.MustDate("2025-06-30"), Options{})
	require.Len(t, months, 12)
	assert.Equal(t, time.July, months[0].Month)
	assert.Equal(t, 2025, months[11].Year)
	assert.Equal(t, time.June, months[11].Month)
}

func TestMonthsEmpty(t *testing.T) {
	assert.Nil(t, Months(schedule.MustDate("2025-02-01"), schedule.MustDate("2025-01-01"), Options{}))
	assert.Nil(t, Months(time.Time{}, schedule.MustDate("2025-01-01"), Options{}))
	assert.Len(t, Months(schedule.MustDate("2025-02-10"), schedule.MustDate("2025-02-10"), Options{}), 1)
}

func TestBuildWeeks(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		weekStart time.Weekday
		weeks     int
		firstCell string
	}{
		// 1 Feb 2026 is a Sunday: exactly four rows
		{name: "february fits four weeks", year: 2026, month: time.February, weeks: 4, firstCell: "2026-02-01"},
		{name: "august 2025 sunday start", year: 2025, month: time.August, weeks: 6, firstCell: "2025-07-27"},
		{name: "august 2025 monday start", year: 2025, month: time.August, weekStart: time.Monday, weeks: 5, firstCell: "2025-07-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(tt.year, tt.month, Options{WeekStart: tt.weekStart})
			require.Len(t, m.Weeks, tt.weeks)
			assert.Equal(t, tt.firstCell, schedule.FormatDate(m.Weeks[0][0].Date))
			assert.Equal(t, tt.weekStart, m.Weeks[0][0].Date.Weekday())

			days := m.Days()
			assert.Equal(t, 1, days[0].Day())
			assert.Equal(t, tt.month, days[len(days)-1].Month())
			assert.NotEqual(t, tt.month, days[len(days)-1].AddDate(0, 0, 1).Month(), "last in-month cell is the month end")
		})
	}
}
