package week_test

import (
	"testing"
	"time"

	"github.com/nbarrett/tallysheet/internal/week"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestEndingDate_Weekdays(t *testing.T) {
	friday := date(2024, time.March, 15)

	cases := map[string]time.Time{
		"monday":    date(2024, time.March, 11),
		"tuesday":   date(2024, time.March, 12),
		"wednesday": date(2024, time.March, 13),
		"thursday":  date(2024, time.March, 14),
		"friday":    friday,
	}

	for name, now := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, friday, week.EndingDate(now))
		})
	}
}

func TestEndingDate_WeekendRollsBack(t *testing.T) {
	friday := date(2024, time.March, 15)

	require.Equal(t, friday, week.EndingDate(date(2024, time.March, 16))) // saturday
	require.Equal(t, friday, week.EndingDate(date(2024, time.March, 17))) // sunday
}

func TestEndingDate_TruncatesTimeOfDay(t *testing.T) {
	now := time.Date(2024, time.March, 13, 17, 42, 9, 12345, time.Local)
	end := week.EndingDate(now)

	require.Equal(t, date(2024, time.March, 15), end)
	require.Zero(t, end.Hour())
	require.Zero(t, end.Minute())
}

func TestEndingDate_CrossesMonthBoundary(t *testing.T) {
	// Thursday 2024-02-29 belongs to the week ending Friday 2024-03-01.
	require.Equal(t, date(2024, time.March, 1), week.EndingDate(date(2024, time.February, 29)))
}

func TestFormatParseRoundTrip(t *testing.T) {
	s := week.FormatDate(date(2024, time.March, 15))
	require.Equal(t, "2024-03-15", s)

	parsed, err := week.ParseDate(s)
	require.NoError(t, err)
	require.Equal(t, "2024-03-15", week.FormatDate(parsed))

	_, err = week.ParseDate("15/03/2024")
	require.Error(t, err)
}
