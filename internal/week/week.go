// Package week computes the canonical week-ending date for check-in totals.
// The work week runs Monday through Friday; every count rolls up to a Friday.
package week

import "time"

// DateLayout is the wire format for week-ending dates.
const DateLayout = "2006-01-02"

// EndingDate returns the Friday that identifies the work week containing now.
// Monday through Friday map to that span's Friday. Saturday and Sunday roll
// back to the Friday just passed, so a delayed weekend rollover is attributed
// to the week it belongs to. Operates on local calendar components only.
func EndingDate(now time.Time) time.Time {
	var d time.Time
	switch wd := now.Weekday(); wd {
	case time.Saturday:
		d = now.AddDate(0, 0, -1)
	case time.Sunday:
		d = now.AddDate(0, 0, -2)
	default:
		d = now.AddDate(0, 0, int(time.Friday-wd))
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// FormatDate renders a date in the canonical YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a canonical YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
