// Package monthgrid lays dates out as month blocks of 7-column weeks.
package monthgrid

import (
	"strconv"
	"time"

	"github.com/jinzhu/now"
	"github.com/teambition/rrule-go"

	"emiscal_backend/internals/features/calendar/schedule"
)

// Cell is one day slot. Padding cells belong to the neighbouring month and
// have InMonth false.
type Cell struct {
	Date    time.Time
	InMonth bool
}

type Week [7]Cell

type Month struct {
	Year  int
	Month time.Month
	Weeks []Week
}

func (m Month) Label() string { return m.Month.String() + " " + strconv.Itoa(m.Year) }

// First is the first day of the month.
func (m Month) First() time.Time { return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC) }

// Days lists the in-month days in order.
func (m Month) Days() []time.Time {
	var out []time.Time
	for _, w := range m.Weeks {
		for _, c := range w {
			if c.InMonth {
				out = append(out, c.Date)
			}
		}
	}
	return out
}

// Options control the layout; the zero value starts weeks on Sunday.
type Options struct {
	WeekStart time.Weekday
}

// Build lays out a single month.
func Build(year int, month time.Month, opt Options) Month {
	cfg := &now.Config{WeekStartDay: opt.WeekStart, TimeLocation: time.UTC}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := schedule.Day(cfg.With(first).EndOfMonth())

	out := Month{Year: year, Month: month}
	day := schedule.Day(cfg.With(first).BeginningOfWeek())
	for !day.After(last) {
		var w Week
		for i := range w {
			w[i] = Cell{Date: day, InMonth: day.Month() == month}
			day = day.AddDate(0, 0, 1)
		}
		out.Weeks = append(out.Weeks, w)
	}
	return out
}

// Months returns one block per calendar month touched by start..end, both
// inclusive. It returns nil when end precedes start.
func Months(start, end time.Time, opt Options) []Month {
	start, end = schedule.Day(start), schedule.Day(end)
	if start.IsZero() || end.Before(start) {
		return nil
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.MONTHLY,
		Dtstart: now.With(start).BeginningOfMonth(),
		Until:   end,
	})
	if err != nil {
		return nil
	}
	var out []Month
	for _, t := range r.All() {
		out = append(out, Build(t.Year(), t.Month(), opt))
	}
	return out
}

// Year returns the twelve months of year.
func Year(year int, opt Options) []Month {
	return Months(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), opt)
}
