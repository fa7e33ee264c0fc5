// file: internals/features/calendar/schedule/schedule.go
package schedule

import (
	"errors"
	"fmt"
	"time"

	"emiscal_backend/internals/helpers/dbtime"
)

// Kind is the wire value of an event's "type" field.
type Kind string

const (
	Single Kind = "single"
	Multi  Kind = "multi"
)

func (k Kind) Valid() bool { return k == Single || k == Multi }

var (
	ErrUnknownKind     = errors.New("type must be single or multi")
	ErrEndDateRequired = errors.New("end_date is required for multi-day events")
	ErrEndBeforeStart  = errors.New("end_date must not be before start_date")
	ErrBadDuration     = errors.New("duration must be between 1 and 1440 minutes")
	ErrMissingDate     = errors.New("start_date is required")
	ErrEndTimeOrder    = errors.New("end_time must be after start_time")
)

// Times are the wall-clock start and end of each day of an event.
type Times struct {
	Start dbtime.Tod
	End   dbtime.Tod
}

// ValidateTimes requires each day to end after it starts; events do not run
// past midnight.
func ValidateTimes(t Times) error {
	if !t.End.After(t.Start.Time) {
		return ErrEndTimeOrder
	}
	return nil
}

/* =========================================================
   Schedule (tagged union)
   ========================================================= */

// Schedule is either a SingleDay or a MultiDay. The variant decides which
// fields exist, so a single-day event cannot carry a diverging end date.
type Schedule interface {
	Kind() Kind
	StartDate() time.Time
	EndDate() time.Time
	Times() Times
	// DailyDuration is per-day minutes; always nil for single-day events.
	DailyDuration() *int
	isSchedule()
}

type SingleDay struct {
	Date  time.Time
	Clock Times
}

func (s SingleDay) Kind() Kind           { return Single }
func (s SingleDay) StartDate() time.Time { return s.Date }
func (s SingleDay) EndDate() time.Time   { return s.Date }
func (s SingleDay) Times() Times         { return s.Clock }
func (s SingleDay) DailyDuration() *int  { return nil }
func (SingleDay) isSchedule()            {}

type MultiDay struct {
	Start           time.Time
	End             time.Time
	Clock           Times
	DurationMinutes *int
}

func (m MultiDay) Kind() Kind           { return Multi }
func (m MultiDay) StartDate() time.Time { return m.Start }
func (m MultiDay) EndDate() time.Time   { return m.End }
func (m MultiDay) Times() Times         { return m.Clock }
func (m MultiDay) DailyDuration() *int  { return m.DurationMinutes }
func (MultiDay) isSchedule()            {}

// New builds the variant for kind. For Single the end date and duration are
// dropped; for Multi the end date is required and must not precede start.
// An empty kind means Single.
func New(kind Kind, start time.Time, end *time.Time, times Times, duration *int) (Schedule, error) {
	if start.IsZero() {
		return nil, ErrMissingDate
	}
	start = Day(start)
	switch kind {
	case "", Single:
		return SingleDay{Date: start, Clock: times}, nil
	case Multi:
		if end == nil || end.IsZero() {
			return nil, ErrEndDateRequired
		}
		e := Day(*end)
		if e.Before(start) {
			return nil, ErrEndBeforeStart
		}
		if duration != nil && (*duration < 1 || *duration > 1440) {
			return nil, ErrBadDuration
		}
		return MultiDay{Start: start, End: e, Clock: times, DurationMinutes: duration}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// OnDay is a single-day schedule for date.
func OnDay(date time.Time, start, end dbtime.Tod) Schedule {
	return SingleDay{Date: Day(date), Clock: Times{Start: start, End: end}}
}

// Covers reports whether date falls within the schedule's dates.
func Covers(s Schedule, date time.Time) bool {
	d := Day(date)
	return !d.Before(s.StartDate()) && !d.After(s.EndDate())
}

/* =========================================================
   Calendar range rules
   ========================================================= */

// RangeError explains why a calendar date range is not acceptable.
type RangeError struct {
	Start  time.Time
	End    time.Time
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid calendar range %s..%s: %s", FormatDate(e.Start), FormatDate(e.End), e.Reason)
}

// ValidateCalendarRange enforces start < end and end no later than one year after start.
func ValidateCalendarRange(start, end time.Time) error {
	start, end = Day(start), Day(end)
	switch {
	case start.IsZero() || end.IsZero():
		return &RangeError{Start: start, End: end, Reason: "start and end dates are required"}
	case end.Before(start):
		return &RangeError{Start: start, End: end, Reason: "end date must not precede start date"}
	case end.Equal(start):
		return &RangeError{Start: start, End: end, Reason: "end date must be after start date"}
	case end.After(start.AddDate(1, 0, 0)):
		return &RangeError{Start: start, End: end, Reason: "a calendar may span at most one year"}
	}
	return nil
}
