// Package ics renders a calendar and its linked events as an iCalendar feed.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
)

const productID = "-//emiscal//academic calendar//EN"

var propColor = ical.ComponentProperty("COLOR")

// Export builds the VCALENDAR for cal. Event wall-clock times are read in loc.
// A multi-day event becomes one VEVENT repeating daily until its end date.
func Export(cal *model.Calendar, events []model.CalendarEvent, categories map[uuid.UUID]model.EventCategory, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	out := ical.NewCalendar()
	out.SetMethod(ical.MethodPublish)
	out.SetProductId(productID)
	out.SetXWRCalName(cal.CalendarsTitle)
	out.SetXWRTimezone(loc.String())

	for i := range events {
		ev := &events[i]
		ve := out.AddEvent(ev.CalendarEventsID.String() + "@emiscal")
		ve.SetDtStampTime(ev.CalendarEventsUpdatedAt)
		ve.SetCreatedTime(ev.CalendarEventsCreatedAt)
		ve.SetModifiedAt(ev.CalendarEventsUpdatedAt)
		ve.SetSummary(ev.CalendarEventsTitle)
		if ev.CalendarEventsDescription != nil {
			ve.SetDescription(*ev.CalendarEventsDescription)
		}
		if ev.CalendarEventsLocation != nil {
			ve.SetLocation(*ev.CalendarEventsLocation)
		}
		ve.SetStatus(objectStatus(ev.CalendarEventsStatus))
		if cat, ok := categories[ev.CalendarEventsCategoryID]; ok {
			ve.SetProperty(ical.ComponentPropertyCategories, cat.EventCategoriesName)
			ve.SetProperty(propColor, cat.EventCategoriesColor)
		}

		first := ev.CalendarEventsStartDate
		start, end := at(first, ev.CalendarEventsStartTime, loc), at(first, ev.CalendarEventsEndTime, loc)
		if !end.After(start) {
			// rows stored before times were checked may wrap past midnight
			end = end.AddDate(0, 0, 1)
		}
		ve.SetStartAt(start)
		ve.SetEndAt(end)

		if ev.CalendarEventsType == schedule.Multi && ev.CalendarEventsEndDate.After(first) {
			until := at(ev.CalendarEventsEndDate, ev.CalendarEventsEndTime, loc)
			ve.SetProperty(ical.ComponentPropertyRrule, dailyUntil(until))
		}
	}
	return out.Serialize()
}

// at combines a date column and a wall-clock time in loc.
func at(date time.Time, tod dbtime.Tod, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, loc)
}

func dailyUntil(until time.Time) string {
	opt := rrule.ROption{Freq: rrule.DAILY, Until: until.UTC()}
	return opt.RRuleString()
}

func objectStatus(s model.EventStatus) ical.ObjectStatus {
	switch s {
	case model.StatusPublished:
		return ical.ObjectStatusConfirmed
	case model.StatusCancelled:
		return ical.ObjectStatusCancelled
	default:
		return ical.ObjectStatusTentative
	}
}
