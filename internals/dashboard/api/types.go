package api

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusDraft, StatusPublished, StatusPostponed, StatusCancelled}

type Category struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

type Event struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Category    uuid.UUID     `json:"category"`
	Type        schedule.Kind `json:"type"`
	StartDate   schedule.Date `json:"start_date"`
	EndDate     schedule.Date `json:"end_date"`
	StartTime   dbtime.Tod    `json:"start_time"`
	EndTime     dbtime.Tod    `json:"end_time"`
	Duration    *int          `json:"duration"`
	Description *string       `json:"description"`
	Location    *string       `json:"location"`
	Status      Status        `json:"status"`
	Calendar    *uuid.UUID    `json:"calendar"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Schedule rebuilds the single/multi variant of e.
func (e Event) Schedule() (schedule.Schedule, error) {
	end := e.EndDate.Time
	return schedule.New(e.Type, e.StartDate.Time, &end,
		schedule.Times{Start: e.StartTime, End: e.EndTime}, e.Duration)
}

// EventInput is the body of createEvent. Build it with NewEventInput so the
// date fields always come from a valid schedule.
type EventInput struct {
	Title       string         `json:"title"`
	Category    uuid.UUID      `json:"category"`
	Type        schedule.Kind  `json:"type"`
	StartDate   schedule.Date  `json:"start_date"`
	EndDate     *schedule.Date `json:"end_date,omitempty"`
	StartTime   dbtime.Tod     `json:"start_time"`
	EndTime     dbtime.Tod     `json:"end_time"`
	Duration    *int           `json:"duration,omitempty"`
	Description *string        `json:"description,omitempty"`
	Location    *string        `json:"location,omitempty"`
	Status      Status         `json:"status,omitempty"`
	Calendar    *uuid.UUID     `json:"calendar,omitempty"`
}

func NewEventInput(title string, category uuid.UUID, s schedule.Schedule) EventInput {
	in := EventInput{
		Title:     title,
		Category:  category,
		Type:      s.Kind(),
		StartDate: schedule.NewDate(s.StartDate()),
		StartTime: s.Times().Start,
		EndTime:   s.Times().End,
		Duration:  s.DailyDuration(),
	}
	if s.Kind() == schedule.Multi {
		end := schedule.NewDate(s.EndDate())
		in.EndDate = &end
	}
	return in
}

// EventPatch holds only the fields to change. A nil value sends JSON null.
type EventPatch map[string]any

// StatusPatch changes the status and nothing else.
func StatusPatch(s Status) EventPatch { return EventPatch{"status": s} }

// LinkPatch sets the calendar reference; nil unlinks.
func LinkPatch(calendarID *uuid.UUID) EventPatch {
	if calendarID == nil {
		return EventPatch{"calendar": nil}
	}
	return EventPatch{"calendar": *calendarID}
}

// EventFilter mirrors the query parameters of GET /events.
type EventFilter struct {
	CalendarID    *uuid.UUID
	UnlinkedOnly  bool
	CategoryIDs   []uuid.UUID
	StartDateFrom time.Time
	StartDateTo   time.Time
}

func (f EventFilter) query() url.Values {
	v := url.Values{}
	for _, id := range f.CategoryIDs {
		v.Add("category", id.String())
	}
	if f.CalendarID != nil {
		v.Set("calendar", f.CalendarID.String())
	}
	if f.UnlinkedOnly {
		v.Set("unlinked", "true")
	}
	if !f.StartDateFrom.IsZero() {
		v.Set("start_date_from", schedule.FormatDate(f.StartDateFrom))
	}
	if !f.StartDateTo.IsZero() {
		v.Set("start_date_to", schedule.FormatDate(f.StartDateTo))
	}
	return v
}

type Calendar struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	StartDate schedule.Date `json:"start_date"`
	EndDate   schedule.Date `json:"end_date"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CalendarInput struct {
	Title     string        `json:"title"`
	StartDate schedule.Date `json:"start_date"`
	EndDate   schedule.Date `json:"end_date"`
}

// BuildItem is either a new event or the id of an event to link.
type BuildItem struct {
	Event *EventInput `json:"event,omitempty"`
	Link  *uuid.UUID  `json:"link,omitempty"`
}

type BuildRequest struct {
	CalendarID *uuid.UUID `json:"calendar_id,omitempty"`
	CalendarInput
	Items []BuildItem `json:"items"`
}

type BuildResult struct {
	Calendar Calendar `json:"calendar"`
	Created  []Event  `json:"created"`
	Linked   []Event  `json:"linked"`
}

type ContentMode string

const (
	ContentMonthly  ContentMode = "monthly"
	ContentCategory ContentMode = "category"
)

type LayoutSidebar struct {
	Categories []uuid.UUID `json:"categories"`
}

type LayoutContent struct {
	Mode       ContentMode `json:"mode"`
	Categories []uuid.UUID `json:"categories"`
}

type LayoutConfig struct {
	Sidebar LayoutSidebar `json:"sidebar"`
	Content LayoutContent `json:"content"`
}

type Layout struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Active        bool         `json:"active"`
	Configuration LayoutConfig `json:"configuration"`
}

type LayoutInput struct {
	Name          string       `json:"name"`
	Configuration LayoutConfig `json:"configuration"`
}
