// file: internals/features/calendar/dto/event_dto.go
package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository"
	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
)

// scheduleErr maps schedule.New failures onto the offending field.
func scheduleErr(err error) error {
	switch {
	case errors.Is(err, schedule.ErrUnknownKind):
		return fieldErr("type", err)
	case errors.Is(err, schedule.ErrBadDuration):
		return fieldErr("duration", err)
	case errors.Is(err, schedule.ErrMissingDate):
		return fieldErr("start_date", err)
	case errors.Is(err, schedule.ErrEndTimeOrder):
		return fieldErr("end_time", err)
	default:
		return fieldErr("end_date", err)
	}
}

/* =========================================================
   Requests: CREATE
   ========================================================= */

type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required,max=160"`
	Category    string  `json:"category" validate:"required,uuid"`
	Type        string  `json:"type" validate:"omitempty,oneof=single multi"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	Duration    *int    `json:"duration" validate:"omitempty,min=1,max=1440"`
	Description *string `json:"description"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft published postponed cancelled"`
	Calendar    *string `json:"calendar" validate:"omitempty,uuid"`
}

func (r *CreateEventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = trimPtr(r.EndDate)
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	r.Description = trimPtr(r.Description)
	r.Location = trimPtr(r.Location)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Calendar = trimPtr(r.Calendar)
}

func (r *CreateEventRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

// ToModel parses ids, dates and times and builds the schedule variant. A
// single-day request has its end date and duration dropped.
func (r *CreateEventRequest) ToModel() (*model.CalendarEvent, error) {
	categoryID, err := parseID("category", r.Category)
	if err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if r.EndDate != nil {
		e, err := parseDate("end_date", *r.EndDate)
		if err != nil {
			return nil, err
		}
		end = &e
	}
	st, err := parseTod("start_time", r.StartTime)
	if err != nil {
		return nil, err
	}
	et, err := parseTod("end_time", r.EndTime)
	if err != nil {
		return nil, err
	}
	times := schedule.Times{Start: st, End: et}
	if err := schedule.ValidateTimes(times); err != nil {
		return nil, scheduleErr(err)
	}
	sch, err := schedule.New(schedule.Kind(r.Type), start, end, times, r.Duration)
	if err != nil {
		return nil, scheduleErr(err)
	}

	m := &model.CalendarEvent{
		CalendarEventsTitle:       r.Title,
		CalendarEventsCategoryID:  categoryID,
		CalendarEventsDescription: r.Description,
		CalendarEventsLocation:    r.Location,
		CalendarEventsStatus:      model.EventStatus(r.Status),
	}
	m.SetSchedule(sch)
	if r.Calendar != nil {
		id, err := parseID("calendar", *r.Calendar)
		if err != nil {
			return nil, err
		}
		m.CalendarEventsCalendarID = &id
	}
	return m, nil
}

/* =========================================================
   Requests: PATCH (partial)
   ========================================================= */

type PatchEventRequest struct {
	Title       PatchField[string] `json:"title"`
	Category    PatchField[string] `json:"category"`
	Type        PatchField[string] `json:"type"`
	StartDate   PatchField[string] `json:"start_date"`
	EndDate     PatchField[string] `json:"end_date"`
	StartTime   PatchField[string] `json:"start_time"`
	EndTime     PatchField[string] `json:"end_time"`
	Duration    PatchField[int]    `json:"duration"`
	Description PatchField[string] `json:"description"`
	Location    PatchField[string] `json:"location"`
	Status      PatchField[string] `json:"status"`
	Calendar    PatchField[string] `json:"calendar"`
}

func (p *PatchEventRequest) Normalize() {
	for _, f := range []*PatchField[string]{
		&p.Title, &p.Category, &p.Type, &p.StartDate, &p.EndDate,
		&p.StartTime, &p.EndTime, &p.Status, &p.Calendar,
	} {
		if f.Present && f.Value != nil {
			v := strings.TrimSpace(*f.Value)
			f.Value = &v
		}
	}
	if p.Type.Value != nil {
		v := strings.ToLower(*p.Type.Value)
		p.Type.Value = &v
	}
	if p.Status.Value != nil {
		v := strings.ToLower(*p.Status.Value)
		p.Status.Value = &v
	}
	if p.Description.Present {
		p.Description.Value = trimPtr(p.Description.Value)
	}
	if p.Location.Present {
		p.Location.Value = trimPtr(p.Location.Value)
	}
}

// ValidatePartial checks the NOT NULL columns and plain value rules of the
// fields that were sent. Schedule rules run in ApplyPatch against the merged row.
func (p *PatchEventRequest) ValidatePartial() error {
	notNull := []struct {
		name  string
		field PatchField[string]
	}{
		{"title", p.Title},
		{"category", p.Category},
		{"type", p.Type},
		{"start_date", p.StartDate},
		{"start_time", p.StartTime},
		{"end_time", p.EndTime},
		{"status", p.Status},
	}
	for _, n := range notNull {
		if n.field.Present && (n.field.Value == nil || *n.field.Value == "") {
			return fieldErr(n.name, errors.New("is required"))
		}
	}
	if p.Title.Value != nil && len([]rune(*p.Title.Value)) > 160 {
		return fieldErr("title", errors.New("must be at most 160 characters"))
	}
	if p.Status.Value != nil && !model.EventStatus(*p.Status.Value).Valid() {
		return fieldErr("status", errors.New("must be one of: draft published postponed cancelled"))
	}
	if p.Type.Value != nil && !schedule.Kind(*p.Type.Value).Valid() {
		return fieldErr("type", schedule.ErrUnknownKind)
	}
	if p.Location.Value != nil && len([]rune(*p.Location.Value)) > 255 {
		return fieldErr("location", errors.New("must be at most 255 characters"))
	}
	return nil
}

// ApplyPatch merges the present fields into m and rebuilds its schedule.
// A status-only patch leaves every other column untouched.
func (p *PatchEventRequest) ApplyPatch(m *model.CalendarEvent) error {
	if v, ok := p.Title.Get(); ok && v != nil {
		m.CalendarEventsTitle = *v
	}
	if v, ok := p.Category.Get(); ok && v != nil {
		id, err := parseID("category", *v)
		if err != nil {
			return err
		}
		m.CalendarEventsCategoryID = id
	}
	if v, ok := p.Status.Get(); ok && v != nil {
		m.CalendarEventsStatus = model.EventStatus(*v)
	}
	if v, ok := p.Description.Get(); ok {
		m.CalendarEventsDescription = v
	}
	if v, ok := p.Location.Get(); ok {
		m.CalendarEventsLocation = v
	}
	if v, ok := p.Calendar.Get(); ok {
		if v == nil {
			m.CalendarEventsCalendarID = nil
		} else {
			id, err := parseID("calendar", *v)
			if err != nil {
				return err
			}
			m.CalendarEventsCalendarID = &id
		}
	}

	if !p.touchesSchedule() {
		return nil
	}
	return p.applySchedule(m)
}

func (p *PatchEventRequest) touchesSchedule() bool {
	return p.Type.Present || p.StartDate.Present || p.EndDate.Present ||
		p.StartTime.Present || p.EndTime.Present || p.Duration.Present
}

func (p *PatchEventRequest) applySchedule(m *model.CalendarEvent) error {
	kind := m.CalendarEventsType
	if v, ok := p.Type.Get(); ok && v != nil {
		kind = schedule.Kind(*v)
	}
	start := m.CalendarEventsStartDate
	if v, ok := p.StartDate.Get(); ok && v != nil {
		t, err := parseDate("start_date", *v)
		if err != nil {
			return err
		}
		start = t
	}
	var end *time.Time
	if v, ok := p.EndDate.Get(); ok {
		if v != nil {
			t, err := parseDate("end_date", *v)
			if err != nil {
				return err
			}
			end = &t
		}
	} else if m.CalendarEventsType == schedule.Multi {
		e := m.CalendarEventsEndDate
		end = &e
	}
	times := schedule.Times{Start: m.CalendarEventsStartTime, End: m.CalendarEventsEndTime}
	if v, ok := p.StartTime.Get(); ok && v != nil {
		t, err := dbtime.Parse(*v)
		if err != nil {
			return fieldErr("start_time", err)
		}
		times.Start = t
	}
	if v, ok := p.EndTime.Get(); ok && v != nil {
		t, err := dbtime.Parse(*v)
		if err != nil {
			return fieldErr("end_time", err)
		}
		times.End = t
	}
	if p.StartTime.Present || p.EndTime.Present {
		if err := schedule.ValidateTimes(times); err != nil {
			return scheduleErr(err)
		}
	}
	duration := m.CalendarEventsDurationMinutes
	if v, ok := p.Duration.Get(); ok {
		duration = v
	}

	sch, err := schedule.New(kind, start, end, times, duration)
	if err != nil {
		return scheduleErr(err)
	}
	m.SetSchedule(sch)
	return nil
}

/* =========================================================
   Query (list)
   ========================================================= */

// ParseEventQuery reads ?category= (repeatable), ?calendar=, ?unlinked=true,
// ?start_date_from= and ?start_date_to=.
func ParseEventQuery(c *fiber.Ctx) (repository.EventFilter, error) {
	var f repository.EventFilter

	for _, raw := range c.Context().QueryArgs().PeekMulti("category") {
		for _, part := range strings.Split(string(raw), ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID("category", part)
			if err != nil {
				return f, err
			}
			f.CategoryIDs = append(f.CategoryIDs, id)
		}
	}
	if s := strings.TrimSpace(c.Query("calendar")); s != "" {
		id, err := parseID("calendar", s)
		if err != nil {
			return f, err
		}
		f.CalendarID = &id
	}
	f.UnlinkedOnly = c.QueryBool("unlinked", false)
	if f.UnlinkedOnly && f.CalendarID != nil {
		return f, fieldErr("unlinked", errors.New("cannot be combined with calendar"))
	}
	if s := strings.TrimSpace(c.Query("start_date_from")); s != "" {
		t, err := parseDate("start_date_from", s)
		if err != nil {
			return f, err
		}
		f.StartFrom = &t
	}
	if s := strings.TrimSpace(c.Query("start_date_to")); s != "" {
		t, err := parseDate("start_date_to", s)
		if err != nil {
			return f, err
		}
		f.StartTo = &t
	}
	return f, nil
}

/* =========================================================
   Response DTO
   ========================================================= */

type EventResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Category    uuid.UUID         `json:"category"`
	Type        schedule.Kind     `json:"type"`
	StartDate   schedule.Date     `json:"start_date"`
	EndDate     schedule.Date     `json:"end_date"`
	StartTime   dbtime.Tod        `json:"start_time"`
	EndTime     dbtime.Tod        `json:"end_time"`
	Duration    *int              `json:"duration"`
	Description *string           `json:"description"`
	Location    *string           `json:"location"`
	Status      model.EventStatus `json:"status"`
	Calendar    *uuid.UUID        `json:"calendar"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func FromEvent(m *model.CalendarEvent) EventResponse {
	return EventResponse{
		ID:          m.CalendarEventsID,
		Title:       m.CalendarEventsTitle,
		Category:    m.CalendarEventsCategoryID,
		Type:        m.CalendarEventsType,
		StartDate:   schedule.NewDate(m.CalendarEventsStartDate),
		EndDate:     schedule.NewDate(m.CalendarEventsEndDate),
		StartTime:   m.CalendarEventsStartTime,
		EndTime:     m.CalendarEventsEndTime,
		Duration:    m.CalendarEventsDurationMinutes,
		Description: m.CalendarEventsDescription,
		Location:    m.CalendarEventsLocation,
		Status:      m.CalendarEventsStatus,
		Calendar:    m.CalendarEventsCalendarID,
		CreatedAt:   m.CalendarEventsCreatedAt,
		UpdatedAt:   m.CalendarEventsUpdatedAt,
	}
}

func FromEvents(list []model.CalendarEvent) []EventResponse {
	out := make([]EventResponse, 0, len(list))
	for i := range list {
		out = append(out, FromEvent(&list[i]))
	}
	return out
}
