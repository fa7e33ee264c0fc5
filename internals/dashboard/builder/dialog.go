package builder

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"emiscal_backend/internals/dashboard/api"
	"emiscal_backend/internals/features/calendar/schedule"
	helper "emiscal_backend/internals/helpers"
	"emiscal_backend/internals/helpers/dbtime"
)

type Mode int

const (
	CreateMode Mode = iota
	LinkMode
)

// EventForm is the create-mode form. Dates are "YYYY-MM-DD", times "HH:MM".
type EventForm struct {
	Title       string `json:"title" validate:"required,max=160"`
	Category    string `json:"category" validate:"required,uuid"`
	Type        string `json:"type" validate:"omitempty,oneof=single multi"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Duration    *int   `json:"duration" validate:"omitempty,min=1,max=1440"`
	Description string `json:"description"`
	Location    string `json:"location" validate:"max=255"`
}

func (f *EventForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.StartTime = strings.TrimSpace(f.StartTime)
	f.EndTime = strings.TrimSpace(f.EndTime)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	if f.Type == string(schedule.Single) || f.Type == "" {
		// single-day: the end date mirrors the start date
		f.EndDate = f.StartDate
		f.Duration = nil
	}
}

// Dialog authors one draft for the day it was opened on. It closes after a
// successful Confirm or a Cancel.
type Dialog struct {
	day        time.Time
	rangeStart time.Time
	rangeEnd   time.Time
	mode       Mode
	Form       EventForm
	categories []api.Category
	unlinked   []api.Event
	selected   *uuid.UUID
	emit       func(Draft) Draft
	closed     bool
}

func newDialog(day, rangeStart, rangeEnd time.Time, categories []api.Category, unlinked []api.Event, emit func(Draft) Draft) *Dialog {
	return &Dialog{
		day:        day,
		rangeStart: rangeStart,
		rangeEnd:   rangeEnd,
		Form:       EventForm{Type: string(schedule.Single), StartDate: schedule.FormatDate(day)},
		categories: categories,
		unlinked:   unlinked,
		emit:       emit,
	}
}

func (d *Dialog) Day() time.Time             { return d.day }
func (d *Dialog) Mode() Mode                 { return d.mode }
func (d *Dialog) SetMode(m Mode)             { d.mode = m }
func (d *Dialog) Categories() []api.Category { return d.categories }
func (d *Dialog) Closed() bool               { return d.closed }

// Unlinked lists the events that can be attached in link mode.
func (d *Dialog) Unlinked() []api.Event { return d.unlinked }

// Select picks the event to link.
func (d *Dialog) Select(id uuid.UUID) error {
	if _, ok := d.findUnlinked(id); !ok {
		return FieldErrors{"event": {"must be one of the unlinked events"}}
	}
	d.selected = &id
	return nil
}

func (d *Dialog) Cancel() { d.closed = true }

// Confirm validates the current mode and appends the resulting draft to the
// workflow. On error nothing is emitted and the dialog stays open.
func (d *Dialog) Confirm() (Draft, error) {
	if d.closed {
		return Draft{}, ErrDialogClosed
	}
	var (
		dr  Draft
		err error
	)
	if d.mode == LinkMode {
		dr, err = d.linkDraft()
	} else {
		dr, err = d.newDraft()
	}
	if err != nil {
		return Draft{}, err
	}
	d.closed = true
	return d.emit(dr), nil
}

func (d *Dialog) linkDraft() (Draft, error) {
	if d.selected == nil {
		return Draft{}, FieldErrors{"event": {"is required"}}
	}
	ev, ok := d.findUnlinked(*d.selected)
	if !ok {
		return Draft{}, FieldErrors{"event": {"must be one of the unlinked events"}}
	}
	return Draft{Link: &LinkRequest{EventID: ev.ID, Title: ev.Title, Date: ev.StartDate.Time}}, nil
}

func (d *Dialog) newDraft() (Draft, error) {
	f := d.Form
	f.normalize()

	fe := FieldErrors{}
	if err := helper.Validate.Struct(&f); err != nil {
		for k, msgs := range helper.FieldErrors(err) {
			fe[k] = append(fe[k], msgs...)
		}
		if len(fe) == 0 {
			return Draft{}, err
		}
	}

	var category uuid.UUID
	if _, bad := fe["category"]; !bad {
		category = uuid.MustParse(f.Category)
		if !d.knownCategory(category) {
			fe.add("category", "must be one of the loaded categories")
		}
	}

	var (
		start, end time.Time
		times      schedule.Times
	)
	if _, bad := fe["start_date"]; !bad {
		start, _ = schedule.ParseDate(f.StartDate)
		if start.Before(d.rangeStart) || start.After(d.rangeEnd) {
			fe.add("start_date", "must be within the calendar range")
		}
	}
	if _, bad := fe["end_date"]; !bad && f.EndDate != "" {
		end, _ = schedule.ParseDate(f.EndDate)
	}
	if _, bad := fe["start_time"]; !bad {
		t, err := dbtime.Parse(f.StartTime)
		if err != nil {
			fe.add("start_time", "must be HH:MM")
		}
		times.Start = t
	}
	if _, bad := fe["end_time"]; !bad {
		t, err := dbtime.Parse(f.EndTime)
		if err != nil {
			fe.add("end_time", "must be HH:MM")
		}
		times.End = t
	}
	_, badStart := fe["start_time"]
	_, badEnd := fe["end_time"]
	if !badStart && !badEnd && schedule.ValidateTimes(times) != nil {
		fe.add("end_time", "must be after the start time")
	}
	if len(fe) > 0 {
		return Draft{}, fe
	}

	var endPtr *time.Time
	if !end.IsZero() {
		endPtr = &end
	}
	sch, err := schedule.New(schedule.Kind(f.Type), start, endPtr, times, f.Duration)
	if err != nil {
		return Draft{}, scheduleFieldErrors(err)
	}
	if sch.EndDate().After(d.rangeEnd) {
		return Draft{}, FieldErrors{"end_date": {"must be within the calendar range"}}
	}

	nd := &NewEventDraft{Title: f.Title, Category: category, Schedule: sch}
	if f.Description != "" {
		nd.Description = &f.Description
	}
	if f.Location != "" {
		nd.Location = &f.Location
	}
	return Draft{New: nd}, nil
}

func scheduleFieldErrors(err error) FieldErrors {
	switch err {
	case schedule.ErrEndDateRequired:
		return FieldErrors{"end_date": {"is required for multi-day events"}}
	case schedule.ErrEndBeforeStart:
		return FieldErrors{"end_date": {"must not be before the start date"}}
	case schedule.ErrBadDuration:
		return FieldErrors{"duration": {"must be between 1 and 1440 minutes"}}
	case schedule.ErrMissingDate:
		return FieldErrors{"start_date": {"is required"}}
	case schedule.ErrUnknownKind:
		return FieldErrors{"type": {"must be single or multi"}}
	}
	return FieldErrors{"schedule": {err.Error()}}
}

func (d *Dialog) knownCategory(id uuid.UUID) bool {
	for _, c := range d.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (d *Dialog) findUnlinked(id uuid.UUID) (api.Event, bool) {
	for _, e := range d.unlinked {
		if e.ID == id {
			return e, true
		}
	}
	return api.Event{}, false
}
