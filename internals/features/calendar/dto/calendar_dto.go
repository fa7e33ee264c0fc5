// file: internals/features/calendar/dto/calendar_dto.go
package dto

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/features/calendar/service"
)

/* =========================================================
   Requests
   ========================================================= */

type CreateCalendarRequest struct {
	Title     string `json:"title" validate:"required,max=160"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (r *CreateCalendarRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

func (r *CreateCalendarRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

// Range parses both dates; the range rules themselves are checked by the service.
func (r *CreateCalendarRequest) Range() (start, end time.Time, err error) {
	if start, err = parseDate("start_date", r.StartDate); err != nil {
		return
	}
	end, err = parseDate("end_date", r.EndDate)
	return
}

type PatchCalendarRequest struct {
	Title     PatchField[string] `json:"title"`
	StartDate PatchField[string] `json:"start_date"`
	EndDate   PatchField[string] `json:"end_date"`
}

func (p *PatchCalendarRequest) ToPatch() (service.CalendarPatch, error) {
	var out service.CalendarPatch
	if v, ok := p.Title.Get(); ok {
		if v == nil || strings.TrimSpace(*v) == "" {
			return out, fieldErr("title", errors.New("is required"))
		}
		out.Title = v
	}
	if v, ok := p.StartDate.Get(); ok {
		if v == nil {
			return out, fieldErr("start_date", errors.New("is required"))
		}
		t, err := parseDate("start_date", *v)
		if err != nil {
			return out, err
		}
		out.StartDate = &t
	}
	if v, ok := p.EndDate.Get(); ok {
		if v == nil {
			return out, fieldErr("end_date", errors.New("is required"))
		}
		t, err := parseDate("end_date", *v)
		if err != nil {
			return out, err
		}
		out.EndDate = &t
	}
	return out, nil
}

/* =========================================================
   Build (calendar + drafts in one transaction)
   ========================================================= */

type BuildItemRequest struct {
	Event *CreateEventRequest `json:"event,omitempty"`
	Link  *string             `json:"link,omitempty" validate:"omitempty,uuid"`
}

type BuildCalendarRequest struct {
	CalendarID *string `json:"calendar_id" validate:"omitempty,uuid"`
	CreateCalendarRequest
	Items []BuildItemRequest `json:"items" validate:"dive"`
}

func (r *BuildCalendarRequest) Normalize() {
	r.CreateCalendarRequest.Normalize()
	r.CalendarID = trimPtr(r.CalendarID)
	for i := range r.Items {
		if r.Items[i].Event != nil {
			r.Items[i].Event.Normalize()
		}
		r.Items[i].Link = trimPtr(r.Items[i].Link)
	}
}

func (r *BuildCalendarRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(r); err != nil {
		return err
	}
	for i, it := range r.Items {
		if (it.Event == nil) == (it.Link == nil) {
			return fieldErr("items["+strconv.Itoa(i)+"]", errors.New("needs exactly one of event or link"))
		}
	}
	return nil
}

func (r *BuildCalendarRequest) ToInput() (service.BuildInput, error) {
	var in service.BuildInput
	start, end, err := r.Range()
	if err != nil {
		return in, err
	}
	in.Title, in.StartDate, in.EndDate = r.Title, start, end
	if r.CalendarID != nil {
		id, err := parseID("calendar_id", *r.CalendarID)
		if err != nil {
			return in, err
		}
		in.CalendarID = &id
	}
	for i, it := range r.Items {
		var item service.BuildItem
		if it.Link != nil {
			id, err := parseID("items["+strconv.Itoa(i)+"].link", *it.Link)
			if err != nil {
				return in, err
			}
			item.LinkID = &id
		} else {
			m, err := it.Event.ToModel()
			if err != nil {
				var fe *FieldError
				if errors.As(err, &fe) {
					return in, fieldErr("items["+strconv.Itoa(i)+"]."+fe.Field, fe.Err)
				}
				return in, err
			}
			item.NewEvent = m
		}
		in.Items = append(in.Items, item)
	}
	return in, nil
}

/* =========================================================
   Response DTO
   ========================================================= */

type CalendarResponse struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	StartDate schedule.Date `json:"start_date"`
	EndDate   schedule.Date `json:"end_date"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func FromCalendar(m *model.Calendar) CalendarResponse {
	return CalendarResponse{
		ID:        m.CalendarsID,
		Title:     m.CalendarsTitle,
		StartDate: schedule.NewDate(m.CalendarsStartDate),
		EndDate:   schedule.NewDate(m.CalendarsEndDate),
		CreatedAt: m.CalendarsCreatedAt,
		UpdatedAt: m.CalendarsUpdatedAt,
	}
}

func FromCalendars(list []model.Calendar) []CalendarResponse {
	out := make([]CalendarResponse, 0, len(list))
	for i := range list {
		out = append(out, FromCalendar(&list[i]))
	}
	return out
}

type BuildResponse struct {
	Calendar CalendarResponse `json:"calendar"`
	Created  []EventResponse  `json:"created"`
	Linked   []EventResponse  `json:"linked"`
}

func FromBuild(r *service.BuildResult) BuildResponse {
	return BuildResponse{
		Calendar: FromCalendar(&r.Calendar),
		Created:  FromEvents(r.Created),
		Linked:   FromEvents(r.Linked),
	}
}
