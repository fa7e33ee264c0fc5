// file: internals/features/calendar/service/calendar_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository"
	"emiscal_backend/internals/features/calendar/schedule"
)

type CalendarService struct {
	store repository.Store
}

func NewCalendarService(store repository.Store) *CalendarService {
	return &CalendarService{store: store}
}

func (s *CalendarService) List(ctx context.Context) ([]model.Calendar, error) {
	return s.store.Calendars().List(ctx)
}

func (s *CalendarService) Get(ctx context.Context, id uuid.UUID) (*model.Calendar, error) {
	return s.store.Calendars().Get(ctx, id)
}

func (s *CalendarService) Create(ctx context.Context, title string, start, end time.Time) (*model.Calendar, error) {
	m := &model.Calendar{}
	if err := fillCalendar(m, title, start, end); err != nil {
		return nil, err
	}
	if err := s.store.Calendars().Create(ctx, m); err != nil {
		return nil, err
	}
	log.Printf("[CALENDARS] created id=%s %s..%s", m.CalendarsID, schedule.FormatDate(m.CalendarsStartDate), schedule.FormatDate(m.CalendarsEndDate))
	return m, nil
}

// CalendarPatch carries the fields of a partial update; nil means unchanged.
type CalendarPatch struct {
	Title     *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (p CalendarPatch) apply(m *model.Calendar) error {
	title, start, end := m.CalendarsTitle, m.CalendarsStartDate, m.CalendarsEndDate
	if p.Title != nil {
		title = *p.Title
	}
	if p.StartDate != nil {
		start = *p.StartDate
	}
	if p.EndDate != nil {
		end = *p.EndDate
	}
	return fillCalendar(m, title, start, end)
}

func (s *CalendarService) Update(ctx context.Context, id uuid.UUID, p CalendarPatch) (*model.Calendar, error) {
	m, err := s.store.Calendars().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.apply(m); err != nil {
		return nil, err
	}
	if err := s.store.Calendars().Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func fillCalendar(m *model.Calendar, title string, start, end time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return inputErr("title", errors.New("title is required"))
	}
	if err := schedule.ValidateCalendarRange(start, end); err != nil {
		return inputErr("end_date", err)
	}
	m.CalendarsTitle = title
	m.CalendarsStartDate = schedule.Day(start)
	m.CalendarsEndDate = schedule.Day(end)
	return nil
}

// Events lists the events linked to calendar id.
func (s *CalendarService) Events(ctx context.Context, id uuid.UUID) (*model.Calendar, []model.CalendarEvent, error) {
	cal, err := s.store.Calendars().Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.store.Events().List(ctx, repository.EventFilter{CalendarID: &cal.CalendarsID})
	if err != nil {
		return nil, nil, err
	}
	return cal, rows, nil
}

/* =========================================================
   Build: calendar + draft list in one transaction
   ========================================================= */

// BuildItem is one draft entry: either a new event or a link to an existing one.
type BuildItem struct {
	NewEvent *model.CalendarEvent
	LinkID   *uuid.UUID
}

type BuildInput struct {
	CalendarID *uuid.UUID // nil creates a calendar
	Title      string
	StartDate  time.Time
	EndDate    time.Time
	Items      []BuildItem
}

type BuildResult struct {
	Calendar model.Calendar
	Created  []model.CalendarEvent
	Linked   []model.CalendarEvent
}

// Build commits the calendar and every draft item atomically: either all
// rows are written or none are.
func (s *CalendarService) Build(ctx context.Context, in BuildInput) (*BuildResult, error) {
	var res BuildResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var cal *model.Calendar
		if in.CalendarID != nil {
			m, err := tx.Calendars().Get(ctx, *in.CalendarID)
			if err != nil {
				return err
			}
			if err := fillCalendar(m, in.Title, in.StartDate, in.EndDate); err != nil {
				return err
			}
			if err := tx.Calendars().Save(ctx, m); err != nil {
				return err
			}
			cal = m
		} else {
			m := &model.Calendar{}
			if err := fillCalendar(m, in.Title, in.StartDate, in.EndDate); err != nil {
				return err
			}
			if err := tx.Calendars().Create(ctx, m); err != nil {
				return err
			}
			cal = m
		}
		calID := cal.CalendarsID

		for i, it := range in.Items {
			switch {
			case it.LinkID != nil:
				ev, err := updateEvent(ctx, tx, *it.LinkID, func(m *model.CalendarEvent) error {
					m.CalendarEventsCalendarID = &calID
					return nil
				})
				if err != nil {
					return itemErr(i, err)
				}
				res.Linked = append(res.Linked, *ev)
			case it.NewEvent != nil:
				ev := *it.NewEvent
				ev.CalendarEventsCalendarID = &calID
				if err := createEvent(ctx, tx, &ev); err != nil {
					return itemErr(i, err)
				}
				res.Created = append(res.Created, ev)
			default:
				return inputErr("items", errors.New("each item needs event or link"))
			}
		}
		res.Calendar = *cal
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[CALENDARS] built id=%s created=%d linked=%d", res.Calendar.CalendarsID, len(res.Created), len(res.Linked))
	return &res, nil
}

func itemErr(i int, err error) error {
	var ie *InputError
	if errors.As(err, &ie) {
		return &InputError{Field: "items[" + strconv.Itoa(i) + "]." + ie.Field, Err: ie.Err}
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &InputError{Field: "items[" + strconv.Itoa(i) + "].link", Err: errors.New("event does not exist")}
	}
	return err
}
