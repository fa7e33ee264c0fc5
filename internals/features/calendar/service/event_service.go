// file: internals/features/calendar/service/event_service.go
package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository"
)

type EventService struct {
	store repository.Store
}

func NewEventService(store repository.Store) *EventService {
	return &EventService{store: store}
}

func (s *EventService) List(ctx context.Context, f repository.EventFilter) ([]model.CalendarEvent, error) {
	return s.store.Events().List(ctx, f)
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*model.CalendarEvent, error) {
	return s.store.Events().Get(ctx, id)
}

// Create persists m after checking its references. m must already carry a
// schedule built through schedule.New.
func (s *EventService) Create(ctx context.Context, m *model.CalendarEvent) error {
	return createEvent(ctx, s.store, m)
}

func createEvent(ctx context.Context, store repository.Store, m *model.CalendarEvent) error {
	if err := checkRefs(ctx, store, m); err != nil {
		return err
	}
	if m.CalendarEventsStatus == "" {
		m.CalendarEventsStatus = model.StatusDraft
	}
	if err := store.Events().Create(ctx, m); err != nil {
		return err
	}
	log.Printf("[EVENTS] created id=%s type=%s calendar=%v", m.CalendarEventsID, m.CalendarEventsType, m.CalendarEventsCalendarID)
	return nil
}

// Update loads the event, lets apply mutate it, re-checks references that
// changed and saves, all inside one transaction.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, apply func(m *model.CalendarEvent) error) (*model.CalendarEvent, error) {
	var out *model.CalendarEvent
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		m, err := updateEvent(ctx, tx, id, apply)
		out = m
		return err
	})
	return out, err
}

func updateEvent(ctx context.Context, store repository.Store, id uuid.UUID, apply func(m *model.CalendarEvent) error) (*model.CalendarEvent, error) {
	m, err := store.Events().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prevCategory := m.CalendarEventsCategoryID
	prevCalendar := m.CalendarEventsCalendarID

	if err := apply(m); err != nil {
		return nil, err
	}

	if m.CalendarEventsCategoryID != prevCategory {
		if err := checkCategory(ctx, store, m.CalendarEventsCategoryID); err != nil {
			return nil, err
		}
	}
	if m.CalendarEventsCalendarID != nil && (prevCalendar == nil || *prevCalendar != *m.CalendarEventsCalendarID) {
		if err := checkCalendar(ctx, store, *m.CalendarEventsCalendarID); err != nil {
			return nil, err
		}
	}
	if err := store.Events().Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Link attaches the event to calendarID (nil unlinks it).
func (s *EventService) Link(ctx context.Context, id uuid.UUID, calendarID *uuid.UUID) (*model.CalendarEvent, error) {
	return s.Update(ctx, id, func(m *model.CalendarEvent) error {
		m.CalendarEventsCalendarID = calendarID
		return nil
	})
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Events().Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[EVENTS] deleted id=%s", id)
	return nil
}

func checkRefs(ctx context.Context, store repository.Store, m *model.CalendarEvent) error {
	if err := checkCategory(ctx, store, m.CalendarEventsCategoryID); err != nil {
		return err
	}
	if m.CalendarEventsCalendarID != nil {
		return checkCalendar(ctx, store, *m.CalendarEventsCalendarID)
	}
	return nil
}

func checkCategory(ctx context.Context, store repository.Store, id uuid.UUID) error {
	if _, err := store.Categories().Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return inputErr("category", ErrUnknownCategory)
		}
		return err
	}
	return nil
}

func checkCalendar(ctx context.Context, store repository.Store, id uuid.UUID) error {
	if _, err := store.Calendars().Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return inputErr("calendar", ErrUnknownCalendar)
		}
		return err
	}
	return nil
}
