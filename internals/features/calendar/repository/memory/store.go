// Package memory is an in-process Store used by tests and by DB_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	now  func() time.Time
	seq  int64

	categories map[uuid.UUID]model.EventCategory
	events     map[uuid.UUID]model.CalendarEvent
	calendars  map[uuid.UUID]model.Calendar
	layouts    map[uuid.UUID]model.CalendarLayout
	// insertion order, standing in for created_at ordering
	order map[uuid.UUID]int64
}

func New() *Store {
	return &Store{
		now:        time.Now,
		categories: map[uuid.UUID]model.EventCategory{},
		events:     map[uuid.UUID]model.CalendarEvent{},
		calendars:  map[uuid.UUID]model.Calendar{},
		layouts:    map[uuid.UUID]model.CalendarLayout{},
		order:      map[uuid.UUID]int64{},
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Categories() repository.CategoryRepository { return categories{s} }
func (s *Store) Events() repository.EventRepository        { return events{s} }
func (s *Store) Calendars() repository.CalendarRepository  { return calendars{s} }
func (s *Store) Layouts() repository.LayoutRepository      { return layouts{s} }

// Transaction restores a snapshot when fn fails. Transactions are serialized
// with each other but not isolated from plain writes running alongside.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	categories map[uuid.UUID]model.EventCategory
	events     map[uuid.UUID]model.CalendarEvent
	calendars  map[uuid.UUID]model.Calendar
	layouts    map[uuid.UUID]model.CalendarLayout
	order      map[uuid.UUID]int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		categories: copyMap(s.categories),
		events:     copyMap(s.events),
		calendars:  copyMap(s.calendars),
		layouts:    copyMap(s.layouts),
		order:      copyMap(s.order),
	}
}

func (s *Store) restore(sn snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = sn.categories
	s.events = sn.events
	s.calendars = sn.calendars
	s.layouts = sn.layouts
	s.order = sn.order
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// touch assigns insertion order for id; callers hold s.mu.
func (s *Store) touch(id uuid.UUID) {
	if _, ok := s.order[id]; !ok {
		s.seq++
		s.order[id] = s.seq
	}
}

func sortByOrder[T any](s *Store, rows []T, id func(T) uuid.UUID) {
	sort.SliceStable(rows, func(i, j int) bool {
		return s.order[id(rows[i])] < s.order[id(rows[j])]
	})
}

/* =========================
   Categories
   ========================= */

type categories struct{ s *Store }

func (r categories) List(ctx context.Context) ([]model.EventCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.EventCategory, 0, len(r.s.categories))
	for _, m := range r.s.categories {
		if m.EventCategoriesDeletedAt.Valid {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EventCategoriesName < out[j].EventCategoriesName
	})
	return out, nil
}

func (r categories) Get(ctx context.Context, id uuid.UUID) (*model.EventCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.categories[id]
	if !ok || m.EventCategoriesDeletedAt.Valid {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r categories) Create(ctx context.Context, m *model.EventCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := m.BeforeCreate(nil); err != nil {
		return err
	}
	if r.nameTaken(m.EventCategoriesName, m.EventCategoriesID) {
		return repository.ErrDuplicate
	}
	now := r.s.now()
	m.EventCategoriesCreatedAt, m.EventCategoriesUpdatedAt = now, now
	r.s.categories[m.EventCategoriesID] = *m
	r.s.touch(m.EventCategoriesID)
	return nil
}

func (r categories) Save(ctx context.Context, m *model.EventCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[m.EventCategoriesID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(m.EventCategoriesName, m.EventCategoriesID) {
		return repository.ErrDuplicate
	}
	m.EventCategoriesUpdatedAt = r.s.now()
	r.s.categories[m.EventCategoriesID] = *m
	return nil
}

func (r categories) nameTaken(name string, except uuid.UUID) bool {
	for id, c := range r.s.categories {
		if id != except && !c.EventCategoriesDeletedAt.Valid && strings.EqualFold(c.EventCategoriesName, name) {
			return true
		}
	}
	return false
}

/* =========================
   Events
   ========================= */

type events struct{ s *Store }

func (r events) List(ctx context.Context, f repository.EventFilter) ([]model.CalendarEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cats := map[uuid.UUID]bool{}
	for _, id := range f.CategoryIDs {
		cats[id] = true
	}

	out := make([]model.CalendarEvent, 0)
	for _, m := range r.s.events {
		if m.CalendarEventsDeletedAt.Valid {
			continue
		}
		if f.UnlinkedOnly {
			if m.CalendarEventsCalendarID != nil {
				continue
			}
		} else if f.CalendarID != nil {
			if m.CalendarEventsCalendarID == nil || *m.CalendarEventsCalendarID != *f.CalendarID {
				continue
			}
		}
		if len(cats) > 0 && !cats[m.CalendarEventsCategoryID] {
			continue
		}
		if f.StartFrom != nil && m.CalendarEventsStartDate.Before(*f.StartFrom) {
			continue
		}
		if f.StartTo != nil && m.CalendarEventsStartDate.After(*f.StartTo) {
			continue
		}
		out = append(out, cloneEvent(m))
	}
	sortByOrder(r.s, out, func(m model.CalendarEvent) uuid.UUID { return m.CalendarEventsID })
	return out, nil
}

func (r events) Get(ctx context.Context, id uuid.UUID) (*model.CalendarEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.events[id]
	if !ok || m.CalendarEventsDeletedAt.Valid {
		return nil, repository.ErrNotFound
	}
	c := cloneEvent(m)
	return &c, nil
}

func (r events) Create(ctx context.Context, m *model.CalendarEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := m.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := r.s.events[m.CalendarEventsID]; ok {
		return repository.ErrDuplicate
	}
	now := r.s.now()
	m.CalendarEventsCreatedAt, m.CalendarEventsUpdatedAt = now, now
	r.s.events[m.CalendarEventsID] = cloneEvent(*m)
	r.s.touch(m.CalendarEventsID)
	return nil
}

func (r events) Save(ctx context.Context, m *model.CalendarEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.events[m.CalendarEventsID]
	if !ok || cur.CalendarEventsDeletedAt.Valid {
		return repository.ErrNotFound
	}
	m.CalendarEventsUpdatedAt = r.s.now()
	r.s.events[m.CalendarEventsID] = cloneEvent(*m)
	return nil
}

func (r events) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.events[id]
	if !ok || m.CalendarEventsDeletedAt.Valid {
		return repository.ErrNotFound
	}
	m.CalendarEventsDeletedAt = gorm.DeletedAt{Time: r.s.now(), Valid: true}
	r.s.events[id] = m
	return nil
}

func (r events) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.events {
		if m.CalendarEventsDeletedAt.Valid && m.CalendarEventsDeletedAt.Time.Before(before) {
			delete(r.s.events, id)
			delete(r.s.order, id)
			n++
		}
	}
	return n, nil
}

func cloneEvent(m model.CalendarEvent) model.CalendarEvent {
	if m.CalendarEventsDescription != nil {
		v := *m.CalendarEventsDescription
		m.CalendarEventsDescription = &v
	}
	if m.CalendarEventsLocation != nil {
		v := *m.CalendarEventsLocation
		m.CalendarEventsLocation = &v
	}
	if m.CalendarEventsDurationMinutes != nil {
		v := *m.CalendarEventsDurationMinutes
		m.CalendarEventsDurationMinutes = &v
	}
	if m.CalendarEventsCalendarID != nil {
		v := *m.CalendarEventsCalendarID
		m.CalendarEventsCalendarID = &v
	}
	return m
}

/* =========================
   Calendars
   ========================= */

type calendars struct{ s *Store }

func (r calendars) List(ctx context.Context) ([]model.Calendar, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Calendar, 0, len(r.s.calendars))
	for _, m := range r.s.calendars {
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CalendarsStartDate.Equal(b.CalendarsStartDate) {
			return a.CalendarsStartDate.After(b.CalendarsStartDate)
		}
		return a.CalendarsTitle < b.CalendarsTitle
	})
	return out, nil
}

func (r calendars) Get(ctx context.Context, id uuid.UUID) (*model.Calendar, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.calendars[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r calendars) Create(ctx context.Context, m *model.Calendar) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := m.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.s.now()
	m.CalendarsCreatedAt, m.CalendarsUpdatedAt = now, now
	r.s.calendars[m.CalendarsID] = *m
	r.s.touch(m.CalendarsID)
	return nil
}

func (r calendars) Save(ctx context.Context, m *model.Calendar) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.calendars[m.CalendarsID]; !ok {
		return repository.ErrNotFound
	}
	m.CalendarsUpdatedAt = r.s.now()
	r.s.calendars[m.CalendarsID] = *m
	return nil
}

/* =========================
   Layouts
   ========================= */

type layouts struct{ s *Store }

func (r layouts) List(ctx context.Context) ([]model.CalendarLayout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.CalendarLayout, 0, len(r.s.layouts))
	for _, m := range r.s.layouts {
		out = append(out, m)
	}
	sortByOrder(r.s, out, func(m model.CalendarLayout) uuid.UUID { return m.CalendarLayoutsID })
	return out, nil
}

func (r layouts) Get(ctx context.Context, id uuid.UUID) (*model.CalendarLayout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.layouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r layouts) Create(ctx context.Context, m *model.CalendarLayout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := m.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.s.now()
	m.CalendarLayoutsCreatedAt, m.CalendarLayoutsUpdatedAt = now, now
	r.s.layouts[m.CalendarLayoutsID] = *m
	r.s.touch(m.CalendarLayoutsID)
	return nil
}

func (r layouts) Save(ctx context.Context, m *model.CalendarLayout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.layouts[m.CalendarLayoutsID]; !ok {
		return repository.ErrNotFound
	}
	m.CalendarLayoutsUpdatedAt = r.s.now()
	r.s.layouts[m.CalendarLayoutsID] = *m
	return nil
}

func (r layouts) Activate(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.layouts[id]; !ok {
		return repository.ErrNotFound
	}
	for k, m := range r.s.layouts {
		m.CalendarLayoutsIsActive = k == id
		r.s.layouts[k] = m
	}
	return nil
}
