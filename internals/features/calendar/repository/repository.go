// file: internals/features/calendar/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrReference = errors.New("referenced record does not exist")
)

// EventFilter narrows List. Zero value lists every live event.
// StartFrom and StartTo are inclusive bounds on the start date.
type EventFilter struct {
	CalendarID   *uuid.UUID
	UnlinkedOnly bool
	CategoryIDs  []uuid.UUID
	StartFrom    *time.Time
	StartTo      *time.Time
}

type CategoryRepository interface {
	List(ctx context.Context) ([]model.EventCategory, error)
	Get(ctx context.Context, id uuid.UUID) (*model.EventCategory, error)
	Create(ctx context.Context, m *model.EventCategory) error
	Save(ctx context.Context, m *model.EventCategory) error
}

type EventRepository interface {
	List(ctx context.Context, f EventFilter) ([]model.CalendarEvent, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CalendarEvent, error)
	Create(ctx context.Context, m *model.CalendarEvent) error
	Save(ctx context.Context, m *model.CalendarEvent) error
	// Delete is a soft delete; PurgeDeleted removes soft-deleted rows older than before.
	Delete(ctx context.Context, id uuid.UUID) error
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}

type CalendarRepository interface {
	List(ctx context.Context) ([]model.Calendar, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Calendar, error)
	Create(ctx context.Context, m *model.Calendar) error
	Save(ctx context.Context, m *model.Calendar) error
}

type LayoutRepository interface {
	List(ctx context.Context) ([]model.CalendarLayout, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CalendarLayout, error)
	Create(ctx context.Context, m *model.CalendarLayout) error
	Save(ctx context.Context, m *model.CalendarLayout) error
	// Activate marks id active and every other layout inactive.
	Activate(ctx context.Context, id uuid.UUID) error
}

// Store groups the repositories so services can run them in one transaction.
type Store interface {
	Categories() CategoryRepository
	Events() EventRepository
	Calendars() CalendarRepository
	Layouts() LayoutRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
