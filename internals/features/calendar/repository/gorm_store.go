// file: internals/features/calendar/repository/gorm_store.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "emiscal_backend/internals/features/calendar/model"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore backs every repository with the given connection.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Categories() CategoryRepository { return &gormCategories{db: s.db} }
func (s *gormStore) Events() EventRepository        { return &gormEvents{db: s.db} }
func (s *gormStore) Calendars() CalendarRepository  { return &gormCalendars{db: s.db} }
func (s *gormStore) Layouts() LayoutRepository      { return &gormLayouts{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- PG error mapping ---
// 23505 unique_violation, 23503 foreign_key_violation
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return errors.Join(ErrDuplicate, err)
		case "23503":
			return errors.Join(ErrReference, err)
		}
	}
	return err
}

/* =========================
   Categories
   ========================= */

type gormCategories struct{ db *gorm.DB }

func (r *gormCategories) List(ctx context.Context) ([]model.EventCategory, error) {
	var rows []model.EventCategory
	err := r.db.WithContext(ctx).
		Order("event_categories_name ASC").
		Find(&rows).Error
	return rows, mapErr(err)
}

func (r *gormCategories) Get(ctx context.Context, id uuid.UUID) (*model.EventCategory, error) {
	var m model.EventCategory
	if err := r.db.WithContext(ctx).
		Where("event_categories_id = ?", id).
		First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *gormCategories) Create(ctx context.Context, m *model.EventCategory) error {
	return mapErr(r.db.WithContext(ctx).Create(m).Error)
}

func (r *gormCategories) Save(ctx context.Context, m *model.EventCategory) error {
	return mapErr(r.db.WithContext(ctx).Save(m).Error)
}

/* =========================
   Events
   ========================= */

type gormEvents struct{ db *gorm.DB }

func (r *gormEvents) List(ctx context.Context, f EventFilter) ([]model.CalendarEvent, error) {
	tx := r.db.WithContext(ctx).Model(&model.CalendarEvent{})

	if f.UnlinkedOnly {
		tx = tx.Where("calendar_events_calendar_id IS NULL")
	} else if f.CalendarID != nil {
		tx = tx.Where("calendar_events_calendar_id = ?", *f.CalendarID)
	}
	if len(f.CategoryIDs) > 0 {
		ids := make([]string, 0, len(f.CategoryIDs))
		for _, id := range f.CategoryIDs {
			ids = append(ids, id.String())
		}
		tx = tx.Where("calendar_events_category_id = ANY(?::uuid[])", pq.Array(ids))
	}
	if f.StartFrom != nil {
		tx = tx.Where("calendar_events_start_date >= ?", *f.StartFrom)
	}
	if f.StartTo != nil {
		tx = tx.Where("calendar_events_start_date <= ?", *f.StartTo)
	}

	var rows []model.CalendarEvent
	err := tx.
		Order("calendar_events_created_at ASC, calendar_events_id ASC").
		Find(&rows).Error
	return rows, mapErr(err)
}

func (r *gormEvents) Get(ctx context.Context, id uuid.UUID) (*model.CalendarEvent, error) {
	var m model.CalendarEvent
	if err := r.db.WithContext(ctx).
		Where("calendar_events_id = ?", id).
		First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *gormEvents) Create(ctx context.Context, m *model.CalendarEvent) error {
	return mapErr(r.db.WithContext(ctx).Create(m).Error)
}

func (r *gormEvents) Save(ctx context.Context, m *model.CalendarEvent) error {
	return mapErr(r.db.WithContext(ctx).Save(m).Error)
}

func (r *gormEvents) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("calendar_events_id = ?", id).
		Delete(&model.CalendarEvent{})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormEvents) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("calendar_events_deleted_at IS NOT NULL AND calendar_events_deleted_at < ?", before).
		Delete(&model.CalendarEvent{})
	return res.RowsAffected, mapErr(res.Error)
}

/* =========================
   Calendars
   ========================= */

type gormCalendars struct{ db *gorm.DB }

func (r *gormCalendars) List(ctx context.Context) ([]model.Calendar, error) {
	var rows []model.Calendar
	err := r.db.WithContext(ctx).
		Order("calendars_start_date DESC, calendars_title ASC").
		Find(&rows).Error
	return rows, mapErr(err)
}

func (r *gormCalendars) Get(ctx context.Context, id uuid.UUID) (*model.Calendar, error) {
	var m model.Calendar
	if err := r.db.WithContext(ctx).
		Where("calendars_id = ?", id).
		First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *gormCalendars) Create(ctx context.Context, m *model.Calendar) error {
	return mapErr(r.db.WithContext(ctx).Create(m).Error)
}

func (r *gormCalendars) Save(ctx context.Context, m *model.Calendar) error {
	return mapErr(r.db.WithContext(ctx).Save(m).Error)
}

/* =========================
   Layouts
   ========================= */

type gormLayouts struct{ db *gorm.DB }

func (r *gormLayouts) List(ctx context.Context) ([]model.CalendarLayout, error) {
	var rows []model.CalendarLayout
	err := r.db.WithContext(ctx).
		Order("calendar_layouts_created_at ASC, calendar_layouts_id ASC").
		Find(&rows).Error
	return rows, mapErr(err)
}

func (r *gormLayouts) Get(ctx context.Context, id uuid.UUID) (*model.CalendarLayout, error) {
	var m model.CalendarLayout
	if err := r.db.WithContext(ctx).
		Where("calendar_layouts_id = ?", id).
		First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *gormLayouts) Create(ctx context.Context, m *model.CalendarLayout) error {
	return mapErr(r.db.WithContext(ctx).Create(m).Error)
}

func (r *gormLayouts) Save(ctx context.Context, m *model.CalendarLayout) error {
	return mapErr(r.db.WithContext(ctx).Save(m).Error)
}

func (r *gormLayouts) Activate(ctx context.Context, id uuid.UUID) error {
	return mapErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.CalendarLayout
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("calendar_layouts_id = ?", id).
			First(&m).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CalendarLayout{}).
			Where("calendar_layouts_id <> ? AND calendar_layouts_is_active = TRUE", id).
			Update("calendar_layouts_is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&m).Update("calendar_layouts_is_active", true).Error
	}))
}
