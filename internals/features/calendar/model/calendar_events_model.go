// file: internals/features/calendar/model/calendar_events_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
)

/* ===================== Enums (Go-side) ===================== */

// EventStatus (varchar(16), CHECK draft|published|postponed|cancelled)
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusPostponed EventStatus = "postponed"
	StatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusPostponed, StatusCancelled:
		return true
	}
	return false
}

/* ===================== Model ===================== */

type CalendarEvent struct {
	CalendarEventsID uuid.UUID `gorm:"type:uuid;primaryKey;column:calendar_events_id" json:"calendar_events_id"`

	CalendarEventsTitle      string    `gorm:"type:varchar(160);not null;column:calendar_events_title" json:"calendar_events_title"`
	CalendarEventsCategoryID uuid.UUID `gorm:"type:uuid;not null;column:calendar_events_category_id;index:idx_calendar_events_category" json:"calendar_events_category_id"`

	// Waktu: type decides whether end_date may differ from start_date
	CalendarEventsType            schedule.Kind `gorm:"type:varchar(8);not null;default:'single';column:calendar_events_type" json:"calendar_events_type"`
	CalendarEventsStartDate       time.Time     `gorm:"type:date;not null;column:calendar_events_start_date;index:idx_calendar_events_start" json:"calendar_events_start_date"`
	CalendarEventsEndDate         time.Time     `gorm:"type:date;not null;column:calendar_events_end_date" json:"calendar_events_end_date"`
	CalendarEventsStartTime       dbtime.Tod    `gorm:"type:time;not null;column:calendar_events_start_time" json:"calendar_events_start_time"`
	CalendarEventsEndTime         dbtime.Tod    `gorm:"type:time;not null;column:calendar_events_end_time" json:"calendar_events_end_time"`
	CalendarEventsDurationMinutes *int          `gorm:"type:int;column:calendar_events_duration_minutes" json:"calendar_events_duration_minutes,omitempty"`

	CalendarEventsDescription *string `gorm:"type:text;column:calendar_events_description" json:"calendar_events_description,omitempty"`
	CalendarEventsLocation    *string `gorm:"type:varchar(255);column:calendar_events_location" json:"calendar_events_location,omitempty"`

	CalendarEventsStatus EventStatus `gorm:"type:varchar(16);not null;default:'draft';column:calendar_events_status" json:"calendar_events_status"`

	// NULL = unlinked
	CalendarEventsCalendarID *uuid.UUID `gorm:"type:uuid;column:calendar_events_calendar_id;index:idx_calendar_events_calendar" json:"calendar_events_calendar_id,omitempty"`

	CalendarEventsCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:calendar_events_created_at" json:"calendar_events_created_at"`
	CalendarEventsUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:calendar_events_updated_at" json:"calendar_events_updated_at"`
	CalendarEventsDeletedAt gorm.DeletedAt `gorm:"column:calendar_events_deleted_at;index" json:"calendar_events_deleted_at,omitempty"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }

func (m *CalendarEvent) BeforeCreate(*gorm.DB) error {
	if m.CalendarEventsID == uuid.Nil {
		m.CalendarEventsID = uuid.New()
	}
	if m.CalendarEventsStatus == "" {
		m.CalendarEventsStatus = StatusDraft
	}
	return nil
}

// Schedule rebuilds the tagged union from the flat columns.
func (m *CalendarEvent) Schedule() (schedule.Schedule, error) {
	end := m.CalendarEventsEndDate
	return schedule.New(
		m.CalendarEventsType,
		m.CalendarEventsStartDate,
		&end,
		schedule.Times{Start: m.CalendarEventsStartTime, End: m.CalendarEventsEndTime},
		m.CalendarEventsDurationMinutes,
	)
}

// SetSchedule flattens s into the columns.
func (m *CalendarEvent) SetSchedule(s schedule.Schedule) {
	m.CalendarEventsType = s.Kind()
	m.CalendarEventsStartDate = s.StartDate()
	m.CalendarEventsEndDate = s.EndDate()
	m.CalendarEventsStartTime = s.Times().Start
	m.CalendarEventsEndTime = s.Times().End
	m.CalendarEventsDurationMinutes = s.DailyDuration()
}

func (m *CalendarEvent) IsLinked() bool { return m.CalendarEventsCalendarID != nil }
