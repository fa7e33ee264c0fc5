// file: internals/features/calendar/model/calendars_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Calendar is a named date range events can be linked into. Its events are
// found by filtering calendar_events on calendar_events_calendar_id.
type Calendar struct {
	CalendarsID        uuid.UUID `gorm:"type:uuid;primaryKey;column:calendars_id" json:"calendars_id"`
	CalendarsTitle     string    `gorm:"type:varchar(160);not null;column:calendars_title" json:"calendars_title"`
	CalendarsStartDate time.Time `gorm:"type:date;not null;column:calendars_start_date" json:"calendars_start_date"`
	CalendarsEndDate   time.Time `gorm:"type:date;not null;column:calendars_end_date" json:"calendars_end_date"`

	CalendarsCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:calendars_created_at" json:"calendars_created_at"`
	CalendarsUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:calendars_updated_at" json:"calendars_updated_at"`
}

func (Calendar) TableName() string { return "calendars" }

func (m *Calendar) BeforeCreate(*gorm.DB) error {
	if m.CalendarsID == uuid.Nil {
		m.CalendarsID = uuid.New()
	}
	return nil
}
