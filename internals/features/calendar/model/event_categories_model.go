// file: internals/features/calendar/model/event_categories_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventCategory struct {
	EventCategoriesID    uuid.UUID `gorm:"type:uuid;primaryKey;column:event_categories_id" json:"event_categories_id"`
	EventCategoriesName  string    `gorm:"type:varchar(120);not null;column:event_categories_name;uniqueIndex:uq_event_categories_name" json:"event_categories_name"`
	EventCategoriesColor string    `gorm:"type:varchar(7);not null;column:event_categories_color" json:"event_categories_color"`

	EventCategoriesCreatedAt time.Time      `gorm:"column:event_categories_created_at;autoCreateTime" json:"event_categories_created_at"`
	EventCategoriesUpdatedAt time.Time      `gorm:"column:event_categories_updated_at;autoUpdateTime" json:"event_categories_updated_at"`
	EventCategoriesDeletedAt gorm.DeletedAt `gorm:"column:event_categories_deleted_at;index" json:"event_categories_deleted_at,omitempty"`
}

func (EventCategory) TableName() string { return "event_categories" }

func (m *EventCategory) BeforeCreate(*gorm.DB) error {
	if m.EventCategoriesID == uuid.Nil {
		m.EventCategoriesID = uuid.New()
	}
	return nil
}
