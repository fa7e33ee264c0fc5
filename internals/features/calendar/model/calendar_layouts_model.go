// file: internals/features/calendar/model/calendar_layouts_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentMode decides how the content pane groups events.
type ContentMode string

const (
	ContentMonthly  ContentMode = "monthly"
	ContentCategory ContentMode = "category"
)

// MaxContentCategories is the number of side-by-side category lists.
const MaxContentCategories = 2

type LayoutSidebar struct {
	CategoryIDs []uuid.UUID `json:"categories"`
}

type LayoutContent struct {
	Mode        ContentMode `json:"mode"`
	CategoryIDs []uuid.UUID `json:"categories"`
}

type LayoutConfig struct {
	Sidebar LayoutSidebar `json:"sidebar"`
	Content LayoutContent `json:"content"`
}

type CalendarLayout struct {
	CalendarLayoutsID       uuid.UUID                        `gorm:"type:uuid;primaryKey;column:calendar_layouts_id" json:"calendar_layouts_id"`
	CalendarLayoutsName     string                           `gorm:"type:varchar(120);not null;column:calendar_layouts_name" json:"calendar_layouts_name"`
	CalendarLayoutsIsActive bool                             `gorm:"not null;default:false;column:calendar_layouts_is_active;index" json:"calendar_layouts_is_active"`
	CalendarLayoutsConfig   datatypes.JSONType[LayoutConfig] `gorm:"type:jsonb;not null;column:calendar_layouts_config" json:"calendar_layouts_config"`

	CalendarLayoutsCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:calendar_layouts_created_at" json:"calendar_layouts_created_at"`
	CalendarLayoutsUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:calendar_layouts_updated_at" json:"calendar_layouts_updated_at"`
}

func (CalendarLayout) TableName() string { return "calendar_layouts" }

func (m *CalendarLayout) BeforeCreate(*gorm.DB) error {
	if m.CalendarLayoutsID == uuid.Nil {
		m.CalendarLayoutsID = uuid.New()
	}
	return nil
}

func (m *CalendarLayout) Config() LayoutConfig { return m.CalendarLayoutsConfig.Data() }

func (m *CalendarLayout) SetConfig(cfg LayoutConfig) {
	m.CalendarLayoutsConfig = datatypes.NewJSONType(cfg)
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&EventCategory{}, &CalendarEvent{}, &Calendar{}, &CalendarLayout{}}
}
