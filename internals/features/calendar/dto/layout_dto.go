// file: internals/features/calendar/dto/layout_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
)

type LayoutSidebarRequest struct {
	Categories []uuid.UUID `json:"categories"`
}

type LayoutContentRequest struct {
	Mode       string      `json:"mode" validate:"required,oneof=monthly category"`
	Categories []uuid.UUID `json:"categories" validate:"max=2"`
}

type LayoutConfigRequest struct {
	Sidebar LayoutSidebarRequest `json:"sidebar"`
	Content LayoutContentRequest `json:"content"`
}

// SaveLayoutRequest is the body of both POST /layouts and PUT /layouts/:id.
// The active flag is not part of it; see POST /layouts/:id/activate.
type SaveLayoutRequest struct {
	Name          string              `json:"name" validate:"required,max=120"`
	Configuration LayoutConfigRequest `json:"configuration"`
}

func (r *SaveLayoutRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Configuration.Content.Mode = strings.ToLower(strings.TrimSpace(r.Configuration.Content.Mode))
	r.Configuration.Sidebar.Categories = dedupe(r.Configuration.Sidebar.Categories)
	r.Configuration.Content.Categories = dedupe(r.Configuration.Content.Categories)
}

func (r *SaveLayoutRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

func (r *SaveLayoutRequest) Config() model.LayoutConfig {
	return model.LayoutConfig{
		Sidebar: model.LayoutSidebar{CategoryIDs: nonNil(r.Configuration.Sidebar.Categories)},
		Content: model.LayoutContent{
			Mode:        model.ContentMode(r.Configuration.Content.Mode),
			CategoryIDs: nonNil(r.Configuration.Content.Categories),
		},
	}
}

func (r *SaveLayoutRequest) ToModel() *model.CalendarLayout {
	m := &model.CalendarLayout{CalendarLayoutsName: r.Name}
	m.SetConfig(r.Config())
	return m
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nonNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

/* =========================================================
   Response DTO
   ========================================================= */

type LayoutResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Active        bool               `json:"active"`
	Configuration model.LayoutConfig `json:"configuration"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func FromLayout(m *model.CalendarLayout) LayoutResponse {
	cfg := m.Config()
	cfg.Sidebar.CategoryIDs = nonNil(cfg.Sidebar.CategoryIDs)
	cfg.Content.CategoryIDs = nonNil(cfg.Content.CategoryIDs)
	return LayoutResponse{
		ID:            m.CalendarLayoutsID,
		Name:          m.CalendarLayoutsName,
		Active:        m.CalendarLayoutsIsActive,
		Configuration: cfg,
		CreatedAt:     m.CalendarLayoutsCreatedAt,
		UpdatedAt:     m.CalendarLayoutsUpdatedAt,
	}
}

func FromLayouts(list []model.CalendarLayout) []LayoutResponse {
	out := make([]LayoutResponse, 0, len(list))
	for i := range list {
		out = append(out, FromLayout(&list[i]))
	}
	return out
}
