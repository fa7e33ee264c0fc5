// file: internals/features/calendar/dto/category_dto.go
package dto

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
)

var errBadColor = errors.New("must be a #RRGGBB color")

/* =========================================================
   Requests
   ========================================================= */

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Color string `json:"color" validate:"required"`
}

func (r *CreateCategoryRequest) Normalize() {
	r.Name = NormalizeName(r.Name)
	r.Color = normalizeHex(r.Color)
}

func (r *CreateCategoryRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(r); err != nil {
		return err
	}
	if !reHexFull.MatchString(r.Color) {
		return fieldErr("color", errBadColor)
	}
	return nil
}

func (r *CreateCategoryRequest) ToModel() *model.EventCategory {
	return &model.EventCategory{
		EventCategoriesName:  r.Name,
		EventCategoriesColor: r.Color,
	}
}

type PatchCategoryRequest struct {
	Name  PatchField[string] `json:"name"`
	Color PatchField[string] `json:"color"`
}

func (p *PatchCategoryRequest) Normalize() {
	if p.Name.Present && p.Name.Value != nil {
		v := NormalizeName(*p.Name.Value)
		p.Name.Value = &v
	}
	if p.Color.Present && p.Color.Value != nil {
		v := normalizeHex(*p.Color.Value)
		p.Color.Value = &v
	}
}

// ValidatePartial: name and color are NOT NULL, so null is rejected too.
func (p *PatchCategoryRequest) ValidatePartial() error {
	if p.Name.Present {
		if p.Name.Value == nil || *p.Name.Value == "" {
			return fieldErr("name", errors.New("is required"))
		}
		if len([]rune(*p.Name.Value)) > 120 {
			return fieldErr("name", errors.New("must be at most 120 characters"))
		}
	}
	if p.Color.Present && (p.Color.Value == nil || !reHexFull.MatchString(*p.Color.Value)) {
		return fieldErr("color", errBadColor)
	}
	return nil
}

func (p *PatchCategoryRequest) ApplyPatch(m *model.EventCategory) {
	if v, ok := p.Name.Get(); ok && v != nil {
		m.EventCategoriesName = *v
	}
	if v, ok := p.Color.Get(); ok && v != nil {
		m.EventCategoriesColor = *v
	}
}

/* =========================================================
   Response
   ========================================================= */

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromCategory(m *model.EventCategory) CategoryResponse {
	return CategoryResponse{
		ID:        m.EventCategoriesID,
		Name:      m.EventCategoriesName,
		Color:     m.EventCategoriesColor,
		CreatedAt: m.EventCategoriesCreatedAt,
		UpdatedAt: m.EventCategoriesUpdatedAt,
	}
}

func FromCategories(list []model.EventCategory) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, FromCategory(&list[i]))
	}
	return out
}
