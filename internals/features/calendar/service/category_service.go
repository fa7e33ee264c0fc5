// file: internals/features/calendar/service/category_service.go
package service

import (
	"context"

	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository"
)

type CategoryService struct {
	store repository.Store
}

func NewCategoryService(store repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context) ([]model.EventCategory, error) {
	return s.store.Categories().List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*model.EventCategory, error) {
	return s.store.Categories().Get(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, m *model.EventCategory) error {
	return s.store.Categories().Create(ctx, m)
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, apply func(m *model.EventCategory)) (*model.EventCategory, error) {
	m, err := s.store.Categories().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(m)
	if err := s.store.Categories().Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
