// file: internals/features/calendar/service/layout_service.go
package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository"
)

type LayoutService struct {
	store repository.Store
}

func NewLayoutService(store repository.Store) *LayoutService {
	return &LayoutService{store: store}
}

func (s *LayoutService) List(ctx context.Context) ([]model.CalendarLayout, error) {
	return s.store.Layouts().List(ctx)
}

func (s *LayoutService) Get(ctx context.Context, id uuid.UUID) (*model.CalendarLayout, error) {
	return s.store.Layouts().Get(ctx, id)
}

// Active returns the first layout flagged active, else the first layout.
// Several active rows are tolerated; the oldest wins.
func (s *LayoutService) Active(ctx context.Context) (*model.CalendarLayout, error) {
	rows, err := s.store.Layouts().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoLayouts
	}
	for i := range rows {
		if rows[i].CalendarLayoutsIsActive {
			return &rows[i], nil
		}
	}
	return &rows[0], nil
}

func (s *LayoutService) Create(ctx context.Context, m *model.CalendarLayout) error {
	if err := s.checkConfig(ctx, m.Config()); err != nil {
		return err
	}
	return s.store.Layouts().Create(ctx, m)
}

// Update replaces name and configuration; the active flag is left as stored.
func (s *LayoutService) Update(ctx context.Context, id uuid.UUID, name string, cfg model.LayoutConfig) (*model.CalendarLayout, error) {
	if err := s.checkConfig(ctx, cfg); err != nil {
		return nil, err
	}
	m, err := s.store.Layouts().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.CalendarLayoutsName = name
	m.SetConfig(cfg)
	if err := s.store.Layouts().Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *LayoutService) Activate(ctx context.Context, id uuid.UUID) (*model.CalendarLayout, error) {
	if err := s.store.Layouts().Activate(ctx, id); err != nil {
		return nil, err
	}
	log.Printf("[LAYOUTS] activated id=%s", id)
	return s.store.Layouts().Get(ctx, id)
}

// checkConfig rejects category ids that do not exist.
func (s *LayoutService) checkConfig(ctx context.Context, cfg model.LayoutConfig) error {
	ids := append(append([]uuid.UUID{}, cfg.Sidebar.CategoryIDs...), cfg.Content.CategoryIDs...)
	for _, id := range ids {
		if _, err := s.store.Categories().Get(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return inputErr("configuration", ErrUnknownCategory)
			}
			return err
		}
	}
	return nil
}
