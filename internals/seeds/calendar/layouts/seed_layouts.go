package layouts

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/service"
)

const DefaultName = "Default"

// SeedDefaultLayout creates and activates a monthly layout with every
// category in the sidebar, unless some layout already exists.
func SeedDefaultLayout(ctx context.Context, layouts *service.LayoutService, cats *service.CategoryService) (bool, error) {
	rows, err := layouts.List(ctx)
	if err != nil {
		return false, errors.Wrap(err, "list layouts")
	}
	if len(rows) > 0 {
		log.Printf("[SEED] %d layout(s) exist, default skipped", len(rows))
		return false, nil
	}
	all, err := cats.List(ctx)
	if err != nil {
		return false, errors.Wrap(err, "list categories")
	}
	ids := make([]uuid.UUID, 0, len(all))
	for _, c := range all {
		ids = append(ids, c.EventCategoriesID)
	}

	m := &model.CalendarLayout{CalendarLayoutsName: DefaultName}
	m.SetConfig(model.LayoutConfig{
		Sidebar: model.LayoutSidebar{CategoryIDs: ids},
		Content: model.LayoutContent{Mode: model.ContentMonthly, CategoryIDs: []uuid.UUID{}},
	})
	if err := layouts.Create(ctx, m); err != nil {
		return false, errors.Wrap(err, "create default layout")
	}
	if _, err := layouts.Activate(ctx, m.CalendarLayoutsID); err != nil {
		return false, errors.Wrap(err, "activate default layout")
	}
	log.Printf("[SEED] default layout %s created", m.CalendarLayoutsID)
	return true, nil
}
