package seeds

import (
	"context"
	"path/filepath"

	"emiscal_backend/internals/features/calendar/repository"
	"emiscal_backend/internals/features/calendar/service"
	"emiscal_backend/internals/seeds/calendar/categories"
	"emiscal_backend/internals/seeds/calendar/layouts"
)

// RunAllSeeds loads the reference data under dir (the seeds directory).
func RunAllSeeds(ctx context.Context, store repository.Store, dir string) error {
	catSvc := service.NewCategoryService(store)

	//* Calendar
	if _, err := categories.SeedCategoriesFromJSON(ctx, catSvc,
		filepath.Join(dir, "calendar", "categories", "data_categories.json")); err != nil {
		return err
	}
	if _, err := layouts.SeedDefaultLayout(ctx, service.NewLayoutService(store), catSvc); err != nil {
		return err
	}
	return nil
}
