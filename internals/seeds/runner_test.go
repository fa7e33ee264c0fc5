package seeds_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository/memory"
	"emiscal_backend/internals/seeds"
)

func TestRunAllSeedsIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, seeds.RunAllSeeds(ctx, store, "."))
	require.NoError(t, seeds.RunAllSeeds(ctx, store, "."))

	cats, err := store.Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 5)
	for _, c := range cats {
		assert.Regexp(t, `^#[0-9A-F]{6}$`, c.EventCategoriesColor)
	}

	layouts, err := store.Layouts().List(ctx)
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.True(t, layouts[0].CalendarLayoutsIsActive)
	cfg := layouts[0].Config()
	assert.Equal(t, model.ContentMonthly, cfg.Content.Mode)
	assert.Len(t, cfg.Sidebar.CategoryIDs, 5)
}

func TestRunAllSeedsMissingFile(t *testing.T) {
	assert.Error(t, seeds.RunAllSeeds(context.Background(), memory.New(), "does-not-exist"))
}
