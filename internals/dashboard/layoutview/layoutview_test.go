package layoutview_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emiscal_backend/internals/dashboard/api"
	"emiscal_backend/internals/dashboard/layoutview"
	"emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
	testutil "emiscal_backend/internals/tests"
)

type fixture struct {
	client     *api.Client
	tr         *testutil.Transport
	exam, trip model.EventCategory
	calendar   api.Calendar
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	app, store := testutil.NewApp(t)
	c, tr := testutil.Client(t, app)
	f := fixture{
		client: c,
		tr:     tr,
		exam:   testutil.CreateCategory(t, store, "Ujian", "#FF0000"),
		trip:   testutil.CreateCategory(t, store, "Karyawisata", "#0000FF"),
	}
	cal, err := c.CreateCalendar(ctx, api.CalendarInput{
		Title:     "Fall 2025",
		StartDate: schedule.NewDate(schedule.MustDate("2025-08-01")),
		EndDate:   schedule.NewDate(schedule.MustDate("2025-12-20")),
	})
	require.NoError(t, err)
	f.calendar = cal

	add := func(title string, cat model.EventCategory, on string) {
		in := api.NewEventInput(title, cat.EventCategoriesID,
			schedule.OnDay(schedule.MustDate(on), dbtime.MustParse("08:00"), dbtime.MustParse("10:00")))
		in.Calendar = &cal.ID
		_, err := c.CreateEvent(ctx, in)
		require.NoError(t, err)
	}
	add("Midterm", f.exam, "2025-10-06")
	add("Museum visit", f.trip, "2025-10-06")
	add("Finals", f.exam, "2025-12-08")
	// outside the calendar
	_, err = c.CreateEvent(ctx, api.NewEventInput("Stray", f.exam.EventCategoriesID,
		schedule.OnDay(schedule.MustDate("2025-10-07"), dbtime.MustParse("08:00"), dbtime.MustParse("09:00"))))
	require.NoError(t, err)
	return f
}

func ids(cats ...model.EventCategory) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.EventCategoriesID)
	}
	return out
}

func TestComposeMonthly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ed := layoutview.NewEditor(f.client, "Default")
	ed.ToggleSidebarCategory(f.exam.EventCategoriesID)
	_, err := ed.Save(ctx)
	require.NoError(t, err)

	v, err := layoutview.Compose(ctx, f.client, layoutview.Options{CalendarID: &f.calendar.ID})
	require.NoError(t, err)

	assert.Equal(t, "Default", v.Layout.Name)
	assert.Len(t, v.Events, 3, "only the calendar's events")
	require.Len(t, v.Sidebar.Months, 5)

	// both events on Oct 6; the later one in fetch order paints the day
	color, ok := v.Sidebar.ColorOn(schedule.MustDate("2025-10-06"))
	require.True(t, ok)
	assert.Equal(t, "#0000FF", color)
	_, ok = v.Sidebar.ColorOn(schedule.MustDate("2025-10-07"))
	assert.False(t, ok)

	require.Len(t, v.Sidebar.Checklist, 2)
	for _, item := range v.Sidebar.Checklist {
		assert.Equal(t, item.Category.ID == f.exam.EventCategoriesID, item.Checked, item.Category.Name)
	}

	assert.Equal(t, api.ContentMonthly, v.Content.Mode)
	require.Len(t, v.Content.Monthly, 5)
	byMonth := map[time.Month]int{}
	for _, g := range v.Content.Monthly {
		byMonth[g.Month] = len(g.Events)
	}
	assert.Equal(t, map[time.Month]int{time.August: 0, time.September: 0, time.October: 2, time.November: 0, time.December: 1}, byMonth)
}

func TestComposeCategorySlots(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ed := layoutview.NewEditor(f.client, "Exams only")
	require.NoError(t, ed.SetMode(api.ContentCategory))
	require.NoError(t, ed.SetSlot(0, &f.exam.EventCategoriesID))
	_, err := ed.Save(ctx)
	require.NoError(t, err)

	v, err := layoutview.Compose(ctx, f.client, layoutview.Options{CalendarID: &f.calendar.ID})
	require.NoError(t, err)
	assert.Equal(t, api.ContentCategory, v.Content.Mode)
	require.NotNil(t, v.Content.Slots[0].Category)
	assert.Equal(t, "Ujian", v.Content.Slots[0].Category.Name)
	assert.Len(t, v.Content.Slots[0].Events, 2)
	assert.True(t, v.Content.Slots[1].Empty())
}

func TestComposeDefaultsToCurrentYear(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := layoutview.NewEditor(f.client, "Default").Save(ctx)
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC) }
	v, err := layoutview.Compose(ctx, f.client, layoutview.Options{Now: now})
	require.NoError(t, err)
	assert.Nil(t, v.Calendar)
	assert.Equal(t, schedule.MustDate("2025-01-01"), v.Start)
	assert.Equal(t, schedule.MustDate("2025-12-31"), v.End)
	assert.Len(t, v.Sidebar.Months, 12)
	assert.Len(t, v.Events, 4)
}

func TestComposeNoLayouts(t *testing.T) {
	f := setup(t)
	_, err := layoutview.Compose(context.Background(), f.client, layoutview.Options{})
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
}

func TestEditorSaveNeverActivates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := layoutview.NewEditor(f.client, "First").Save(ctx)
	require.NoError(t, err)
	_, err = f.client.ActivateLayout(ctx, first.ID)
	require.NoError(t, err)

	ed := layoutview.NewEditor(f.client, "Second")
	ed.ToggleSidebarCategory(f.trip.EventCategoriesID)
	created, err := ed.Save(ctx)
	require.NoError(t, err)
	assert.False(t, created.Active)
	require.NotNil(t, ed.ID())

	f.tr.Reset()
	ed.Name = "Second (renamed)"
	assert.False(t, ed.ToggleSidebarCategory(f.trip.EventCategoriesID))
	updated, err := ed.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Empty(t, updated.Configuration.Sidebar.Categories)

	for _, c := range f.tr.Calls() {
		assert.NotContains(t, c.Path, "/activate")
		assert.NotEqual(t, http.MethodPost, c.Method)
	}

	all, err := f.client.ListLayouts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.client.ActiveLayout(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
}

func TestEditorLoadAndValidate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ed := layoutview.NewEditor(f.client, "Slots")
	require.NoError(t, ed.SetMode(api.ContentCategory))
	require.NoError(t, ed.SetSlot(1, &f.trip.EventCategoriesID))
	assert.ErrorIs(t, ed.SetSlot(2, &f.trip.EventCategoriesID), layoutview.ErrBadSlot)
	assert.ErrorIs(t, ed.SetMode("weekly"), layoutview.ErrBadMode)
	assert.Equal(t, ids(f.trip), ed.Config().Content.Categories, "empty slot 0 is dropped")
	saved, err := ed.Save(ctx)
	require.NoError(t, err)

	loaded, err := layoutview.Edit(ctx, f.client, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Slots", loaded.Name)
	assert.Equal(t, api.ContentCategory, loaded.Config().Content.Mode)
	assert.Equal(t, ids(f.trip), loaded.Config().Content.Categories)

	loaded.Name = "  "
	_, err = loaded.Save(ctx)
	assert.ErrorIs(t, err, layoutview.ErrNameMissing)
}
