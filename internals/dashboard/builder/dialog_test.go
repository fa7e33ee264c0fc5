package builder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emiscal_backend/internals/dashboard/builder"
	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
)

func mustTod(s string) dbtime.Tod { return dbtime.MustParse(s) }

func TestDialogFieldErrors(t *testing.T) {
	f := setup(t)
	w := f.authoring(t)
	cat := f.cat.EventCategoriesID.String()
	two := 2000

	tests := []struct {
		name  string
		form  builder.EventForm
		field string
	}{
		{name: "title required", form: builder.EventForm{Category: cat, StartDate: "2025-09-15", StartTime: "09:00", EndTime: "10:00"}, field: "title"},
		{name: "category required", form: builder.EventForm{Title: "X", StartDate: "2025-09-15", StartTime: "09:00", EndTime: "10:00"}, field: "category"},
		{name: "unknown category", form: builder.EventForm{Title: "X", Category: "7c1e3f1a-3b8a-4a53-9d55-1f6a1a2b3c4d", StartDate: "2025-09-15", StartTime: "09:00", EndTime: "10:00"}, field: "category"},
		{name: "bad time", form: builder.EventForm{Title: "X", Category: cat, StartDate: "2025-09-15", StartTime: "9am", EndTime: "10:00"}, field: "start_time"},
		{name: "multi without end", form: builder.EventForm{Title: "X", Category: cat, Type: "multi", StartDate: "2025-09-15", StartTime: "09:00", EndTime: "10:00"}, field: "end_date"},
		{name: "multi end before start", form: builder.EventForm{Title: "X", Category: cat, Type: "multi", StartDate: "2025-09-15", EndDate: "2025-09-14", StartTime: "09:00", EndTime: "10:00"}, field: "end_date"},
		{name: "duration too long", form: builder.EventForm{Title: "X", Category: cat, Type: "multi", StartDate: "2025-09-15", EndDate: "2025-09-16", StartTime: "09:00", EndTime: "10:00", Duration: &two}, field: "duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dlg, err := w.OpenDay(context.Background(), day("2025-09-15"))
			require.NoError(t, err)
			dlg.Form = tt.form

			_, err = dlg.Confirm()
			var fe builder.FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe, tt.field)
			assert.False(t, dlg.Closed())
		})
	}
	assert.Empty(t, w.Drafts())
}

func TestDialogSingleDayDropsEnd(t *testing.T) {
	f := setup(t)
	w := f.authoring(t)
	dlg, err := w.OpenDay(context.Background(), day("2025-09-15"))
	require.NoError(t, err)
	assert.Equal(t, "2025-09-15", dlg.Form.StartDate)

	d90 := 90
	dlg.Form = builder.EventForm{
		Title: "Orientation Day", Category: f.cat.EventCategoriesID.String(),
		StartDate: "2025-09-15", EndDate: "2025-09-20",
		StartTime: "09:00", EndTime: "12:00", Duration: &d90,
	}
	d, err := dlg.Confirm()
	require.NoError(t, err)
	require.NotNil(t, d.New)
	assert.Equal(t, schedule.Single, d.New.Schedule.Kind())
	assert.Nil(t, d.New.Schedule.DailyDuration())
	assert.Equal(t, day("2025-09-15"), d.Date())

	_, err = dlg.Confirm()
	assert.ErrorIs(t, err, builder.ErrDialogClosed)
}

func TestDialogCancel(t *testing.T) {
	f := setup(t)
	w := f.authoring(t)
	dlg, err := w.OpenDay(context.Background(), day("2025-09-15"))
	require.NoError(t, err)
	dlg.Cancel()
	_, err = dlg.Confirm()
	assert.ErrorIs(t, err, builder.ErrDialogClosed)
	assert.Empty(t, w.Drafts())
}
