package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository"
	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
)

func addEvent(t *testing.T, s *Store, category uuid.UUID, calendar *uuid.UUID, day string) model.CalendarEvent {
	t.Helper()
	m := model.CalendarEvent{
		CalendarEventsTitle:      "Event " + day,
		CalendarEventsCategoryID: category,
		CalendarEventsCalendarID: calendar,
	}
	m.SetSchedule(schedule.OnDay(schedule.MustDate(day), dbtime.Clock(7, 30), dbtime.Clock(9, 0)))
	require.NoError(t, s.Events().Create(context.Background(), &m))
	return m
}

func ids(rows []model.CalendarEvent) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.CalendarEventsID)
	}
	return out
}

func TestEventFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	catA, catB := uuid.New(), uuid.New()
	calID := uuid.New()

	e1 := addEvent(t, s, catA, nil, "2024-03-01")
	e2 := addEvent(t, s, catB, &calID, "2024-03-10")
	e3 := addEvent(t, s, catA, &calID, "2024-04-01")
	e4 := addEvent(t, s, catB, nil, "2024-05-01")

	from, to := schedule.MustDate("2024-03-05"), schedule.MustDate("2024-04-30")
	tests := []struct {
		name   string
		filter repository.EventFilter
		want   []uuid.UUID
	}{
		{name: "all in creation order", want: []uuid.UUID{e1.CalendarEventsID, e2.CalendarEventsID, e3.CalendarEventsID, e4.CalendarEventsID}},
		{name: "unlinked", filter: repository.EventFilter{UnlinkedOnly: true}, want: []uuid.UUID{e1.CalendarEventsID, e4.CalendarEventsID}},
		{name: "calendar", filter: repository.EventFilter{CalendarID: &calID}, want: []uuid.UUID{e2.CalendarEventsID, e3.CalendarEventsID}},
		{name: "category", filter: repository.EventFilter{CategoryIDs: []uuid.UUID{catB}}, want: []uuid.UUID{e2.CalendarEventsID, e4.CalendarEventsID}},
		{name: "start window", filter: repository.EventFilter{StartFrom: &from, StartTo: &to}, want: []uuid.UUID{e2.CalendarEventsID, e3.CalendarEventsID}},
		{
			name:   "combined",
			filter: repository.EventFilter{CalendarID: &calID, CategoryIDs: []uuid.UUID{catA}},
			want:   []uuid.UUID{e3.CalendarEventsID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.Events().List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(rows))
		})
	}
}

func TestListIsStable(t *testing.T) {
	ctx := context.Background()
	s := New()
	cat := uuid.New()
	for _, d := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		addEvent(t, s, cat, nil, d)
	}
	first, err := s.Events().List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	second, err := s.Events().List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	ev := addEvent(t, s, uuid.New(), nil, "2024-02-01")

	got, err := s.Events().Get(ctx, ev.CalendarEventsID)
	require.NoError(t, err)
	got.CalendarEventsTitle = "changed"

	again, err := s.Events().Get(ctx, ev.CalendarEventsID)
	require.NoError(t, err)
	assert.Equal(t, ev.CalendarEventsTitle, again.CalendarEventsTitle)
}

func TestSoftDeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	s := New()
	clock := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	ev := addEvent(t, s, uuid.New(), nil, "2024-06-01")
	require.NoError(t, s.Events().Delete(ctx, ev.CalendarEventsID))

	_, err := s.Events().Get(ctx, ev.CalendarEventsID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.Events().Delete(ctx, ev.CalendarEventsID), repository.ErrNotFound)

	n, err := s.Events().PurgeDeleted(ctx, clock)
	require.NoError(t, err)
	assert.Zero(t, n, "deleted exactly at the cutoff is kept")

	n, err = s.Events().PurgeDeleted(ctx, clock.Add(time.Second))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx repository.Store) error {
		cal := model.Calendar{CalendarsTitle: "x"}
		if err := tx.Calendars().Create(ctx, &cal); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := s.Calendars().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Transaction(cctx, func(repository.Store) error { return nil }), context.Canceled)
}

func TestCategoryNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := model.EventCategory{EventCategoriesName: "Libur", EventCategoriesColor: "#00FF00"}
	require.NoError(t, s.Categories().Create(ctx, &a))
	b := model.EventCategory{EventCategoriesName: "LIBUR", EventCategoriesColor: "#FF0000"}
	assert.ErrorIs(t, s.Categories().Create(ctx, &b), repository.ErrDuplicate)
}
