package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository/memory"
	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
)

func TestPurgerRunOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	ev := model.CalendarEvent{CalendarEventsTitle: "Rapat", CalendarEventsCategoryID: uuid.New()}
	ev.SetSchedule(schedule.OnDay(schedule.MustDate("2024-01-10"), dbtime.Clock(9, 0), dbtime.Clock(10, 0)))
	require.NoError(t, store.Events().Create(ctx, &ev))
	require.NoError(t, store.Events().Delete(ctx, ev.CalendarEventsID))

	p := NewPurger(store.Events(), PurgeConfig{RetentionDays: 30})

	n, err := p.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "inside retention")

	p.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	n, err = p.RunOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPurgerDefaultsAndSchedule(t *testing.T) {
	p := NewPurger(memory.New().Events(), PurgeConfig{})
	assert.Equal(t, "15 2 * * *", p.cfg.CronSchedule)
	assert.Equal(t, 30, p.cfg.RetentionDays)

	require.NoError(t, p.Start())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p.Stop(ctx)

	bad := NewPurger(memory.New().Events(), PurgeConfig{CronSchedule: "every other tuesday"})
	assert.Error(t, bad.Start())
}
