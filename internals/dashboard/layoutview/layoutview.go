// Package layoutview composes the calendar page from a saved layout: a
// sidebar of coloured mini months and a content pane by month or by category.
package layoutview

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"emiscal_backend/internals/dashboard/api"
	"emiscal_backend/internals/dashboard/monthgrid"
	"emiscal_backend/internals/features/calendar/schedule"
)

// Backend is what the view and editor need; *api.Client satisfies it.
type Backend interface {
	ListCategories(ctx context.Context) ([]api.Category, error)
	ListEvents(ctx context.Context, f api.EventFilter) ([]api.Event, error)
	GetCalendar(ctx context.Context, id uuid.UUID) (api.Calendar, error)
	GetLayout(ctx context.Context, id uuid.UUID) (api.Layout, error)
	ActiveLayout(ctx context.Context) (api.Layout, error)
	CreateLayout(ctx context.Context, in api.LayoutInput) (api.Layout, error)
	UpdateLayout(ctx context.Context, id uuid.UUID, in api.LayoutInput) (api.Layout, error)
}

// Options pick what to compose. Without LayoutID the active layout is used;
// without CalendarID the range is the current calendar year.
type Options struct {
	LayoutID   *uuid.UUID
	CalendarID *uuid.UUID
	WeekStart  time.Weekday
	Now        func() time.Time
}

type CheckItem struct {
	Category api.Category
	Checked  bool
}

type Sidebar struct {
	Months    []monthgrid.Month
	Checklist []CheckItem
	dayColors map[string]string
}

// ColorOn is the colour painted on day, if any event starts that day.
func (s Sidebar) ColorOn(day time.Time) (string, bool) {
	c, ok := s.dayColors[schedule.FormatDate(day)]
	return c, ok
}

type MonthGroup struct {
	Year   int
	Month  time.Month
	Events []api.Event
}

// Slot is one category column; Category is nil when none was chosen.
type Slot struct {
	Category *api.Category
	Events   []api.Event
}

// Empty reports whether the slot shows its empty state.
func (s Slot) Empty() bool { return s.Category == nil || len(s.Events) == 0 }

type Content struct {
	Mode    api.ContentMode
	Monthly []MonthGroup
	Slots   [2]Slot
}

type View struct {
	Layout     api.Layout
	Calendar   *api.Calendar
	Start, End time.Time
	Categories []api.Category
	Events     []api.Event
	Sidebar    Sidebar
	Content    Content
}

// Compose loads the layout, categories and events and lays the page out.
func Compose(ctx context.Context, b Backend, opt Options) (*View, error) {
	if opt.Now == nil {
		opt.Now = time.Now
	}

	var (
		layout api.Layout
		err    error
	)
	if opt.LayoutID != nil {
		layout, err = b.GetLayout(ctx, *opt.LayoutID)
	} else {
		layout, err = b.ActiveLayout(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load layout")
	}

	v := &View{Layout: layout}
	if opt.CalendarID != nil {
		cal, err := b.GetCalendar(ctx, *opt.CalendarID)
		if err != nil {
			return nil, errors.Wrap(err, "load calendar")
		}
		v.Calendar = &cal
		v.Start, v.End = cal.StartDate.Time, cal.EndDate.Time
	} else {
		y := opt.Now().Year()
		v.Start = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		v.End = time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	if v.Categories, err = b.ListCategories(ctx); err != nil {
		return nil, errors.Wrap(err, "load categories")
	}
	v.Events, err = b.ListEvents(ctx, api.EventFilter{
		CalendarID:    opt.CalendarID,
		StartDateFrom: v.Start,
		StartDateTo:   v.End,
	})
	if err != nil {
		return nil, errors.Wrap(err, "load events")
	}

	byID := make(map[uuid.UUID]api.Category, len(v.Categories))
	for _, c := range v.Categories {
		byID[c.ID] = c
	}
	months := monthgrid.Months(v.Start, v.End, monthgrid.Options{WeekStart: opt.WeekStart})
	v.Sidebar = buildSidebar(months, layout.Configuration.Sidebar, v.Categories, byID, v.Events)
	v.Content = buildContent(months, layout.Configuration.Content, byID, v.Events)
	return v, nil
}

func buildSidebar(months []monthgrid.Month, cfg api.LayoutSidebar, cats []api.Category,
	byID map[uuid.UUID]api.Category, events []api.Event) Sidebar {
	s := Sidebar{Months: months, dayColors: map[string]string{}}
	for _, e := range events {
		if c, ok := byID[e.Category]; ok {
			// fetch order; a later event on the same day repaints it
			s.dayColors[e.StartDate.String()] = c.Color
		}
	}
	checked := make(map[uuid.UUID]bool, len(cfg.Categories))
	for _, id := range cfg.Categories {
		checked[id] = true
	}
	for _, c := range cats {
		s.Checklist = append(s.Checklist, CheckItem{Category: c, Checked: checked[c.ID]})
	}
	return s
}

func buildContent(months []monthgrid.Month, cfg api.LayoutContent,
	byID map[uuid.UUID]api.Category, events []api.Event) Content {
	c := Content{Mode: cfg.Mode}
	if c.Mode == api.ContentCategory {
		for i := 0; i < len(c.Slots) && i < len(cfg.Categories); i++ {
			cat, ok := byID[cfg.Categories[i]]
			if !ok {
				continue
			}
			slot := Slot{Category: &cat}
			for _, e := range events {
				if e.Category == cat.ID {
					slot.Events = append(slot.Events, e)
				}
			}
			c.Slots[i] = slot
		}
		return c
	}
	c.Mode = api.ContentMonthly
	for _, m := range months {
		g := MonthGroup{Year: m.Year, Month: m.Month}
		for _, e := range events {
			if e.StartDate.Year() == m.Year && e.StartDate.Month() == m.Month {
				g.Events = append(g.Events, e)
			}
		}
		c.Monthly = append(c.Monthly, g)
	}
	return c
}
