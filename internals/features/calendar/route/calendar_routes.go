package route

import (
	"time"

	"github.com/gofiber/fiber/v2"

	ctl "emiscal_backend/internals/features/calendar/controller"
	"emiscal_backend/internals/features/calendar/repository"
	"emiscal_backend/internals/features/calendar/service"
	"emiscal_backend/internals/helpers/dbtime"
)

// Options tweak the calendar routes.
type Options struct {
	// Location reads event wall-clock times in the ICS export.
	Location *time.Location
	// BuildLimiter guards POST /calendars/build; nil means none.
	BuildLimiter fiber.Handler
}

// CalendarAdminRoutes mounts categories, events, calendars and layouts on r.
func CalendarAdminRoutes(r fiber.Router, store repository.Store, opt Options) {
	categorySvc := service.NewCategoryService(store)
	eventSvc := service.NewEventService(store)
	calendarSvc := service.NewCalendarService(store)
	layoutSvc := service.NewLayoutService(store)

	r.Use(dbtime.WithLocation(opt.Location))

	cat := ctl.NewEventCategoryController(categorySvc)
	categories := r.Group("/categories")
	categories.Get("/", cat.List)
	categories.Post("/", cat.Create)
	categories.Get("/:id", cat.Get)
	categories.Patch("/:id", cat.Patch)

	ev := ctl.NewCalendarEventController(eventSvc)
	events := r.Group("/events")
	events.Get("/", ev.List)
	events.Post("/", ev.Create)
	events.Get("/:id", ev.Get)
	events.Patch("/:id", ev.Patch)
	events.Delete("/:id", ev.Delete)

	cal := ctl.NewCalendarController(calendarSvc, categorySvc)
	calendars := r.Group("/calendars")
	calendars.Get("/", cal.List)
	calendars.Post("/", cal.Create)
	if opt.BuildLimiter != nil {
		calendars.Post("/build", opt.BuildLimiter, cal.Build)
	} else {
		calendars.Post("/build", cal.Build)
	}
	calendars.Get("/:id", cal.Get)
	calendars.Patch("/:id", cal.Patch)
	calendars.Get("/:id/ics", cal.ExportICS)

	lay := ctl.NewCalendarLayoutController(layoutSvc)
	layouts := r.Group("/layouts")
	layouts.Get("/", lay.List)
	layouts.Post("/", lay.Create)
	layouts.Get("/active", lay.Active)
	layouts.Get("/:id", lay.Get)
	layouts.Put("/:id", lay.Update)
	layouts.Post("/:id/activate", lay.Activate)
}
