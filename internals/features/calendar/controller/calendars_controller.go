// file: internals/features/calendar/controller/calendars_controller.go
package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"emiscal_backend/internals/features/calendar/dto"
	"emiscal_backend/internals/features/calendar/ics"
	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/service"
	helper "emiscal_backend/internals/helpers"
	"emiscal_backend/internals/helpers/dbtime"
)

type CalendarController struct {
	Svc        *service.CalendarService
	Categories *service.CategoryService
	Validator  *validator.Validate
}

func NewCalendarController(svc *service.CalendarService, categories *service.CategoryService) *CalendarController {
	return &CalendarController{Svc: svc, Categories: categories, Validator: helper.Validate}
}

// GET /api/a/calendars
func (ctl *CalendarController) List(c *fiber.Ctx) error {
	rows, err := ctl.Svc.List(c.UserContext())
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromCalendars(rows))
}

// GET /api/a/calendars/:id
func (ctl *CalendarController) Get(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromCalendar(m))
}

// POST /api/a/calendars
func (ctl *CalendarController) Create(c *fiber.Ctx) error {
	var req dto.CreateCalendarRequest
	if err := parseBody(c, &req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return writeErr(c, err)
	}
	start, end, err := req.Range()
	if err != nil {
		return writeErr(c, err)
	}
	m, err := ctl.Svc.Create(c.UserContext(), req.Title, start, end)
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonCreated(c, "calendar created", dto.FromCalendar(m))
}

// PATCH /api/a/calendars/:id
func (ctl *CalendarController) Patch(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.PatchCalendarRequest
	if err := parseBody(c, &req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	patch, err := req.ToPatch()
	if err != nil {
		return writeErr(c, err)
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, patch)
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonUpdated(c, "calendar updated", dto.FromCalendar(m))
}

// POST /api/a/calendars/build
// Creates (or updates, with calendar_id) the calendar and commits every item
// in one transaction.
func (ctl *CalendarController) Build(c *fiber.Ctx) error {
	var req dto.BuildCalendarRequest
	if err := parseBody(c, &req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return writeErr(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return writeErr(c, err)
	}
	res, err := ctl.Svc.Build(c.UserContext(), in)
	if err != nil {
		return writeErr(c, err)
	}
	log.Printf("[CALENDARS] build id=%s items=%d by=%s", res.Calendar.CalendarsID, len(in.Items), helper.ActorLabel(c))
	if in.CalendarID != nil {
		return helper.JsonUpdated(c, "calendar saved", dto.FromBuild(res))
	}
	return helper.JsonCreated(c, "calendar saved", dto.FromBuild(res))
}

// GET /api/a/calendars/:id/ics
func (ctl *CalendarController) ExportICS(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	cal, events, err := ctl.Svc.Events(c.UserContext(), id)
	if err != nil {
		return writeErr(c, err)
	}
	cats, err := ctl.Categories.List(c.UserContext())
	if err != nil {
		return writeErr(c, err)
	}
	byID := make(map[uuid.UUID]model.EventCategory, len(cats))
	for _, cat := range cats {
		byID[cat.EventCategoriesID] = cat
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="calendar-`+id.String()+`.ics"`)
	return c.SendString(ics.Export(cal, events, byID, dbtime.CalendarLocation(c)))
}
