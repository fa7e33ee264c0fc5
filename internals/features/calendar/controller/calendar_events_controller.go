// file: internals/features/calendar/controller/calendar_events_controller.go
package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"emiscal_backend/internals/features/calendar/dto"
	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/service"
	helper "emiscal_backend/internals/helpers"
)

type CalendarEventController struct {
	Svc       *service.EventService
	Validator *validator.Validate
}

func NewCalendarEventController(svc *service.EventService) *CalendarEventController {
	return &CalendarEventController{Svc: svc, Validator: helper.Validate}
}

/*
=========================================================

	LIST
	GET /api/a/events
	Query: category (repeatable), calendar, unlinked, start_date_from, start_date_to
	=========================================================
*/
func (ctl *CalendarEventController) List(c *fiber.Ctx) error {
	f, err := dto.ParseEventQuery(c)
	if err != nil {
		return writeErr(c, err)
	}
	rows, err := ctl.Svc.List(c.UserContext(), f)
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromEvents(rows))
}

// GET /api/a/events/:id
func (ctl *CalendarEventController) Get(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromEvent(m))
}

// POST /api/a/events
func (ctl *CalendarEventController) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := parseBody(c, &req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return writeErr(c, err)
	}
	m, err := req.ToModel()
	if err != nil {
		return writeErr(c, err)
	}
	if err := ctl.Svc.Create(c.UserContext(), m); err != nil {
		return writeErr(c, err)
	}
	return helper.JsonCreated(c, "event created", dto.FromEvent(m))
}

// PATCH /api/a/events/:id
// Only the fields present in the body are written; {"status": "..."} touches status alone.
func (ctl *CalendarEventController) Patch(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.PatchEventRequest
	if err := parseBody(c, &req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.ValidatePartial(); err != nil {
		return writeErr(c, err)
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, func(m *model.CalendarEvent) error {
		return req.ApplyPatch(m)
	})
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonUpdated(c, "event updated", dto.FromEvent(m))
}

// DELETE /api/a/events/:id
func (ctl *CalendarEventController) Delete(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return writeErr(c, err)
	}
	log.Printf("[EVENTS] delete id=%s by=%s", id, helper.ActorLabel(c))
	return helper.JsonDeleted(c, "event deleted", fiber.Map{"id": id})
}
