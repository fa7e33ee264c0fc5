// file: internals/features/calendar/controller/calendar_layouts_controller.go
package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"emiscal_backend/internals/features/calendar/dto"
	"emiscal_backend/internals/features/calendar/service"
	helper "emiscal_backend/internals/helpers"
)

type CalendarLayoutController struct {
	Svc       *service.LayoutService
	Validator *validator.Validate
}

func NewCalendarLayoutController(svc *service.LayoutService) *CalendarLayoutController {
	return &CalendarLayoutController{Svc: svc, Validator: helper.Validate}
}

// GET /api/a/layouts
func (ctl *CalendarLayoutController) List(c *fiber.Ctx) error {
	rows, err := ctl.Svc.List(c.UserContext())
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromLayouts(rows))
}

// GET /api/a/layouts/active
// Falls back to the first layout when none is flagged active.
func (ctl *CalendarLayoutController) Active(c *fiber.Ctx) error {
	m, err := ctl.Svc.Active(c.UserContext())
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromLayout(m))
}

// GET /api/a/layouts/:id
func (ctl *CalendarLayoutController) Get(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromLayout(m))
}

// POST /api/a/layouts
func (ctl *CalendarLayoutController) Create(c *fiber.Ctx) error {
	var req dto.SaveLayoutRequest
	if err := parseBody(c, &req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return writeErr(c, err)
	}
	m := req.ToModel()
	if err := ctl.Svc.Create(c.UserContext(), m); err != nil {
		return writeErr(c, err)
	}
	return helper.JsonCreated(c, "layout created", dto.FromLayout(m))
}

// PUT /api/a/layouts/:id
func (ctl *CalendarLayoutController) Update(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.SaveLayoutRequest
	if err := parseBody(c, &req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validator); err != nil {
		return writeErr(c, err)
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req.Name, req.Config())
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonUpdated(c, "layout updated", dto.FromLayout(m))
}

// POST /api/a/layouts/:id/activate
func (ctl *CalendarLayoutController) Activate(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	m, err := ctl.Svc.Activate(c.UserContext(), id)
	if err != nil {
		return writeErr(c, err)
	}
	log.Printf("[LAYOUTS] activate id=%s by=%s", id, helper.ActorLabel(c))
	return helper.JsonUpdated(c, "layout activated", dto.FromLayout(m))
}
