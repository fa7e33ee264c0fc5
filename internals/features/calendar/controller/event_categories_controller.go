// file: internals/features/calendar/controller/event_categories_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"emiscal_backend/internals/features/calendar/dto"
	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/service"
	helper "emiscal_backend/internals/helpers"
)

type EventCategoryController struct {
	Svc       *service.CategoryService
	Validator *validator.Validate
}

func NewEventCategoryController(svc *service.CategoryService) *EventCategoryController {
	return &EventCategoryController{Svc: svc, Validator: helper.Validate}
}

// GET /api/a/categories
func (ctl *EventCategoryController) List(c *fiber.Ctx) error {
	rows, err := ctl.Svc.List(c.UserContext())
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromCategories(rows))
}

// GET /api/a/categories/:id
func (ctl *EventCategoryController) Get(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromCategory(m))
}

// POST /api/a/categories
func (ctl *EventCategoryController) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
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
	return helper.JsonCreated(c, "category created", dto.FromCategory(m))
}

// PATCH /api/a/categories/:id
func (ctl *EventCategoryController) Patch(c *fiber.Ctx) error {
	id, err := getID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.PatchCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.ValidatePartial(); err != nil {
		return writeErr(c, err)
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, func(m *model.EventCategory) { req.ApplyPatch(m) })
	if err != nil {
		return writeErr(c, err)
	}
	return helper.JsonUpdated(c, "category updated", dto.FromCategory(m))
}
