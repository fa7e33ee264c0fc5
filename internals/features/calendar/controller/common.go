// file: internals/features/calendar/controller/common.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"emiscal_backend/internals/features/calendar/dto"
	"emiscal_backend/internals/features/calendar/repository"
	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/features/calendar/service"
	helper "emiscal_backend/internals/helpers"
)

/* =========================
   Small helpers
   ========================= */

func getID(c *fiber.Ctx) (uuid.UUID, error) {
	param := strings.TrimSpace(c.Params("id"))
	if param == "" {
		return uuid.Nil, errors.New("missing id")
	}
	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}
	return id, nil
}

// parseBody: body kosong / JSON rusak → 400
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return errors.New("request body is empty")
	}
	if err := c.BodyParser(out); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// writeErr maps service / dto errors onto the JSON envelope.
func writeErr(c *fiber.Ctx, err error) error {
	if fields := helper.FieldErrors(err); fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	var fe *dto.FieldError
	if errors.As(err, &fe) {
		return helper.JsonValidationError(c, map[string][]string{fe.Field: {fe.Err.Error()}})
	}
	var ie *service.InputError
	if errors.As(err, &ie) {
		msg := ie.Err.Error()
		var re *schedule.RangeError
		if errors.As(ie.Err, &re) {
			msg = re.Reason
		}
		return helper.JsonValidationError(c, map[string][]string{ie.Field: {msg}})
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, service.ErrNoLayouts):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		return helper.JsonError(c, fiber.StatusConflict, "already exists")
	case errors.Is(err, repository.ErrReference):
		return helper.JsonError(c, fiber.StatusBadRequest, "referenced record does not exist")
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
}
