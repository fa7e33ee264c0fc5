package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserIDFromToken reads c.Locals("user_id") set by the JWT middleware.
// 401 when missing, 400 when it is not a uuid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	var s string
	switch t := c.Locals("user_id").(type) {
	case uuid.UUID:
		if t != uuid.Nil {
			return t, nil
		}
	case string:
		s = strings.TrimSpace(t)
	case []byte:
		s = strings.TrimSpace(string(t))
	}
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user is not logged in")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "user id in token is not valid")
	}
	return id, nil
}

// ActorLabel is the token's user id for log lines, "unknown" if absent.
func ActorLabel(c *fiber.Ctx) string {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return "unknown"
	}
	return id.String()
}
