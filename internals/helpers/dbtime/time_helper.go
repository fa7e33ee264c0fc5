package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Locals keys for the calendar's timezone.
const (
	LocCalendarTimezone = "calendar_timezone" // string, e.g. "Asia/Jakarta"
	LocCalendarLoc      = "calendar_loc"      // *time.Location
)

// WithLocation stores loc for CalendarLocation.
func WithLocation(loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if loc != nil {
			c.Locals(LocCalendarLoc, loc)
		}
		return c.Next()
	}
}

// CalendarLocation resolves the timezone event wall-clock times are read in:
// the *time.Location local, then the timezone name local, then Asia/Jakarta,
// then UTC.
func CalendarLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if loc, ok := c.Locals(LocCalendarLoc).(*time.Location); ok && loc != nil {
		return loc
	}
	if s, ok := c.Locals(LocCalendarTimezone).(string); ok && strings.TrimSpace(s) != "" {
		if loc, err := time.LoadLocation(strings.TrimSpace(s)); err == nil {
			c.Locals(LocCalendarLoc, loc)
			return loc
		}
	}
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		c.Locals(LocCalendarLoc, loc)
		return loc
	}
	return time.UTC
}
