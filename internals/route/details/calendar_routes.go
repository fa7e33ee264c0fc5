package details

import (
	"github.com/gofiber/fiber/v2"

	"emiscal_backend/internals/configs"
	"emiscal_backend/internals/features/calendar/repository"
	calendarRoute "emiscal_backend/internals/features/calendar/route"
	middlewares "emiscal_backend/internals/middlewares"
)

func CalendarAdminRoutes(admin fiber.Router, store repository.Store, cfg configs.Config) {
	buildMax := 0
	if cfg.RateLimitMax > 0 {
		buildMax = max(cfg.RateLimitMax/10, 1)
	}
	calendarRoute.CalendarAdminRoutes(admin, store, calendarRoute.Options{
		Location:     cfg.Location(),
		BuildLimiter: middlewares.BuildRateLimiter(buildMax),
	})
}
