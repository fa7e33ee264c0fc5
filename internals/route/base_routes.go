package routes

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"emiscal_backend/internals/features/calendar/repository"
)

// pinger is implemented by stores backed by a real database.
type pinger interface {
	Ping(ctx context.Context) error
}

func BaseRoutes(app *fiber.App, store repository.Store) {
	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if p, ok := store.(pinger); ok {
			if err := p.Ping(c.UserContext()); err != nil {
				dbStatus = "Database connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		} else {
			dbStatus = "In-memory"
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
