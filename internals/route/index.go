// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"emiscal_backend/internals/configs"
	"emiscal_backend/internals/constants"
	"emiscal_backend/internals/features/calendar/repository"
	helper "emiscal_backend/internals/helpers"
	middlewares "emiscal_backend/internals/middlewares"
	authMiddleware "emiscal_backend/internals/middlewares/auth"
	routeDetails "emiscal_backend/internals/route/details"
)

var startTime time.Time

// NewApp builds the Fiber app with middlewares and every route mounted.
func NewApp(cfg configs.Config, store repository.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.FromFiberError,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})
	middlewares.SetupMiddlewares(app, cfg)
	SetupRoutes(app, cfg, store)
	return app
}

func SetupRoutes(app *fiber.App, cfg configs.Config, store repository.Store) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, store)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              cfg.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.OnlyRoles(constants.CalendarAdminRoles...),
	)

	log.Println("[INFO] Mounting Calendar routes...")
	routeDetails.CalendarAdminRoutes(admin, store, cfg)
}
