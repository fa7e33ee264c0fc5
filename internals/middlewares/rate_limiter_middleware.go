package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "emiscal_backend/internals/helpers"
)

func rateLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: untuk semua endpoint biasa. max <= 0 mematikan limiter.
func GlobalRateLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return rateLimiter(max, time.Minute, "❌ Terlalu banyak permintaan. Silakan coba lagi nanti.")
}

// BuildRateLimiter: batch build menulis banyak baris sekaligus, jadi lebih ketat.
func BuildRateLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return rateLimiter(max, time.Minute, "❌ Terlalu banyak penyimpanan kalender. Tunggu sebentar ya.")
}
