package middlewares

import (
	"time"

	"noteful/cmd/server/handlers/httperr"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// SignInLimiter caps login attempts per client IP within window, whatever
// username they name. A non-positive perWindow disables limiting.
func SignInLimiter(perWindow int, window time.Duration) fiber.Handler {
	if perWindow <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        perWindow,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "signin:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return httperr.Fail(httperr.ErrTooManyRequests)
		},
	})
}
