package handlers

import (
	"noteful/cmd/server/handlers/httperr"

	"github.com/gofiber/fiber/v2"
)

// NotFound terminates the chain with a 404. It must be registered after every
// route so handlers can fall through to it with c.Next().
func NotFound(c *fiber.Ctx) error {
	return httperr.Fail(httperr.ErrNotFound)
}
