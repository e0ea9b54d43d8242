package httperr

import (
	"errors"

	"noteful/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// E represents an HTTP error with status code and message
type E struct {
	Status  int    `json:"-" example:"400"`
	Message string `json:"error" example:"Bad Request"`
}

// Error implements the error interface
func (e E) Error() string {
	return e.Message
}

// JSON returns the error as JSON response
func (e E) JSON(c *fiber.Ctx) error {
	return c.Status(e.Status).JSON(e)
}

// Fail returns the error for Fiber's global error handler to process
func Fail(err E) error {
	return err
}

// BadRequest returns a 400 carrying msg.
func BadRequest(msg string) error {
	return Fail(E{Status: fiber.StatusBadRequest, Message: msg})
}

// InvalidInput wraps a validation error and returns the standard response.
func InvalidInput(err error) error {
	return BadRequest("Invalid input: " + err.Error())
}

// Pre-defined HTTP errors
var (
	ErrBadRequest         = E{Status: 400, Message: "Bad Request"}
	ErrInvalidID          = E{Status: 400, Message: "The `id` is invalid"}
	ErrUnauthorized       = E{Status: 401, Message: "Unauthorized"}
	ErrInvalidCredentials = E{Status: 401, Message: "Invalid credentials"}
	ErrNotFound           = E{Status: 404, Message: "Not Found"}
	ErrTooManyRequests    = E{Status: 429, Message: "Too Many Requests"}
	ErrInternal           = E{Status: 500, Message: "Internal Server Error"}
)

// Handler is the global error handler for Fiber
func Handler(c *fiber.Ctx, err error) error {
	var e E
	if errors.As(err, &e) {
		return e.JSON(c)
	}

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return c.Status(fiberError.Code).JSON(E{
			Status:  fiberError.Code,
			Message: fiberError.Message,
		})
	}

	logger.L().Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	return ErrInternal.JSON(c)
}
