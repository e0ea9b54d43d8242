package handlerutil

import (
	"errors"
	"strings"

	"noteful/cmd/server/ctxkeys"
	"noteful/cmd/server/handlers/httperr"
	"noteful/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MissingFields maps a json field name to the error reported when a
// required or notblank rule on it fails. Other failures use InvalidInput.
type MissingFields map[string]httperr.E

// GetUserID extracts user ID from fiber context
func GetUserID(c *fiber.Ctx) (bson.ObjectID, error) {
	userIDStr, ok := c.Locals(ctxkeys.UserIDKey).(string)
	if !ok {
		logger.L().Error("user ID not found in context", "handler", "GetUserID", "path", c.Path())
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}

	userID, err := bson.ObjectIDFromHex(userIDStr)
	if err != nil {
		logger.L().Error("invalid user ID", "handler", "GetUserID", "user_id", userIDStr, "path", c.Path(), "error", err)
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}

	return userID, nil
}

// ParseID reads the :id route parameter. A malformed id is rejected before
// any store call.
func ParseID(c *fiber.Ctx, handlerName string) (bson.ObjectID, error) {
	raw := c.Params("id")
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		logger.L().Info("invalid id parameter", "handler", handlerName, "id", raw)
		return bson.ObjectID{}, httperr.Fail(httperr.ErrInvalidID)
	}
	return id, nil
}

// ParseBody decodes the JSON body into req and validates it. An empty body
// decodes to the zero value so missing fields are reported as such.
func ParseBody(c *fiber.Ctx, req any, v *validator.Validate, handlerName string, missing MissingFields) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			logger.L().Warn("failed to parse request body", "handler", handlerName, "error", err)
			return httperr.Fail(httperr.ErrBadRequest)
		}
	}

	if err := v.Struct(req); err != nil {
		logger.L().Info("request validation failed", "handler", handlerName, "error", err)
		return validationError(err, missing)
	}

	return nil
}

// ParseQuery parses query parameters and validates them
func ParseQuery(c *fiber.Ctx, req any, v *validator.Validate, handlerName string) error {
	if err := c.QueryParser(req); err != nil {
		logger.L().Warn("failed to parse query params", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := v.Struct(req); err != nil {
		logger.L().Info("query validation failed", "handler", handlerName, "error", err)
		return httperr.InvalidInput(err)
	}

	return nil
}

func validationError(err error, missing MissingFields) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if e, ok := missing[fe.Field()]; ok && (fe.Tag() == "required" || fe.Tag() == "notblank") {
			return httperr.Fail(e)
		}
	}
	return httperr.InvalidInput(err)
}

// Created responds 201 with body and a Location header pointing at the new
// resource under the request path.
func Created(c *fiber.Ctx, id string, body any) error {
	c.Location(strings.TrimSuffix(c.Path(), "/") + "/" + id)
	return c.Status(fiber.StatusCreated).JSON(body)
}

// ServiceError logs an unexpected service failure and turns it into a 500.
func ServiceError(err error, handlerName string, id *bson.ObjectID) error {
	logFields := []any{"handler", handlerName, "error", err}
	if id != nil {
		logFields = append(logFields, "id", id.Hex())
	}

	logger.L().Error("service operation failed", logFields...)
	return httperr.Fail(httperr.ErrInternal)
}
