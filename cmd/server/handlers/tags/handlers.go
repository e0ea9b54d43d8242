package tags

import (
	"context"
	"errors"

	"noteful/cmd/server/handlers/handlerutil"
	"noteful/cmd/server/handlers/httperr"
	"noteful/internal/services/tags"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for tags service
type Service interface {
	List(ctx context.Context) ([]*tags.Tag, error)
	Get(ctx context.Context, id bson.ObjectID) (*tags.Tag, error)
	Create(ctx context.Context, req tags.CreateTagRequest) (*tags.Tag, error)
	Update(ctx context.Context, id bson.ObjectID, req tags.UpdateTagRequest) (*tags.Tag, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

var (
	errMissingNameCreate = httperr.E{Status: fiber.StatusBadRequest, Message: "Missing `name` from request body"}
	errMissingNameUpdate = httperr.E{Status: fiber.StatusBadRequest, Message: "Missing `name` in request body"}
	errDuplicateName     = httperr.E{Status: fiber.StatusBadRequest, Message: "This tag `name` already exist"}
)

// Handlers contains the tags HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new tags handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// List handles tags listing
// @Summary List tags sorted by name
// @Tags tags
// @Produce json
// @Success 200 {array} tags.Tag
// @Failure 401 {object} httperr.E
// @Router /api/tags [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	resp, err := h.service.List(c.Context())
	if err != nil {
		return handlerutil.ServiceError(err, "ListTags", nil)
	}
	return c.JSON(resp)
}

// Get handles a single tag lookup
// @Summary Get a tag
// @Tags tags
// @Produce json
// @Param id path string true "Tag ID"
// @Success 200 {object} tags.Tag
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/tags/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "GetTag")
	if err != nil {
		return err
	}

	resp, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, tags.ErrTagNotFound) {
			return c.Next()
		}
		return handlerutil.ServiceError(err, "GetTag", &id)
	}
	return c.JSON(resp)
}

// Create handles tag creation
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body tags.CreateTagRequest true "Create tag request"
// @Success 201 {object} tags.Tag
// @Header 201 {string} Location "/api/tags/{id}"
// @Failure 400 {object} httperr.E
// @Router /api/tags [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req tags.CreateTagRequest
	missing := handlerutil.MissingFields{"name": errMissingNameCreate}
	if err := handlerutil.ParseBody(c, &req, h.validator, "CreateTag", missing); err != nil {
		return err
	}

	resp, err := h.service.Create(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, tags.ErrMissingName):
			return httperr.Fail(errMissingNameCreate)
		case errors.Is(err, tags.ErrDuplicateName):
			return httperr.Fail(errDuplicateName)
		}
		return handlerutil.ServiceError(err, "CreateTag", nil)
	}

	return handlerutil.Created(c, resp.ID.Hex(), resp)
}

// Update handles tag renames
// @Summary Rename a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "Tag ID"
// @Param request body tags.UpdateTagRequest true "Update tag request"
// @Success 200 {object} tags.Tag
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/tags/{id} [put]
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "UpdateTag")
	if err != nil {
		return err
	}

	var req tags.UpdateTagRequest
	missing := handlerutil.MissingFields{"name": errMissingNameUpdate}
	if err := handlerutil.ParseBody(c, &req, h.validator, "UpdateTag", missing); err != nil {
		return err
	}

	resp, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, tags.ErrTagNotFound):
			return c.Next()
		case errors.Is(err, tags.ErrMissingName):
			return httperr.Fail(errMissingNameUpdate)
		case errors.Is(err, tags.ErrDuplicateName):
			return httperr.Fail(errDuplicateName)
		}
		return handlerutil.ServiceError(err, "UpdateTag", &id)
	}

	return c.JSON(resp)
}

// Delete handles tag deletion. References are pulled from every note.
// @Summary Delete a tag
// @Tags tags
// @Param id path string true "Tag ID"
// @Success 204
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/tags/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "DeleteTag")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, tags.ErrTagNotFound) {
			return c.Next()
		}
		return handlerutil.ServiceError(err, "DeleteTag", &id)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
