package folders

import (
	"context"
	"errors"

	"noteful/cmd/server/handlers/handlerutil"
	"noteful/cmd/server/handlers/httperr"
	"noteful/internal/services/folders"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for folders service
type Service interface {
	List(ctx context.Context) ([]*folders.Folder, error)
	Get(ctx context.Context, id bson.ObjectID) (*folders.Folder, error)
	Create(ctx context.Context, req folders.CreateFolderRequest) (*folders.Folder, error)
	Update(ctx context.Context, id bson.ObjectID, req folders.UpdateFolderRequest) (*folders.Folder, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

var (
	errMissingNameCreate = httperr.E{Status: fiber.StatusBadRequest, Message: "Missing `name` from request body"}
	errMissingNameUpdate = httperr.E{Status: fiber.StatusBadRequest, Message: "Missing `name` in request body"}
	errDuplicateName     = httperr.E{Status: fiber.StatusBadRequest, Message: "This folder `name` already exist"}
)

// Handlers contains the folders HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new folders handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// List handles folders listing
// @Summary List folders sorted by name
// @Tags folders
// @Produce json
// @Success 200 {array} folders.Folder
// @Failure 401 {object} httperr.E
// @Router /api/folders [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	resp, err := h.service.List(c.Context())
	if err != nil {
		return handlerutil.ServiceError(err, "ListFolders", nil)
	}
	return c.JSON(resp)
}

// Get handles a single folder lookup
// @Summary Get a folder
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Success 200 {object} folders.Folder
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/folders/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "GetFolder")
	if err != nil {
		return err
	}

	resp, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, folders.ErrFolderNotFound) {
			return c.Next()
		}
		return handlerutil.ServiceError(err, "GetFolder", &id)
	}
	return c.JSON(resp)
}

// Create handles folder creation
// @Summary Create a folder
// @Tags folders
// @Accept json
// @Produce json
// @Param request body folders.CreateFolderRequest true "Create folder request"
// @Success 201 {object} folders.Folder
// @Header 201 {string} Location "/api/folders/{id}"
// @Failure 400 {object} httperr.E
// @Router /api/folders [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req folders.CreateFolderRequest
	missing := handlerutil.MissingFields{"name": errMissingNameCreate}
	if err := handlerutil.ParseBody(c, &req, h.validator, "CreateFolder", missing); err != nil {
		return err
	}

	resp, err := h.service.Create(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, folders.ErrMissingName):
			return httperr.Fail(errMissingNameCreate)
		case errors.Is(err, folders.ErrDuplicateName):
			return httperr.Fail(errDuplicateName)
		}
		return handlerutil.ServiceError(err, "CreateFolder", nil)
	}

	return handlerutil.Created(c, resp.ID.Hex(), resp)
}

// Update handles folder renames
// @Summary Rename a folder
// @Tags folders
// @Accept json
// @Produce json
// @Param id path string true "Folder ID"
// @Param request body folders.UpdateFolderRequest true "Update folder request"
// @Success 200 {object} folders.Folder
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/folders/{id} [put]
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "UpdateFolder")
	if err != nil {
		return err
	}

	var req folders.UpdateFolderRequest
	missing := handlerutil.MissingFields{"name": errMissingNameUpdate}
	if err := handlerutil.ParseBody(c, &req, h.validator, "UpdateFolder", missing); err != nil {
		return err
	}

	resp, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, folders.ErrFolderNotFound):
			return c.Next()
		case errors.Is(err, folders.ErrMissingName):
			return httperr.Fail(errMissingNameUpdate)
		case errors.Is(err, folders.ErrDuplicateName):
			return httperr.Fail(errDuplicateName)
		}
		return handlerutil.ServiceError(err, "UpdateFolder", &id)
	}

	return c.JSON(resp)
}

// Delete handles folder deletion. Notes filed in it are detached.
// @Summary Delete a folder
// @Tags folders
// @Param id path string true "Folder ID"
// @Success 204
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/folders/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "DeleteFolder")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, folders.ErrFolderNotFound) {
			return c.Next()
		}
		return handlerutil.ServiceError(err, "DeleteFolder", &id)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
