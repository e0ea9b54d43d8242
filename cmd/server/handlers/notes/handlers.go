package notes

import (
	"context"
	"errors"

	"noteful/cmd/server/handlers/handlerutil"
	"noteful/cmd/server/handlers/httperr"
	"noteful/internal/services/notes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for notes service
type Service interface {
	List(ctx context.Context, req notes.ListNotesRequest) ([]*notes.Note, error)
	Get(ctx context.Context, id bson.ObjectID) (*notes.Note, error)
	Create(ctx context.Context, req notes.CreateNoteRequest) (*notes.Note, error)
	Update(ctx context.Context, id bson.ObjectID, req notes.UpdateNoteRequest) (*notes.Note, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

var (
	errMissingTitle     = httperr.E{Status: fiber.StatusBadRequest, Message: "Missing `title` in request body"}
	errInvalidFolderID  = httperr.E{Status: fiber.StatusBadRequest, Message: "The `folderId` is invalid"}
	errInvalidTagFilter = httperr.E{Status: fiber.StatusBadRequest, Message: "The `tagId` is invalid"}
	errInvalidTagID     = httperr.E{Status: fiber.StatusBadRequest, Message: "The `tags` array contains an invalid `id`"}
	errUnknownFolder    = httperr.E{Status: fiber.StatusBadRequest, Message: "The `folderId` does not exist"}
	errUnknownTag       = httperr.E{Status: fiber.StatusBadRequest, Message: "The `tags` array contains an unknown `id`"}
)

// Handlers contains the notes HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new notes handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// List handles notes listing
// @Summary List notes, newest update first
// @Tags notes
// @Produce json
// @Param searchTerm query string false "Case-insensitive match on title or content"
// @Param folderId query string false "Only notes filed in this folder"
// @Param tagId query string false "Only notes carrying this tag"
// @Success 200 {array} notes.Note
// @Failure 400 {object} httperr.E
// @Router /api/notes [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	var req notes.ListNotesRequest
	if err := handlerutil.ParseQuery(c, &req, h.validator, "ListNotes"); err != nil {
		return err
	}

	resp, err := h.service.List(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, notes.ErrInvalidFolderID):
			return httperr.Fail(errInvalidFolderID)
		case errors.Is(err, notes.ErrInvalidTagID):
			return httperr.Fail(errInvalidTagFilter)
		}
		return handlerutil.ServiceError(err, "ListNotes", nil)
	}

	return c.JSON(resp)
}

// Get handles a single note lookup
// @Summary Get a note
// @Tags notes
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} notes.Note
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/notes/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "GetNote")
	if err != nil {
		return err
	}

	resp, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			return c.Next()
		}
		return handlerutil.ServiceError(err, "GetNote", &id)
	}

	return c.JSON(resp)
}

// Create handles note creation
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Param request body notes.CreateNoteRequest true "Create note request"
// @Success 201 {object} notes.Note
// @Header 201 {string} Location "/api/notes/{id}"
// @Failure 400 {object} httperr.E
// @Router /api/notes [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req notes.CreateNoteRequest
	missing := handlerutil.MissingFields{"title": errMissingTitle}
	if err := handlerutil.ParseBody(c, &req, h.validator, "CreateNote", missing); err != nil {
		return err
	}

	resp, err := h.service.Create(c.Context(), req)
	if err != nil {
		if e, ok := inputError(err); ok {
			return httperr.Fail(e)
		}
		return handlerutil.ServiceError(err, "CreateNote", nil)
	}

	return handlerutil.Created(c, resp.ID.Hex(), resp)
}

// Update handles note updates. Only the supplied fields change.
// @Summary Update a note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body notes.UpdateNoteRequest true "Update note request"
// @Success 200 {object} notes.Note
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/notes/{id} [put]
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "UpdateNote")
	if err != nil {
		return err
	}

	var req notes.UpdateNoteRequest
	if err := handlerutil.ParseBody(c, &req, h.validator, "UpdateNote", nil); err != nil {
		return err
	}

	resp, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			return c.Next()
		}
		if e, ok := inputError(err); ok {
			return httperr.Fail(e)
		}
		return handlerutil.ServiceError(err, "UpdateNote", &id)
	}

	return c.JSON(resp)
}

// Delete handles note deletion
// @Summary Delete a note
// @Tags notes
// @Param id path string true "Note ID"
// @Success 204
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /api/notes/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := handlerutil.ParseID(c, "DeleteNote")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			return c.Next()
		}
		return handlerutil.ServiceError(err, "DeleteNote", &id)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func inputError(err error) (httperr.E, bool) {
	switch {
	case errors.Is(err, notes.ErrMissingTitle):
		return errMissingTitle, true
	case errors.Is(err, notes.ErrInvalidFolderID):
		return errInvalidFolderID, true
	case errors.Is(err, notes.ErrInvalidTagID):
		return errInvalidTagID, true
	case errors.Is(err, notes.ErrUnknownFolder):
		return errUnknownFolder, true
	case errors.Is(err, notes.ErrUnknownTag):
		return errUnknownTag, true
	}
	return httperr.E{}, false
}
