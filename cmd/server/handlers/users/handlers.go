package users

import (
	"context"
	"errors"

	"noteful/cmd/server/handlers/handlerutil"
	"noteful/cmd/server/handlers/httperr"
	"noteful/internal/logger"
	"noteful/internal/services/users"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for users service
type Service interface {
	SignUp(ctx context.Context, req users.SignUpRequest) (*users.User, error)
	SignIn(ctx context.Context, req users.SignInRequest) (*users.AuthResponse, error)
	Refresh(ctx context.Context, userID bson.ObjectID) (*users.AuthResponse, error)
}

var (
	errDuplicateUsername = httperr.E{Status: fiber.StatusBadRequest, Message: "The username already exists"}
	errPasswordTooLong   = httperr.E{Status: fiber.StatusBadRequest, Message: "The `password` must be at most 72 bytes"}
)

// Handlers contains the user account HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new users handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// SignUp handles user registration
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body users.SignUpRequest true "Sign up request"
// @Success 201 {object} users.User
// @Header 201 {string} Location "/api/users/{id}"
// @Failure 400 {object} httperr.E
// @Router /api/users [post]
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req users.SignUpRequest
	if err := handlerutil.ParseBody(c, &req, h.validator, "SignUp", nil); err != nil {
		return err
	}

	user, err := h.service.SignUp(c.Context(), req)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			logger.L().Info("username already taken", "handler", "SignUp", "username", req.Username)
			return httperr.Fail(errDuplicateUsername)
		}
		if errors.Is(err, users.ErrPasswordTooLong) {
			return httperr.Fail(errPasswordTooLong)
		}
		return handlerutil.ServiceError(err, "SignUp", nil)
	}

	return handlerutil.Created(c, user.ID.Hex(), user)
}

// SignIn handles user authentication
// @Summary Exchange credentials for a bearer token
// @Tags users
// @Accept json
// @Produce json
// @Param request body users.SignInRequest true "Sign in request"
// @Success 200 {object} users.AuthResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 429 {object} httperr.E
// @Router /api/login [post]
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req users.SignInRequest
	if err := handlerutil.ParseBody(c, &req, h.validator, "SignIn", nil); err != nil {
		return err
	}

	resp, err := h.service.SignIn(c.Context(), req)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			logger.L().Info("sign in rejected", "handler", "SignIn", "username", req.Username)
			return httperr.Fail(httperr.ErrInvalidCredentials)
		}
		return handlerutil.ServiceError(err, "SignIn", nil)
	}

	return c.JSON(resp)
}

// Refresh issues a new token for the bearer of a valid one
// @Summary Refresh a bearer token
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} users.AuthResponse
// @Failure 401 {object} httperr.E
// @Router /api/refresh [post]
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Refresh(c.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			logger.L().Info("token subject no longer exists", "handler", "Refresh", "user_id", userID.Hex())
			return httperr.Fail(httperr.ErrUnauthorized)
		}
		return handlerutil.ServiceError(err, "Refresh", &userID)
	}

	return c.JSON(resp)
}
