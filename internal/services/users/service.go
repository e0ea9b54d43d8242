package users

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"noteful/internal/config"
	"noteful/internal/utils/crypto"
	"noteful/internal/utils/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var now = time.Now

// Service handles user accounts and token issuance
type Service struct {
	repo   Repository
	config config.Config
	log    *slog.Logger
}

// NewService creates a new users service
func NewService(repo Repository, cfg config.Config, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
		log:    log,
	}
}

// SignUp registers a new user. The password is hashed once, here.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	if len(req.Password) > crypto.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.log.Error("failed to hash password", "error", err)
		return nil, ErrSignUp
	}

	user := &User{
		ID:       bson.NewObjectID(),
		Fullname: sanitize.Line(req.Fullname),
		Username: req.Username,
		Password: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		s.log.Error(ErrSignUp.Error(), "error", err)
		return nil, ErrSignUp
	}

	return user, nil
}

// SignIn checks the credentials and returns a fresh token.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.log.Error("failed to find user by username", "error", err)
		return nil, ErrSignIn
	}

	ok, err := crypto.ValidatePassword(req.Password, user.Password)
	if err != nil {
		s.log.Error("failed to check password", "error", err, "user_id", user.ID.Hex())
		return nil, ErrSignIn
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Refresh re-issues a token for an authenticated user with a new expiry.
func (s *Service) Refresh(ctx context.Context, userID bson.ObjectID) (*AuthResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.log.Error("failed to find user by id", "error", err, "user_id", userID.Hex())
		return nil, ErrSignIn
	}
	return s.issue(user)
}

func (s *Service) issue(user *User) (*AuthResponse, error) {
	token, err := s.generateJWT(user)
	if err != nil {
		s.log.Error(ErrGenAccessToken.Error(), "error", err)
		return nil, ErrGenAccessToken
	}
	return &AuthResponse{AuthToken: token}, nil
}

func (s *Service) generateJWT(user *User) (string, error) {
	issuedAt := now()
	claims := jwt.MapClaims{
		"sub": user.ID.Hex(),
		"user": map[string]string{
			"id":       user.ID.Hex(),
			"username": user.Username,
			"fullname": user.Fullname,
		},
		"exp": issuedAt.Add(time.Duration(s.config.JWTExpiryMinutes) * time.Minute).Unix(),
		"iat": issuedAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
