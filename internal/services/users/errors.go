package users

import (
	"errors"
)

// ErrUserNotFound is returned by the repository when no user matches.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned when the username is already taken.
var ErrDuplicateUsername = errors.New("the username already exists")

// ErrInvalidCredentials is returned by SignIn for an unknown user or a wrong
// password; the two are not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrPasswordTooLong is returned by SignUp for a password bcrypt cannot hash.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

var (
	ErrSignUp         = errors.New("failed to create user")
	ErrSignIn         = errors.New("failed to sign in")
	ErrGenAccessToken = errors.New("failed to generate access token")
)

// Token claim errors, reported by the bearer auth middleware.
var (
	ErrTokenMissingUser = errors.New("invalid token: missing user claim")
)
