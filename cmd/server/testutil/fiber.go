package testutil

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"noteful/cmd/server/ctxkeys"
	"noteful/cmd/server/handlers"
	"noteful/cmd/server/handlers/httperr"
	"noteful/internal/config"
	"noteful/internal/logger"
	"noteful/internal/utils/validation"

	"github.com/go-playground/validator/v10"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestSecret is a JWT secret long enough to pass config validation.
const TestSecret = "test-secret-key-with-32-characters"

// CreateTestApp creates a basic Fiber app for testing with common configuration
func CreateTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{LogLevel: "debug", LogFormat: "text"}
	_, err := logger.Init(cfg)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
	})

	return app
}

// UseNotFound registers the terminal 404 handler. Call it after the routes.
func UseNotFound(app *fiber.App) {
	app.Use(handlers.NotFound)
}

// CreateTestValidator creates a validator with the custom string rules registered
func CreateTestValidator(t *testing.T) *validator.Validate {
	t.Helper()

	v, err := validation.New()
	require.NoError(t, err)
	return v
}

// CreateTestJWT creates a JWT token for testing purposes
func CreateTestJWT(userID, username string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"user": map[string]any{
			"id":       userID,
			"username": username,
			"fullname": "",
		},
		"exp": now.Add(expiry).Unix(),
		"iat": now.Unix(),
	})

	return token.SignedString(secret)
}

// SetupJWTMiddleware sets up JWT middleware for testing with the given secret
func SetupJWTMiddleware(jwtSecret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(jwtSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			token := c.Locals(ctxkeys.JWTTokenKey).(*jwt.Token)
			claims := token.Claims.(jwt.MapClaims)

			userID, ok := claims["sub"].(string)
			if !ok {
				return httperr.Fail(httperr.E{Status: 401, Message: "Invalid token: missing sub"})
			}

			c.Locals(ctxkeys.UserIDKey, userID)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return httperr.Fail(httperr.ErrUnauthorized)
		},
	})
}

// CreateRateLimiter creates a rate limiter for testing
func CreateRateLimiter(maxRequests int, duration time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: duration,
		LimitReached: func(c *fiber.Ctx) error {
			return httperr.Fail(httperr.ErrTooManyRequests)
		},
	})
}

// CreateJSONRequest creates an HTTP request with JSON body
func CreateJSONRequest(method, url string, body any) *http.Request {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// CreateRawJSONRequest sends body verbatim, for malformed or partial payloads.
func CreateRawJSONRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// CreateAuthenticatedRequest creates an HTTP request with Authorization header
func CreateAuthenticatedRequest(method, url string, body any, token string) *http.Request {
	req := CreateJSONRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// CreateWebSocketRequest creates an HTTP request with WebSocket upgrade headers
func CreateWebSocketRequest(url string, token *string) *http.Request {
	requestURL := url
	if token != nil {
		requestURL += "?token=" + *token
	}

	req := httptest.NewRequest("GET", requestURL, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

// DecodeJSON reads the response body into out.
func DecodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ErrorMessage returns the "error" field of a JSON error response.
func ErrorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var body map[string]string
	DecodeJSON(t, resp, &body)
	return body["error"]
}

// Serve starts app on a random local port and returns the address. The app
// is shut down when the test ends.
func Serve(t *testing.T, app *fiber.App) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	return ln.Addr().String()
}
