package middlewares

import (
	"noteful/cmd/server/ctxkeys"
	"noteful/cmd/server/handlers/httperr"
	"noteful/internal/config"
	"noteful/internal/logger"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWT returns a configured Fiber middleware that:
//
//   - validates the HS256 Bearer token signature using cfg.JWTSecret
//   - makes sure the token carries a "sub" claim
//   - stores it in ctx.Locals("userID") so downstream handlers can trust it.
//
// On any problem it bubbles up a 401 via the global httperr handler.
func JWT(cfg config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ContextKey: ctxkeys.JWTTokenKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(ctxkeys.JWTTokenKey).(*jwt.Token)
			if !ok {
				return httperr.Fail(httperr.ErrUnauthorized)
			}

			userID, err := token.Claims.GetSubject()
			if err != nil || userID == "" {
				logger.L().Info("token without subject", "path", c.Path())
				return httperr.Fail(httperr.ErrUnauthorized)
			}

			c.Locals(ctxkeys.UserIDKey, userID)
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if user, ok := claims["user"].(map[string]any); ok {
					if username, ok := user["username"].(string); ok {
						c.Locals(ctxkeys.UsernameKey, username)
					}
				}
			}
			return c.Next()
		},

		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.L().Info("bearer token rejected", "path", c.Path(), "error", err)
			return httperr.Fail(httperr.ErrUnauthorized)
		},
	})
}

// Optional returns mw when enabled and a pass-through handler otherwise.
func Optional(enabled bool, mw fiber.Handler) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return mw
}
