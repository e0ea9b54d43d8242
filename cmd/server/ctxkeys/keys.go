// Package ctxkeys holds the fiber.Ctx Locals keys shared by middlewares and
// handlers.
package ctxkeys

const (
	// UserIDKey holds the authenticated user's id as a hex string.
	UserIDKey = "userID"
	// UsernameKey holds the authenticated user's username.
	UsernameKey = "username"
	// ParentCtxKey carries the request context into the WebSocket handler.
	ParentCtxKey = "parentCtx"
	// JWTTokenKey is where the jwt middleware stores the parsed *jwt.Token.
	JWTTokenKey = "user"
)
