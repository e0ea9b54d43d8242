package events

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"noteful/cmd/server/ctxkeys"
	"noteful/cmd/server/handlers/httperr"
	"noteful/internal/logger"
	"noteful/internal/services/events"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

const (
	// WSClosePolicyViolation represents WebSocket close code for policy violation
	WSClosePolicyViolation = 1008

	wsWriteTimeout     = 10 * time.Second
	wsPingInterval     = 25 * time.Second
	wsPingWriteTimeout = 5 * time.Second
)

var (
	errMissingToken    = httperr.E{Status: fiber.StatusUnauthorized, Message: "Missing token"}
	errInvalidToken    = httperr.E{Status: fiber.StatusUnauthorized, Message: "Invalid token"}
	errUpgradeRequired = httperr.E{Status: fiber.StatusBadRequest, Message: "WebSocket upgrade required"}
)

// Hub is the subscription side of the event hub.
type Hub interface {
	Subscribe(connID ulid.ULID) (*events.Subscriber, func())
	Unsubscribe(connID ulid.ULID)
}

// StreamHandlers serves the resource event stream.
type StreamHandlers struct {
	hub           Hub
	jwtSecret     string
	authRequired  bool
	maxSessionSec int
}

// NewStreamHandlers creates the stream handlers. When authRequired is false
// a token is optional, but one that is supplied must still be valid.
func NewStreamHandlers(hub Hub, jwtSecret string, authRequired bool, maxSessionSec int) *StreamHandlers {
	return &StreamHandlers{
		hub:           hub,
		jwtSecret:     jwtSecret,
		authRequired:  authRequired,
		maxSessionSec: maxSessionSec,
	}
}

// Upgrade checks the handshake and the ?token= query parameter.
// @Summary Stream resource events
// @Description WebSocket of created/updated/deleted events for notes, folders and tags
// @Tags events
// @Param token query string false "Bearer token, required when AUTH_REQUIRED=true"
// @Success 101
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /ws/stream [get]
func (h *StreamHandlers) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		logger.L().Info("websocket upgrade required", "handler", "StreamUpgrade", "path", c.Path())
		return httperr.Fail(errUpgradeRequired)
	}

	token := c.Query("token")
	switch {
	case token == "" && h.authRequired:
		logger.L().Warn("missing token in websocket upgrade", "handler", "StreamUpgrade")
		return httperr.Fail(errMissingToken)
	case token != "":
		userID, err := parseUserID(token, h.jwtSecret)
		if err != nil {
			logger.L().Warn("invalid token in websocket upgrade", "handler", "StreamUpgrade", "error", err)
			return httperr.Fail(errInvalidToken)
		}
		c.Locals(ctxkeys.UserIDKey, userID)
	}

	c.Locals(ctxkeys.ParentCtxKey, c.UserContext())
	return c.Next()
}

// Stream pushes every hub event to the client as JSON until the client
// leaves or the session times out.
func (h *StreamHandlers) Stream(c *websocket.Conn) {
	parentCtx, ok := c.Locals(ctxkeys.ParentCtxKey).(context.Context)
	if !ok {
		parentCtx = context.Background()
	}
	ctx, cancelCtx := context.WithCancel(parentCtx)
	defer cancelCtx()

	userID, _ := c.Locals(ctxkeys.UserIDKey).(string)
	conn := &streamConn{
		ws:     c,
		id:     ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader),
		userID: userID,
	}

	sub, cancel := h.hub.Subscribe(conn.id)
	defer cancel()

	logger.L().Info("stream connection established", "conn_id", conn.id.String(), "user_id", userID)

	timer := time.AfterFunc(time.Duration(h.maxSessionSec)*time.Second, func() {
		logger.L().Info("stream session timeout", "conn_id", conn.id.String())
		conn.closeWith(WSClosePolicyViolation, "session timeout")
		cancelCtx()
	})
	defer timer.Stop()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	go func() {
		for {
			select {
			case <-ping.C:
				if conn.write(websocket.PingMessage, nil, wsPingWriteTimeout) != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go conn.forward(ctx, sub)

	conn.drain()

	logger.L().Info("stream connection closed", "conn_id", conn.id.String(), "user_id", userID)
}

// streamConn serialises writes; gorilla connections allow one writer at a time.
type streamConn struct {
	ws     *websocket.Conn
	id     ulid.ULID
	userID string
	mu     sync.Mutex
}

func (s *streamConn) write(messageType int, data []byte, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ws.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return s.ws.WriteMessage(messageType, data)
}

func (s *streamConn) writeJSON(ev events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return s.ws.WriteJSON(ev)
}

func (s *streamConn) closeWith(code int, reason string) {
	if err := s.write(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), wsWriteTimeout); err != nil {
		logger.L().Warn("failed to send close message", "conn_id", s.id.String(), "error", err)
	}
	if err := s.ws.Close(); err != nil {
		logger.L().Warn("failed to close websocket connection", "conn_id", s.id.String(), "error", err)
	}
}

func (s *streamConn) forward(ctx context.Context, sub *events.Subscriber) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Error("panic in stream sender", "error", r, "conn_id", s.id.String())
		}
	}()

	for {
		select {
		case ev, ok := <-sub.Ch:
			if !ok {
				return
			}
			if err := s.writeJSON(ev); err != nil {
				logger.L().Warn("failed to write event", "conn_id", s.id.String(), "error", err)
				return
			}
		case <-sub.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// drain reads until the client goes away. Incoming messages are ignored.
func (s *streamConn) drain() {
	for {
		if _, _, err := s.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.L().Warn("stream read error", "conn_id", s.id.String(), "error", err)
			}
			return
		}
	}
}

// LogConnections logs every upgrade attempt on the stream prefix. The user is
// only logged when the token verifies.
func LogConnections(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			userID := ""
			if token := c.Query("token"); token != "" {
				userID, _ = parseUserID(token, jwtSecret)
			}
			logger.L().Info("websocket upgrade attempt", "ip", c.IP(), "user_id", userID)
		}
		return c.Next()
	}
}

var errMissingSubject = errors.New("missing sub claim")

// parseUserID verifies an HS256 token and returns its subject.
func parseUserID(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errMissingSubject
	}
	return sub, nil
}
