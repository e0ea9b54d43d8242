package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"noteful/cmd/server/ctxkeys"
	"noteful/cmd/server/testutil"
	"noteful/internal/services/events"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func setupUpgradeApp(t *testing.T, authRequired bool) *fiber.App {
	t.Helper()

	app := testutil.CreateTestApp(t)
	h := NewStreamHandlers(events.NewHub(8), testutil.TestSecret, authRequired, 900)

	app.Get("/ws/stream", h.Upgrade, func(c *fiber.Ctx) error {
		userID, _ := c.Locals(ctxkeys.UserIDKey).(string)
		return c.JSON(fiber.Map{"user_id": userID})
	})
	return app
}

func TestUpgrade(t *testing.T) {
	userID := bson.NewObjectID().Hex()

	valid, err := testutil.CreateTestJWT(userID, "bobuser", []byte(testutil.TestSecret), time.Hour)
	require.NoError(t, err)
	expired, err := testutil.CreateTestJWT(userID, "bobuser", []byte(testutil.TestSecret), -time.Hour)
	require.NoError(t, err)
	wrongSecret, err := testutil.CreateTestJWT(userID, "bobuser", []byte("wrong-secret-key-with-32-characters"), time.Hour)
	require.NoError(t, err)
	garbage := "invalid-token"

	tests := []struct {
		name         string
		authRequired bool
		token        *string
		wantStatus   int
		wantUserID   string
	}{
		{name: "valid token, auth required", authRequired: true, token: &valid, wantStatus: 200, wantUserID: userID},
		{name: "missing token, auth required", authRequired: true, token: nil, wantStatus: 401},
		{name: "garbage token, auth required", authRequired: true, token: &garbage, wantStatus: 401},
		{name: "expired token, auth required", authRequired: true, token: &expired, wantStatus: 401},
		{name: "wrong secret, auth required", authRequired: true, token: &wrongSecret, wantStatus: 401},
		{name: "missing token, auth optional", authRequired: false, token: nil, wantStatus: 200},
		{name: "valid token, auth optional", authRequired: false, token: &valid, wantStatus: 200, wantUserID: userID},
		{name: "garbage token, auth optional", authRequired: false, token: &garbage, wantStatus: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupUpgradeApp(t, tt.authRequired)

			resp, err := app.Test(testutil.CreateWebSocketRequest("/ws/stream", tt.token))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == 200 {
				var body map[string]string
				testutil.DecodeJSON(t, resp, &body)
				assert.Equal(t, tt.wantUserID, body["user_id"])
			}
		})
	}
}

func TestUpgradeRejectsPlainRequest(t *testing.T) {
	app := setupUpgradeApp(t, false)

	resp, err := app.Test(testutil.CreateJSONRequest("GET", "/ws/stream", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "WebSocket upgrade required", testutil.ErrorMessage(t, resp))
}

func TestParseUserID(t *testing.T) {
	userID := bson.NewObjectID().Hex()

	t.Run("valid", func(t *testing.T) {
		token, err := testutil.CreateTestJWT(userID, "bobuser", []byte(testutil.TestSecret), time.Hour)
		require.NoError(t, err)

		got, err := parseUserID(token, testutil.TestSecret)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("missing sub", func(t *testing.T) {
		now := time.Now().UTC()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": now.Add(time.Hour).Unix(),
			"iat": now.Unix(),
		}).SignedString([]byte(testutil.TestSecret))
		require.NoError(t, err)

		_, err = parseUserID(token, testutil.TestSecret)
		assert.ErrorIs(t, err, errMissingSubject)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": userID}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = parseUserID(token, testutil.TestSecret)
		assert.Error(t, err)
	})
}

func startStream(t *testing.T, hub *events.Hub, maxSessionSec int) *gorillaws.Conn {
	t.Helper()

	app := testutil.CreateTestApp(t)
	h := NewStreamHandlers(hub, testutil.TestSecret, false, maxSessionSec)
	app.Get("/ws/stream", h.Upgrade, websocket.New(h.Stream))

	addr := testutil.Serve(t, app)

	var conn *gorillaws.Conn
	require.Eventually(t, func() bool {
		c, _, err := gorillaws.DefaultDialer.Dial("ws://"+addr+"/ws/stream", nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 20*time.Millisecond)

	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func TestStreamDeliversEvents(t *testing.T) {
	hub := events.NewHub(8)
	conn := startStream(t, hub, 900)

	require.Eventually(t, func() bool {
		n, _ := hub.Stats()
		return n == 1
	}, time.Second, 10*time.Millisecond)

	tagID := bson.NewObjectID().Hex()
	hub.Broadcast(context.Background(), events.Created(events.ResourceTag, tagID, map[string]string{"name": "breed"}))
	hub.Broadcast(context.Background(), events.Deleted(events.ResourceTag, tagID))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var created map[string]any
	require.NoError(t, conn.ReadJSON(&created))
	assert.Equal(t, "created", created["type"])
	assert.Equal(t, "tag", created["resource"])
	assert.Equal(t, tagID, created["id"])
	assert.Equal(t, map[string]any{"name": "breed"}, created["data"])

	var deleted map[string]any
	require.NoError(t, conn.ReadJSON(&deleted))
	assert.Equal(t, "deleted", deleted["type"])
	assert.NotContains(t, deleted, "data")
}

func TestStreamUnsubscribesOnClose(t *testing.T) {
	hub := events.NewHub(8)
	conn := startStream(t, hub, 900)

	require.Eventually(t, func() bool {
		n, _ := hub.Stats()
		return n == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(gorillaws.CloseMessage,
		gorillaws.FormatCloseMessage(gorillaws.CloseNormalClosure, "bye")))

	require.Eventually(t, func() bool {
		n, _ := hub.Stats()
		return n == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStreamSessionTimeout(t *testing.T) {
	hub := events.NewHub(8)
	conn := startStream(t, hub, 1)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	start := time.Now()
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	elapsed := time.Since(start)

	var closeErr *gorillaws.CloseError
	if errors.As(err, &closeErr) {
		assert.Equal(t, WSClosePolicyViolation, closeErr.Code)
	}
	assert.Less(t, elapsed, 4*time.Second, "connection should close promptly after the session limit")
}
