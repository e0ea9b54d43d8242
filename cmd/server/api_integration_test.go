//go:build integration

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoURI returns MONGO_TEST_URI or starts a throwaway container.
func mongoURI(t *testing.T) string {
	t.Helper()
	if uri := os.Getenv("MONGO_TEST_URI"); uri != "" {
		return uri
	}

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:8.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForExec([]string{"mongosh", "--eval", "db.adminCommand('ping')"}).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skip("MongoDB container not available:", err)
	}
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "27017")
	require.NoError(t, err)

	return fmt.Sprintf("mongodb://%s:%s/", host, port.Port())
}

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	client, err := mongo.Connect(options.Client().ApplyURI(mongoURI(t)))
	require.NoError(t, err)

	db := client.Database("test_noteful_api_" + bson.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	cfg := testConfig()
	cfg.MongoDBName = db.Name()

	svc, err := buildServices(context.Background(), cfg, db)
	require.NoError(t, err)

	return &apiClient{t: t, app: setupRouter(cfg, svc)}
}

// do sends body as JSON and decodes the response into out when out is non-nil.
func (a *apiClient) do(method, path string, body any, out any) *http.Response {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.app.Test(req, 10_000)
	require.NoError(a.t, err)

	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestAPIUsersFlow(t *testing.T) {
	api := newAPI(t)

	var user map[string]any
	resp := api.do("POST", "/api/users", map[string]string{
		"fullname": "Bob User", "username": "bobuser", "password": "baseball",
	}, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/users/"+user["id"].(string), resp.Header.Get("Location"))
	assert.NotContains(t, user, "password")

	var dup map[string]string
	resp = api.do("POST", "/api/users", map[string]string{"username": "bobuser", "password": "baseball"}, &dup)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "The username already exists", dup["error"])

	resp = api.do("POST", "/api/login", map[string]string{"username": "bobuser", "password": "wrong-pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var auth map[string]string
	resp = api.do("POST", "/api/login", map[string]string{"username": "bobuser", "password": "baseball"}, &auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, auth["authToken"])

	req := httptest.NewRequest("POST", "/api/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+auth["authToken"])
	resp, err := api.app.Test(req, 10_000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPINotesLifecycle(t *testing.T) {
	api := newAPI(t)

	var folder, tag map[string]any
	require.Equal(t, http.StatusCreated, api.do("POST", "/api/folders", map[string]string{"name": "Archive"}, &folder).StatusCode)
	require.Equal(t, http.StatusCreated, api.do("POST", "/api/tags", map[string]string{"name": "breed"}, &tag).StatusCode)
	folderID, tagID := folder["id"].(string), tag["id"].(string)

	var dupErr map[string]string
	resp := api.do("POST", "/api/tags", map[string]string{"name": "breed"}, &dupErr)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "This tag `name` already exist", dupErr["error"])

	var note map[string]any
	resp = api.do("POST", "/api/notes", map[string]any{
		"title": "5 life lessons learned from cats", "content": "Lorem ipsum", "folderId": folderID, "tags": []string{tagID},
	}, &note)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	noteID := note["id"].(string)

	var plain map[string]any
	require.Equal(t, http.StatusCreated, api.do("POST", "/api/notes", map[string]any{"title": "Dogs"}, &plain).StatusCode)
	assert.Nil(t, plain["folderId"])
	assert.Equal(t, []any{}, plain["tags"])

	var fetched map[string]any
	require.Equal(t, http.StatusOK, api.do("GET", "/api/notes/"+noteID, nil, &fetched).StatusCode)
	assert.Equal(t, note, fetched, "create and get agree")

	var unknown map[string]string
	resp = api.do("POST", "/api/notes", map[string]any{"title": "x", "folderId": bson.NewObjectID().Hex()}, &unknown)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "The `folderId` does not exist", unknown["error"])

	var list []map[string]any
	require.Equal(t, http.StatusOK, api.do("GET", "/api/notes?searchTerm=CATS", nil, &list).StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, noteID, list[0]["id"])

	list = nil
	api.do("GET", "/api/notes?folderId="+folderID, nil, &list)
	assert.Len(t, list, 1)

	list = nil
	api.do("GET", "/api/notes?tagId="+tagID, nil, &list)
	assert.Len(t, list, 1)

	list = nil
	api.do("GET", "/api/notes", nil, &list)
	require.Len(t, list, 2)
	assert.Equal(t, plain["id"], list[0]["id"], "most recently updated first")

	assert.Equal(t, http.StatusNoContent, api.do("DELETE", "/api/tags/"+tagID, nil, nil).StatusCode)
	fetched = nil
	api.do("GET", "/api/notes/"+noteID, nil, &fetched)
	assert.Equal(t, []any{}, fetched["tags"], "tag pulled from note")

	assert.Equal(t, http.StatusNoContent, api.do("DELETE", "/api/folders/"+folderID, nil, nil).StatusCode)
	fetched = nil
	api.do("GET", "/api/notes/"+noteID, nil, &fetched)
	assert.Nil(t, fetched["folderId"], "note detached from folder")

	assert.Equal(t, http.StatusNotFound, api.do("DELETE", "/api/folders/"+folderID, nil, nil).StatusCode)
	assert.Equal(t, http.StatusNoContent, api.do("DELETE", "/api/notes/"+noteID, nil, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, api.do("GET", "/api/notes/"+noteID, nil, nil).StatusCode)
}
