package notes

import (
	"context"
	"net/http"
	"testing"
	"time"

	"noteful/cmd/server/testutil"
	"noteful/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MockService mocks the notes service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, req notes.ListNotesRequest) ([]*notes.Note, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notes.Note), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, id bson.ObjectID) (*notes.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.Note), args.Error(1)
}

func (m *MockService) Create(ctx context.Context, req notes.CreateNoteRequest) (*notes.Note, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.Note), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id bson.ObjectID, req notes.UpdateNoteRequest) (*notes.Note, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.Note), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupNotesApp(t *testing.T) (*fiber.App, *MockService) {
	t.Helper()

	svc := &MockService{}
	app := testutil.CreateTestApp(t)
	h := NewHandlers(svc, testutil.CreateTestValidator(t))

	grp := app.Group("/api/notes")
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Post("/", h.Create)
	grp.Put("/:id", h.Update)
	grp.Delete("/:id", h.Delete)
	testutil.UseNotFound(app)

	return app, svc
}

func newNote(title string) *notes.Note {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &notes.Note{
		ID:        bson.NewObjectID(),
		Title:     title,
		Content:   "Lorem ipsum",
		Tags:      []bson.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestList(t *testing.T) {
	folderID := bson.NewObjectID().Hex()

	t.Run("passes filters through", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		want := notes.ListNotesRequest{SearchTerm: "cats", FolderID: folderID}
		svc.On("List", mock.Anything, want).Return([]*notes.Note{newNote("cats")}, nil)

		resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/notes?searchTerm=cats&folderId="+folderID, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body []map[string]any
		testutil.DecodeJSON(t, resp, &body)
		require.Len(t, body, 1)
		assert.Nil(t, body[0]["folderId"])
		assert.Equal(t, []any{}, body[0]["tags"])
		svc.AssertExpectations(t)
	})

	t.Run("no match is an empty array", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		svc.On("List", mock.Anything, mock.Anything).Return([]*notes.Note{}, nil)

		resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/notes?searchTerm=zzz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body []map[string]any
		testutil.DecodeJSON(t, resp, &body)
		assert.Empty(t, body)
		assert.NotNil(t, body)
	})

	t.Run("malformed folder filter", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		svc.On("List", mock.Anything, mock.Anything).Return(nil, notes.ErrInvalidFolderID)

		resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/notes?folderId=bad", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "The `folderId` is invalid", testutil.ErrorMessage(t, resp))
	})

	t.Run("malformed tag filter", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		svc.On("List", mock.Anything, mock.Anything).Return(nil, notes.ErrInvalidTagID)

		resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/notes?tagId=bad", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "The `tagId` is invalid", testutil.ErrorMessage(t, resp))
	})
}

func TestGet(t *testing.T) {
	note := newNote("5 life lessons learned from cats")

	t.Run("found", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		svc.On("Get", mock.Anything, note.ID).Return(note, nil)

		resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/notes/"+note.ID.Hex(), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		testutil.DecodeJSON(t, resp, &body)
		assert.Equal(t, note.ID.Hex(), body["id"])
		assert.Equal(t, note.Title, body["title"])
		assert.NotContains(t, body, "_id")
	})

	t.Run("invalid id", func(t *testing.T) {
		app, svc := setupNotesApp(t)

		resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/notes/NOT-A-VALID-ID", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "The `id` is invalid", testutil.ErrorMessage(t, resp))
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("absent", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		svc.On("Get", mock.Anything, note.ID).Return(nil, notes.ErrNoteNotFound)

		resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/notes/"+note.ID.Hex(), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreate(t *testing.T) {
	folderID := bson.NewObjectID()
	tagID := bson.NewObjectID()

	note := newNote("Cats")
	note.FolderID = &folderID
	note.Tags = []bson.ObjectID{tagID}

	app, svc := setupNotesApp(t)
	want := notes.CreateNoteRequest{
		Title:    "Cats",
		Content:  "Lorem ipsum",
		FolderID: folderID.Hex(),
		Tags:     []string{tagID.Hex()},
	}
	svc.On("Create", mock.Anything, want).Return(note, nil)

	resp, err := app.Test(testutil.CreateJSONRequest("POST", "/api/notes", map[string]any{
		"title":    "Cats",
		"content":  "Lorem ipsum",
		"folderId": folderID.Hex(),
		"tags":     []string{tagID.Hex()},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/notes/"+note.ID.Hex(), resp.Header.Get("Location"))

	var body map[string]any
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, folderID.Hex(), body["folderId"])
	assert.Equal(t, []any{tagID.Hex()}, body["tags"])
	svc.AssertExpectations(t)
}

func TestCreateRejectsInput(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		svcErr    error
		wantError string
	}{
		{name: "missing title", body: `{"content":"x"}`, wantError: "Missing `title` in request body"},
		{name: "blank title", body: `{"title":" "}`, wantError: "Missing `title` in request body"},
		{name: "empty body", body: ``, wantError: "Missing `title` in request body"},
		{name: "malformed folder", body: `{"title":"a"}`, svcErr: notes.ErrInvalidFolderID, wantError: "The `folderId` is invalid"},
		{name: "malformed tag", body: `{"title":"a"}`, svcErr: notes.ErrInvalidTagID, wantError: "The `tags` array contains an invalid `id`"},
		{name: "unknown folder", body: `{"title":"a"}`, svcErr: notes.ErrUnknownFolder, wantError: "The `folderId` does not exist"},
		{name: "unknown tag", body: `{"title":"a"}`, svcErr: notes.ErrUnknownTag, wantError: "The `tags` array contains an unknown `id`"},
		{name: "title sanitised away", body: `{"title":"<br>"}`, svcErr: notes.ErrMissingTitle, wantError: "Missing `title` in request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, svc := setupNotesApp(t)
			if tt.svcErr != nil {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}

			resp, err := app.Test(testutil.CreateRawJSONRequest("POST", "/api/notes", tt.body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantError, testutil.ErrorMessage(t, resp))

			if tt.svcErr == nil {
				svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	note := newNote("Updated")
	path := "/api/notes/" + note.ID.Hex()

	t.Run("partial update forwards only supplied fields", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		title := "Updated"
		svc.On("Update", mock.Anything, note.ID, notes.UpdateNoteRequest{Title: &title}).Return(note, nil)

		resp, err := app.Test(testutil.CreateRawJSONRequest("PUT", path, `{"title":"Updated"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("empty folderId detaches", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		empty := ""
		svc.On("Update", mock.Anything, note.ID, notes.UpdateNoteRequest{FolderID: &empty}).Return(note, nil)

		resp, err := app.Test(testutil.CreateRawJSONRequest("PUT", path, `{"folderId":""}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		testutil.DecodeJSON(t, resp, &body)
		assert.Nil(t, body["folderId"])
		svc.AssertExpectations(t)
	})

	t.Run("blank title", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		svc.On("Update", mock.Anything, note.ID, mock.Anything).Return(nil, notes.ErrMissingTitle)

		resp, err := app.Test(testutil.CreateRawJSONRequest("PUT", path, `{"title":"  "}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Missing `title` in request body", testutil.ErrorMessage(t, resp))
	})

	t.Run("unknown tag", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		svc.On("Update", mock.Anything, note.ID, mock.Anything).Return(nil, notes.ErrUnknownTag)

		resp, err := app.Test(testutil.CreateRawJSONRequest("PUT", path, `{"tags":["`+bson.NewObjectID().Hex()+`"]}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "The `tags` array contains an unknown `id`", testutil.ErrorMessage(t, resp))
	})

	t.Run("absent", func(t *testing.T) {
		app, svc := setupNotesApp(t)
		svc.On("Update", mock.Anything, note.ID, mock.Anything).Return(nil, notes.ErrNoteNotFound)

		resp, err := app.Test(testutil.CreateRawJSONRequest("PUT", path, `{"content":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		app, svc := setupNotesApp(t)

		resp, err := app.Test(testutil.CreateRawJSONRequest("PUT", "/api/notes/xyz", `{"content":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	id := bson.NewObjectID()

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "absent", svcErr: notes.ErrNoteNotFound, wantStatus: http.StatusNotFound},
		{name: "store failure", svcErr: notes.ErrDeleteNote, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, svc := setupNotesApp(t)
			svc.On("Delete", mock.Anything, id).Return(tt.svcErr)

			resp, err := app.Test(testutil.CreateJSONRequest("DELETE", "/api/notes/"+id.Hex(), nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
