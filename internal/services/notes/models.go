package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Note is a titled piece of text, optionally filed in a folder and labelled
// with tags. Tags is never nil so it renders as [] rather than null.
type Note struct {
	ID        bson.ObjectID   `bson:"_id,omitempty" json:"id" example:"000000000000000000000000" swaggertype:"string"`
	Title     string          `bson:"title" json:"title" example:"5 life lessons learned from cats"`
	Content   string          `bson:"content" json:"content" example:"Lorem ipsum dolor sit amet"`
	FolderID  *bson.ObjectID  `bson:"folderId" json:"folderId" example:"111111111111111111111100" swaggertype:"string"`
	Tags      []bson.ObjectID `bson:"tags" json:"tags" swaggertype:"array,string"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt" example:"2025-06-01T23:00:26.005Z"`
	UpdatedAt time.Time       `bson:"updatedAt" json:"updatedAt" example:"2025-06-01T23:00:26.005Z"`
}

// Filter narrows List. Zero fields match everything; set fields are ANDed.
type Filter struct {
	SearchTerm string
	FolderID   *bson.ObjectID
	TagID      *bson.ObjectID
}

// Patch is a partial update. Nil pointers leave the field untouched;
// ClearFolder unsets folderId.
type Patch struct {
	Title       *string
	Content     *string
	FolderID    *bson.ObjectID
	ClearFolder bool
	Tags        *[]bson.ObjectID
	UpdatedAt   time.Time
}

// CreateNoteRequest is the body of POST /api/notes.
type CreateNoteRequest struct {
	Title    string   `json:"title" validate:"required,notblank,max=256" example:"5 life lessons learned from cats"`
	Content  string   `json:"content" validate:"max=65536" example:"Lorem ipsum dolor sit amet"`
	FolderID string   `json:"folderId" example:"111111111111111111111100"`
	Tags     []string `json:"tags" example:"222222222222222222222200"`
}

// UpdateNoteRequest is the body of PUT /api/notes/:id. Only supplied fields
// change; an empty folderId detaches the note from its folder.
type UpdateNoteRequest struct {
	Title    *string   `json:"title,omitempty" validate:"omitempty,max=256" example:"Updated title"`
	Content  *string   `json:"content,omitempty" validate:"omitempty,max=65536" example:"Updated content"`
	FolderID *string   `json:"folderId,omitempty" example:"111111111111111111111101"`
	Tags     *[]string `json:"tags,omitempty"`
}

// ListNotesRequest carries the GET /api/notes query string.
type ListNotesRequest struct {
	SearchTerm string `query:"searchTerm" validate:"max=256" example:"cats"`
	FolderID   string `query:"folderId" example:"111111111111111111111100"`
	TagID      string `query:"tagId" example:"222222222222222222222200"`
}
