package folders

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Folder groups notes; names are unique. A note belongs to at most one folder.
type Folder struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id" example:"111111111111111111111100" swaggertype:"string"`
	Name      string        `bson:"name" json:"name" example:"Archive"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt" example:"2025-06-01T23:00:26.005Z"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt" example:"2025-06-01T23:00:26.005Z"`
}

// CreateFolderRequest is the body of POST /api/folders.
type CreateFolderRequest struct {
	Name string `json:"name" validate:"required,notblank,max=128" example:"Archive"`
}

// UpdateFolderRequest is the body of PUT /api/folders/:id.
type UpdateFolderRequest struct {
	Name string `json:"name" validate:"required,notblank,max=128" example:"Drafts"`
}
