package tags

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Tag labels notes; names are unique.
type Tag struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id" example:"222222222222222222222200" swaggertype:"string"`
	Name      string        `bson:"name" json:"name" example:"breed"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt" example:"2025-06-01T23:00:26.005Z"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt" example:"2025-06-01T23:00:26.005Z"`
}

// CreateTagRequest is the body of POST /api/tags.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,notblank,max=128" example:"breed"`
}

// UpdateTagRequest is the body of PUT /api/tags/:id.
type UpdateTagRequest struct {
	Name string `json:"name" validate:"required,notblank,max=128" example:"hybrid"`
}
