package tags

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository is the tag store. Delete also pulls the id out of every note
// that references it.
type Repository interface {
	List(ctx context.Context) ([]*Tag, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*Tag, error)
	Create(ctx context.Context, t *Tag) error
	UpdateName(ctx context.Context, id bson.ObjectID, name string, at time.Time) (*Tag, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
