package notes

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for notes repository operations
type Repository interface {
	List(ctx context.Context, f Filter) ([]*Note, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*Note, error)
	Create(ctx context.Context, n *Note) error
	Update(ctx context.Context, id bson.ObjectID, p Patch) (*Note, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// References answers whether the folder and tags a note points at exist.
type References interface {
	FolderExists(ctx context.Context, id bson.ObjectID) (bool, error)
	CountTags(ctx context.Context, ids []bson.ObjectID) (int64, error)
}
