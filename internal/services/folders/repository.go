package folders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository is the folder store. Delete also clears folderId on every note
// that was filed under it.
type Repository interface {
	List(ctx context.Context) ([]*Folder, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*Folder, error)
	Create(ctx context.Context, f *Folder) error
	UpdateName(ctx context.Context, id bson.ObjectID, name string, at time.Time) (*Folder, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
