package mongo

import (
	"context"
	"time"

	"noteful/internal/services/folders"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FoldersRepo implements the folders.Repository interface for MongoDB
type FoldersRepo struct {
	collection *mongo.Collection
	notes      *mongo.Collection
	cascade    cascade
}

// NewFoldersRepo creates the folders repository and its unique name index.
func NewFoldersRepo(ctx context.Context, db *mongo.Database, cascadeTxn bool) (*FoldersRepo, error) {
	collection := db.Collection(foldersCollection)
	if err := ensureIndexes(ctx, collection, uniqueIndex("name")); err != nil {
		return nil, err
	}

	return &FoldersRepo{
		collection: collection,
		notes:      db.Collection(notesCollection),
		cascade:    newCascade(db.Client(), cascadeTxn, "folder"),
	}, nil
}

// List returns all folders sorted by name.
func (r *FoldersRepo) List(ctx context.Context) ([]*folders.Folder, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	cur, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	list := []*folders.Folder{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID returns the folder or folders.ErrFolderNotFound.
func (r *FoldersRepo) FindByID(ctx context.Context, id bson.ObjectID) (*folders.Folder, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var folder folders.Folder
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&folder); err != nil {
		return nil, translateNotFound(err, folders.ErrFolderNotFound)
	}
	return &folder, nil
}

// Create inserts f; a taken name yields folders.ErrDuplicateName.
func (r *FoldersRepo) Create(ctx context.Context, f *folders.Folder) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, f)
	return translateDuplicate(err, folders.ErrDuplicateName)
}

// UpdateName renames the folder and returns the updated document.
func (r *FoldersRepo) UpdateName(ctx context.Context, id bson.ObjectID, name string, at time.Time) (*folders.Folder, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": name, "updatedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var folder folders.Folder
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&folder)
	if err != nil {
		return nil, translateDuplicate(translateNotFound(err, folders.ErrFolderNotFound), folders.ErrDuplicateName)
	}
	return &folder, nil
}

// Delete removes the folder and sets folderId to null on its notes.
func (r *FoldersRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	deleteFolder := func(ctx context.Context) error {
		res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return folders.ErrFolderNotFound
		}
		return nil
	}
	detachNotes := func(ctx context.Context) error {
		_, err := r.notes.UpdateMany(ctx, bson.M{"folderId": id}, bson.M{"$set": bson.M{"folderId": nil}})
		return err
	}

	return r.cascade.run(ctx, deleteFolder, detachNotes)
}

// Exists reports whether a folder with id exists.
func (r *FoldersRepo) Exists(ctx context.Context, id bson.ObjectID) (bool, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
