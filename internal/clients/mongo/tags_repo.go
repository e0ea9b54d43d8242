package mongo

import (
	"context"
	"time"

	"noteful/internal/services/tags"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// TagsRepo implements the tags.Repository interface for MongoDB
type TagsRepo struct {
	collection *mongo.Collection
	notes      *mongo.Collection
	cascade    cascade
}

// NewTagsRepo creates the tags repository and its unique name index.
// cascadeTxn enables transactional cascades on replica sets.
func NewTagsRepo(ctx context.Context, db *mongo.Database, cascadeTxn bool) (*TagsRepo, error) {
	collection := db.Collection(tagsCollection)
	if err := ensureIndexes(ctx, collection, uniqueIndex("name")); err != nil {
		return nil, err
	}

	return &TagsRepo{
		collection: collection,
		notes:      db.Collection(notesCollection),
		cascade:    newCascade(db.Client(), cascadeTxn, "tag"),
	}, nil
}

// List returns all tags sorted by name.
func (r *TagsRepo) List(ctx context.Context) ([]*tags.Tag, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	cur, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	list := []*tags.Tag{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID returns the tag or tags.ErrTagNotFound.
func (r *TagsRepo) FindByID(ctx context.Context, id bson.ObjectID) (*tags.Tag, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var tag tags.Tag
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tag); err != nil {
		return nil, translateNotFound(err, tags.ErrTagNotFound)
	}
	return &tag, nil
}

// Create inserts t; a taken name yields tags.ErrDuplicateName.
func (r *TagsRepo) Create(ctx context.Context, t *tags.Tag) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, t)
	return translateDuplicate(err, tags.ErrDuplicateName)
}

// UpdateName renames the tag and returns the updated document.
func (r *TagsRepo) UpdateName(ctx context.Context, id bson.ObjectID, name string, at time.Time) (*tags.Tag, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": name, "updatedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tag tags.Tag
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&tag)
	if err != nil {
		return nil, translateDuplicate(translateNotFound(err, tags.ErrTagNotFound), tags.ErrDuplicateName)
	}
	return &tag, nil
}

// Delete removes the tag and pulls its id from every note's tags.
func (r *TagsRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	deleteTag := func(ctx context.Context) error {
		res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return tags.ErrTagNotFound
		}
		return nil
	}
	pullFromNotes := func(ctx context.Context) error {
		_, err := r.notes.UpdateMany(ctx, bson.M{"tags": id}, bson.M{"$pull": bson.M{"tags": id}})
		return err
	}

	return r.cascade.run(ctx, deleteTag, pullFromNotes)
}

// CountByIDs returns how many of ids exist as tags.
func (r *TagsRepo) CountByIDs(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
}
