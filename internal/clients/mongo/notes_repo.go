package mongo

import (
	"context"
	"regexp"

	"noteful/internal/services/notes"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	notesCollection   = "notes"
	foldersCollection = "folders"
	tagsCollection    = "tags"
	usersCollection   = "users"
)

// NotesRepo implements the notes.Repository interface for MongoDB
type NotesRepo struct {
	collection *mongo.Collection
}

// NewNotesRepo creates a new notes repository
func NewNotesRepo(ctx context.Context, db *mongo.Database) (*NotesRepo, error) {
	collection := db.Collection(notesCollection)

	err := ensureIndexes(ctx, collection,
		mongo.IndexModel{Keys: bson.D{{Key: "folderId", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "tags", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}},
	)
	if err != nil {
		return nil, err
	}

	return &NotesRepo{collection: collection}, nil
}

// buildListFilter turns f into a query document. An empty filter matches
// every note.
func buildListFilter(f notes.Filter) bson.M {
	filter := bson.M{}

	if f.SearchTerm != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(f.SearchTerm), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
		}
	}
	if f.FolderID != nil {
		filter["folderId"] = *f.FolderID
	}
	if f.TagID != nil {
		filter["tags"] = *f.TagID
	}

	return filter
}

// buildUpdate turns p into an update document. updatedAt is always set.
func buildUpdate(p notes.Patch) bson.M {
	set := bson.M{"updatedAt": p.UpdatedAt}

	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	switch {
	case p.ClearFolder:
		set["folderId"] = nil
	case p.FolderID != nil:
		set["folderId"] = *p.FolderID
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}

	return bson.M{"$set": set}
}

// List returns the notes matching f, newest update first.
func (r *NotesRepo) List(ctx context.Context, f notes.Filter) ([]*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.collection.Find(ctx, buildListFilter(f), opts)
	if err != nil {
		return nil, err
	}

	list := []*notes.Note{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID returns the note or notes.ErrNoteNotFound.
func (r *NotesRepo) FindByID(ctx context.Context, id bson.ObjectID) (*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var note notes.Note
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&note); err != nil {
		return nil, translateNotFound(err, notes.ErrNoteNotFound)
	}
	return &note, nil
}

// Create creates a new note in the database
func (r *NotesRepo) Create(ctx context.Context, n *notes.Note) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// Update applies p and returns the updated note.
func (r *NotesRepo) Update(ctx context.Context, id bson.ObjectID, p notes.Patch) (*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note notes.Note
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, buildUpdate(p), opts).Decode(&note)
	if err != nil {
		return nil, translateNotFound(err, notes.ErrNoteNotFound)
	}
	return &note, nil
}

// Delete removes a single note; nothing references notes.
func (r *NotesRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notes.ErrNoteNotFound
	}
	return nil
}

// NoteRefs implements notes.References on top of the folder and tag repos.
type NoteRefs struct {
	Folders *FoldersRepo
	Tags    *TagsRepo
}

// FolderExists reports whether the folder exists.
func (r NoteRefs) FolderExists(ctx context.Context, id bson.ObjectID) (bool, error) {
	return r.Folders.Exists(ctx, id)
}

// CountTags returns how many of ids are existing tags.
func (r NoteRefs) CountTags(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	return r.Tags.CountByIDs(ctx, ids)
}
