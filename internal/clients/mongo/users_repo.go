package mongo

import (
	"context"

	"noteful/internal/services/users"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UsersRepo implements the users.Repository interface for MongoDB
type UsersRepo struct {
	collection *mongo.Collection
}

// NewUsersRepo creates a new users repository
func NewUsersRepo(ctx context.Context, db *mongo.Database) (*UsersRepo, error) {
	collection := db.Collection(usersCollection)
	if err := ensureIndexes(ctx, collection, uniqueIndex("username")); err != nil {
		return nil, err
	}
	return &UsersRepo{collection: collection}, nil
}

// Create creates a new user in the database
func (r *UsersRepo) Create(ctx context.Context, u *users.User) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, u)
	return translateDuplicate(err, users.ErrDuplicateUsername)
}

// FindByUsername finds a user by username
func (r *UsersRepo) FindByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByID finds a user by id
func (r *UsersRepo) FindByID(ctx context.Context, id bson.ObjectID) (*users.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UsersRepo) findOne(ctx context.Context, filter bson.M) (*users.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var user users.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateNotFound(err, users.ErrUserNotFound)
	}
	return &user, nil
}
