package mongo

import (
	"context"
	"fmt"

	"noteful/internal/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	}
}

// ensureIndexes creates the given indexes on coll. Creating an index that
// already exists with the same spec is a no-op on the server.
func ensureIndexes(parent context.Context, coll *mongo.Collection, models ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(parent, OpTimeout)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		logger.L().Error("failed to create index", "collection", coll.Name(), "error", err)
		return fmt.Errorf("failed to create %s collection indexes: %w", coll.Name(), err)
	}
	return nil
}
