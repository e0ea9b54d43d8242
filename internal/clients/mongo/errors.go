package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// translateNotFound maps the driver ErrNoDocuments to the service sentinel.
func translateNotFound(err, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}

// translateDuplicate maps a unique index violation to the service sentinel.
func translateDuplicate(err, duplicate error) error {
	if mongo.IsDuplicateKeyError(err) {
		return duplicate
	}
	return err
}
