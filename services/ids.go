package services

import (
	stderrors "errors"
	"fmt"

	"social-server/storage"
	"social-server/utils/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseID turns a path parameter into an ObjectID; a malformed id is a 400.
func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errors.BadRequest(fmt.Errorf("cast to ObjectId failed for value %q: %w", raw, err))
	}
	return id, nil
}

// lookupError maps a single-record store failure to 404 or 400.
func lookupError(err error, notFoundMessage string) error {
	if stderrors.Is(err, storage.ErrNotFound) {
		return errors.NotFound(notFoundMessage)
	}
	return errors.BadRequest(err)
}
