package utils

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxPayload matches the JSON body limit the server accepts.
const DefaultMaxPayload = 50 * 1024 * 1024

func ValidateImagePayload(data string, max int) error {
	if data == "" {
		return ErrImageRequired
	}
	if max > 0 && len(data) > max {
		return ErrImageTooLarge
	}
	return nil
}

// ParseImageID accepts only the 24 hex character form of an ObjectID.
func ParseImageID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
