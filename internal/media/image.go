package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Image is the metadata record kept for every hosted image.
// ImageURL and MediaID always come from the same upload response.
type Image struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title    *string            `bson:"title" json:"title"`
	ImageURL string             `bson:"imageurl" json:"imageurl"`
	MediaID  string             `bson:"public_id" json:"public_id"` // media host identifier
}

// ImageUpdate carries the fields an update writes. Title is always written,
// a nil Title clears it. Asset is nil when the binary is unchanged.
type ImageUpdate struct {
	Title *string
	Asset *Asset
}

// Asset is what the media host returns for a stored binary.
type Asset struct {
	URL     string
	MediaID string
}
