package models

import "time"

const (
	EventImageUploaded = "image.uploaded"
	EventImageUpdated  = "image.updated"
	EventImageDeleted  = "image.deleted"
)

type ImageEvent struct {
	Type       string    `json:"type"`
	ImageID    string    `json:"image_id"`
	MediaID    string    `json:"public_id,omitempty"`
	ImageURL   string    `json:"imageurl,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewImageEvent(typ string, img *Image) ImageEvent {
	return ImageEvent{
		Type:       typ,
		ImageID:    img.ID.Hex(),
		MediaID:    img.MediaID,
		ImageURL:   img.ImageURL,
		OccurredAt: time.Now().UTC(),
	}
}
