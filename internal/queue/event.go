// Package queue defines the photo activity events exchanged over the message
// broker and the publisher/consumer around them.
package queue

// Event types published to the photo.activity queue.
const (
	EventPhotoUploaded = "photo.uploaded"
	EventPhotoDeleted  = "photo.deleted"
)

// PhotoEvent is published after a photo is uploaded or deleted. It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type PhotoEvent struct {
	Type       string `json:"type"`
	PhotoID    uint64 `json:"photo_id"`
	UserID     uint64 `json:"user_id"`
	UniqueURL  string `json:"unique_url"`
	OccurredAt string `json:"occurred_at"`
}
