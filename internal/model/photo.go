package model

import "time"

// Photo mirrors the `photos` table. The binary image lives at the external
// image host; the row only keeps the host's public id and the unique URL slug
// under which the photo is addressed.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – owner of the photo.
//  UniqueURL    – unique URL slug for the photo.
//  HostPublicID – asset id at the image host, used for deletes and transforms.
//  Description  – optional caption.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Photo struct {
	ID           uint64    // photos.id
	UserID       uint64    // photos.user_id
	UniqueURL    string    // photos.unique_url
	HostPublicID string    // photos.host_public_id
	Description  string    // photos.description
	CreatedAt    time.Time // photos.created_at
	UpdatedAt    time.Time // photos.updated_at
}
