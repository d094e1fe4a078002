package model

import "time"

// Rating mirrors the `ratings` table. One user may rate one photo at most
// once; the UNIQUE(photo_id, user_id) key in the schema is the authoritative
// guard, the service-level pre-check is only an optimization.
//
// Fields:
//  ID        – primary key identifier.
//  PhotoID   – rated photo.
//  UserID    – rating author.
//  Value     – rating value, 1 through 5.
//  CreatedAt – timestamp of creation.
type Rating struct {
	ID        uint64    // ratings.id
	PhotoID   uint64    // ratings.photo_id
	UserID    uint64    // ratings.user_id
	Value     int       // ratings.value
	CreatedAt time.Time // ratings.created_at
}

// RatingStats aggregates the ratings of one photo.
type RatingStats struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
