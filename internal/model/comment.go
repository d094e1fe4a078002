package model

import "time"

// Comment mirrors the `comments` table.
//
// Fields:
//  ID        – primary key identifier.
//  PhotoID   – photo the comment belongs to.
//  UserID    – author of the comment.
//  Body      – comment text.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last edit.
type Comment struct {
	ID        uint64    // comments.id
	PhotoID   uint64    // comments.photo_id
	UserID    uint64    // comments.user_id
	Body      string    // comments.body
	CreatedAt time.Time // comments.created_at
	UpdatedAt time.Time // comments.updated_at
}
