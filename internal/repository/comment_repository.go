package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/photo-share/internal/model"
)

const commentColumns = "id,photo_id,user_id,body,created_at,updated_at"

// CommentRepo persists photo comments.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment and returns it with the assigned id.
func (r *CommentRepo) Create(ctx context.Context, c model.Comment) (model.Comment, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (photo_id, user_id, body) VALUES (?,?,?)",
		c.PhotoID, c.UserID, c.Body)
	if err != nil {
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Comment{}, ErrNotFound
	}
	return c, err
}

// UpdateBody replaces a comment's text and reports whether the row existed.
func (r *CommentRepo) UpdateBody(ctx context.Context, id uint64, body string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE comments SET body=? WHERE id=?", body, id)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return true, nil
	}
	var exists bool
	err = r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM comments WHERE id=?)", id).Scan(&exists)
	return exists, err
}

// Delete removes a comment and reports whether a row was deleted.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListForPhoto returns a page of a photo's comments, oldest first.
func (r *CommentRepo) ListForPhoto(ctx context.Context, photoID uint64, limit, offset int) ([]model.Comment, error) {
	return r.list(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE photo_id=? ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?",
		photoID, limit, offset)
}

// ListForUser returns a page of one user's comments, newest first.
func (r *CommentRepo) ListForUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Comment, error) {
	return r.list(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		userID, limit, offset)
}

func (r *CommentRepo) list(ctx context.Context, query string, args ...any) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
