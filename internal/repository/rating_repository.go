package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/photo-share/internal/model"
)

// RatingRepo persists photo ratings. The UNIQUE(photo_id, user_id) key is the
// authoritative guard against double rating; Create translates the violation
// into ErrAlreadyRated for the service layer.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

// Create inserts a rating and returns it with the assigned id.
func (r *RatingRepo) Create(ctx context.Context, rt model.Rating) (model.Rating, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ratings (photo_id, user_id, value) VALUES (?,?,?)",
		rt.PhotoID, rt.UserID, rt.Value)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Rating{}, ErrAlreadyRated
		}
		return model.Rating{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Rating{}, err
	}
	rt.ID = uint64(id)
	return rt, nil
}

// GetByID fetches a rating by id.
func (r *RatingRepo) GetByID(ctx context.Context, id uint64) (model.Rating, error) {
	var rt model.Rating
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,photo_id,user_id,value,created_at FROM ratings WHERE id=? LIMIT 1", id).
		Scan(&rt.ID, &rt.PhotoID, &rt.UserID, &rt.Value, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Rating{}, ErrNotFound
	}
	return rt, err
}

// GetByPhotoAndUser fetches one user's rating for one photo.
func (r *RatingRepo) GetByPhotoAndUser(ctx context.Context, photoID, userID uint64) (model.Rating, error) {
	var rt model.Rating
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,photo_id,user_id,value,created_at FROM ratings WHERE photo_id=? AND user_id=? LIMIT 1",
		photoID, userID).
		Scan(&rt.ID, &rt.PhotoID, &rt.UserID, &rt.Value, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Rating{}, ErrNotFound
	}
	return rt, err
}

// Delete removes a rating and reports whether a row was deleted.
func (r *RatingRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM ratings WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Stats returns the average value and count of a photo's ratings.
func (r *RatingRepo) Stats(ctx context.Context, photoID uint64) (model.RatingStats, error) {
	var s model.RatingStats
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(value), 0), COUNT(*) FROM ratings WHERE photo_id=?", photoID).
		Scan(&s.Average, &s.Count)
	return s, err
}
