package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/photo-share/internal/model"
)

const photoColumns = "id,user_id,unique_url,host_public_id,description,created_at,updated_at"

// PhotoRepo persists photo metadata in the `photos` table. The image bytes
// themselves live at the external image host.
type PhotoRepo struct{ DB *sql.DB }

func NewPhotoRepo(db *sql.DB) *PhotoRepo { return &PhotoRepo{DB: db} }

// Create inserts a photo row and returns it with the assigned id.
func (r *PhotoRepo) Create(ctx context.Context, p model.Photo) (model.Photo, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO photos (user_id, unique_url, host_public_id, description) VALUES (?,?,?,?)",
		p.UserID, p.UniqueURL, p.HostPublicID, p.Description)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Photo{}, ErrDuplicate
		}
		return model.Photo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Photo{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a photo by id.
func (r *PhotoRepo) GetByID(ctx context.Context, id uint64) (model.Photo, error) {
	return r.getOne(ctx, "SELECT "+photoColumns+" FROM photos WHERE id=? LIMIT 1", id)
}

// GetByUniqueURL fetches a photo by its URL slug.
func (r *PhotoRepo) GetByUniqueURL(ctx context.Context, slug string) (model.Photo, error) {
	return r.getOne(ctx, "SELECT "+photoColumns+" FROM photos WHERE unique_url=? LIMIT 1", slug)
}

func (r *PhotoRepo) getOne(ctx context.Context, query string, arg any) (model.Photo, error) {
	var (
		p    model.Photo
		desc sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.UserID, &p.UniqueURL, &p.HostPublicID, &desc, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Photo{}, ErrNotFound
	}
	p.Description = desc.String
	return p, err
}

// UpdateDescription replaces a photo's caption and reports whether the row
// existed.
func (r *PhotoRepo) UpdateDescription(ctx context.Context, id uint64, description string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE photos SET description=? WHERE id=?", description, id)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return true, nil
	}
	var exists bool
	err = r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM photos WHERE id=?)", id).Scan(&exists)
	return exists, err
}

// Delete removes a photo row; dependent tags, comments, ratings and share
// records go with it through ON DELETE CASCADE.
func (r *PhotoRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM photos WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByUser returns a page of a user's photos, newest first.
func (r *PhotoRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Photo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+photoColumns+" FROM photos WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Photo, 0, limit)
	for rows.Next() {
		var (
			p    model.Photo
			desc sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.UniqueURL, &p.HostPublicID, &desc, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Description = desc.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountByUser returns how many photos a user owns.
func (r *PhotoRepo) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM photos WHERE user_id=?", userID).Scan(&n)
	return n, err
}
