package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/photo-share/internal/model"
)

// TagRepo persists tags and their assignments to photos.
type TagRepo struct{ DB *sql.DB }

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{DB: db} }

// GetOrCreate returns the tag with the given name, inserting it if missing.
// A concurrent insert losing the race on uq_tags_name falls back to a
// re-select.
func (r *TagRepo) GetOrCreate(ctx context.Context, name string) (model.Tag, error) {
	t, err := r.getByName(ctx, name)
	if err == nil {
		return t, nil
	}
	if err != ErrNotFound {
		return model.Tag{}, err
	}

	res, err := r.DB.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		if isDuplicateKey(err) {
			return r.getByName(ctx, name)
		}
		return model.Tag{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Tag{}, err
	}
	return model.Tag{ID: uint64(id), Name: name}, nil
}

// ReplaceForPhoto swaps a photo's tag set atomically.
func (r *TagRepo) ReplaceForPhoto(ctx context.Context, photoID uint64, tagIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM photo_tags WHERE photo_id=?", photoID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO photo_tags (photo_id, tag_id) VALUES (?,?)", photoID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListForPhoto returns a photo's tags ordered by name.
func (r *TagRepo) ListForPhoto(ctx context.Context, photoID uint64) ([]model.Tag, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT t.id, t.name FROM tags t JOIN photo_tags pt ON pt.tag_id = t.id WHERE pt.photo_id=? ORDER BY t.name",
		photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TagRepo) getByName(ctx context.Context, name string) (model.Tag, error) {
	var t model.Tag
	err := r.DB.QueryRowContext(ctx, "SELECT id, name FROM tags WHERE name=? LIMIT 1", name).
		Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return model.Tag{}, ErrNotFound
	}
	return t, err
}
