package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/photo-share/internal/model"
)

// ShareRepo persists transformed-image records and their public links.
type ShareRepo struct{ DB *sql.DB }

func NewShareRepo(db *sql.DB) *ShareRepo { return &ShareRepo{DB: db} }

// CreateShare writes the transformed-image row and its public link in one
// transaction so a link can never point at a missing rendition.
func (r *ShareRepo) CreateShare(ctx context.Context, ti model.TransformedImage, link model.PublicLink) (model.PublicLink, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.PublicLink{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO transformed_images (photo_id, transformation, image_url) VALUES (?,?,?)",
		ti.PhotoID, ti.Transformation, ti.ImageURL)
	if err != nil {
		return model.PublicLink{}, err
	}
	tiID, err := res.LastInsertId()
	if err != nil {
		return model.PublicLink{}, err
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO public_links (transformed_image_id, uuid, qr_code_url) VALUES (?,?,?)",
		uint64(tiID), link.UUID, link.QRCodeURL)
	if err != nil {
		if isDuplicateKey(err) {
			return model.PublicLink{}, ErrDuplicate
		}
		return model.PublicLink{}, err
	}
	linkID, err := res.LastInsertId()
	if err != nil {
		return model.PublicLink{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.PublicLink{}, err
	}

	link.ID = uint64(linkID)
	link.TransformedImageID = uint64(tiID)
	return link, nil
}

// PublicShare is a resolved public link: everything needed to serve
// /public/:uuid without further lookups.
type PublicShare struct {
	UUID      string
	ImageURL  string
	QRCodeURL string
	PhotoID   uint64
}

// ResolveByUUID loads the public link and its rendition URL.
func (r *ShareRepo) ResolveByUUID(ctx context.Context, uuid string) (PublicShare, error) {
	var s PublicShare
	err := r.DB.QueryRowContext(ctx,
		`SELECT pl.uuid, ti.image_url, pl.qr_code_url, ti.photo_id
		 FROM public_links pl
		 JOIN transformed_images ti ON ti.id = pl.transformed_image_id
		 WHERE pl.uuid=? LIMIT 1`, uuid).
		Scan(&s.UUID, &s.ImageURL, &s.QRCodeURL, &s.PhotoID)
	if err == sql.ErrNoRows {
		return PublicShare{}, ErrNotFound
	}
	return s, err
}
