package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/photo-share/internal/imagehost"
	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/repository"
	"github.com/iliyamo/photo-share/internal/utils"
)

// ShareStore persists transformed images and public links.
type ShareStore interface {
	CreateShare(ctx context.Context, ti model.TransformedImage, link model.PublicLink) (model.PublicLink, error)
	ResolveByUUID(ctx context.Context, uuid string) (repository.PublicShare, error)
}

// ShareLink is what the caller gets back after creating a share: the public
// identifier and the URLs hanging off it.
type ShareLink struct {
	UUID      string `json:"uuid"`
	PublicURL string `json:"public_url"`
	ImageURL  string `json:"image_url"`
}

// ShareService creates public share links for transformed renditions of a
// photo and resolves them for anonymous visitors.
type ShareService struct {
	shares  ShareStore
	photos  photoLookup
	host    ImageHost
	baseURL string
}

func NewShareService(shares ShareStore, photos photoLookup, host ImageHost, baseURL string) *ShareService {
	return &ShareService{shares: shares, photos: photos, host: host, baseURL: strings.TrimRight(baseURL, "/")}
}

// Create builds the transformed rendition URL, stores it together with a
// fresh public link UUID, and returns the link. Any authenticated user may
// share any photo; the link exposes only the rendition, never the account.
func (s *ShareService) Create(ctx context.Context, photoID uint64, t imagehost.Transformation) (ShareLink, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ShareLink{}, ErrNotFound
		}
		return ShareLink{}, err
	}

	imageURL := s.host.TransformedURL(photo.HostPublicID, t)
	params, err := json.Marshal(t)
	if err != nil {
		return ShareLink{}, err
	}

	id := uuid.NewString()
	publicURL := s.baseURL + "/public/" + id

	_, err = s.shares.CreateShare(ctx,
		model.TransformedImage{PhotoID: photo.ID, Transformation: string(params), ImageURL: imageURL},
		model.PublicLink{UUID: id, QRCodeURL: publicURL},
	)
	if err != nil {
		return ShareLink{}, err
	}
	return ShareLink{UUID: id, PublicURL: publicURL, ImageURL: imageURL}, nil
}

// Resolve returns the rendition URL behind a public link.
func (s *ShareService) Resolve(ctx context.Context, id string) (repository.PublicShare, error) {
	share, err := s.shares.ResolveByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.PublicShare{}, ErrNotFound
		}
		return repository.PublicShare{}, err
	}
	return share, nil
}

// QRCode renders the public link's QR code as a PNG.
func (s *ShareService) QRCode(ctx context.Context, id string) ([]byte, error) {
	share, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return utils.QRCodePNG(share.QRCodeURL, 256)
}
