package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/photo-share/internal/imagehost"
	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/queue"
	"github.com/iliyamo/photo-share/internal/repository"
)

// PhotoStore is the slice of the photo repository the photo service needs.
type PhotoStore interface {
	Create(ctx context.Context, p model.Photo) (model.Photo, error)
	GetByID(ctx context.Context, id uint64) (model.Photo, error)
	GetByUniqueURL(ctx context.Context, slug string) (model.Photo, error)
	UpdateDescription(ctx context.Context, id uint64, description string) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Photo, error)
	Search(ctx context.Context, q repository.PhotoSearchQuery) ([]repository.PhotoSearchRow, int64, error)
}

// TagStore persists tags and photo/tag assignments.
type TagStore interface {
	GetOrCreate(ctx context.Context, name string) (model.Tag, error)
	ReplaceForPhoto(ctx context.Context, photoID uint64, tagIDs []uint64) error
	ListForPhoto(ctx context.Context, photoID uint64) ([]model.Tag, error)
}

// ImageHost is the external store for the actual image bytes.
type ImageHost interface {
	Upload(ctx context.Context, filename string, file io.Reader) (imagehost.Asset, error)
	Delete(ctx context.Context, publicID string) error
	TransformedURL(publicID string, t imagehost.Transformation) string
}

// EventPublisher emits photo activity events. Publishing is best-effort;
// errors are swallowed by the service after the publisher has logged them.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.PhotoEvent) error
}

// PhotoService implements upload, metadata updates, deletion, listing,
// search and tagging.
type PhotoService struct {
	photos PhotoStore
	tags   TagStore
	host   ImageHost
	events EventPublisher
}

func NewPhotoService(photos PhotoStore, tags TagStore, host ImageHost, events EventPublisher) *PhotoService {
	return &PhotoService{photos: photos, tags: tags, host: host, events: events}
}

// canModify implements the ownership check: the photo's creator or a
// sufficiently privileged role.
func canModify(actor model.User, ownerID uint64) bool {
	return actor.ID == ownerID || actor.Role == model.RoleAdmin || actor.Role == model.RoleModerator
}

// Upload pushes the image bytes to the external host and persists the photo
// row. If the row cannot be written the uploaded asset is deleted
// best-effort so the host does not accumulate orphans.
func (s *PhotoService) Upload(ctx context.Context, owner model.User, filename string, file io.Reader, description string, tags []string) (model.Photo, []model.Tag, error) {
	tags = normalizeTags(tags)
	if len(tags) > model.MaxTagsPerPhoto {
		return model.Photo{}, nil, ErrTooManyTags
	}

	asset, err := s.host.Upload(ctx, filename, file)
	if err != nil {
		return model.Photo{}, nil, err
	}

	photo, err := s.photos.Create(ctx, model.Photo{
		UserID:       owner.ID,
		UniqueURL:    uuid.NewString(),
		HostPublicID: asset.PublicID,
		Description:  description,
	})
	if err != nil {
		_ = s.host.Delete(ctx, asset.PublicID)
		return model.Photo{}, nil, err
	}

	assigned, err := s.assignTags(ctx, photo.ID, tags)
	if err != nil {
		return model.Photo{}, nil, err
	}

	_ = s.events.Publish(ctx, queue.PhotoEvent{
		Type:       queue.EventPhotoUploaded,
		PhotoID:    photo.ID,
		UserID:     owner.ID,
		UniqueURL:  photo.UniqueURL,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return photo, assigned, nil
}

// Get returns a photo with its tags.
func (s *PhotoService) Get(ctx context.Context, id uint64) (model.Photo, []model.Tag, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Photo{}, nil, ErrNotFound
		}
		return model.Photo{}, nil, err
	}
	tags, err := s.tags.ListForPhoto(ctx, id)
	if err != nil {
		return model.Photo{}, nil, err
	}
	return photo, tags, nil
}

// UpdateDescription replaces the caption, subject to the ownership check.
func (s *PhotoService) UpdateDescription(ctx context.Context, id uint64, description string, actor model.User) (model.Photo, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Photo{}, ErrNotFound
		}
		return model.Photo{}, err
	}
	if !canModify(actor, photo.UserID) {
		return model.Photo{}, ErrForbidden
	}
	if _, err := s.photos.UpdateDescription(ctx, id, description); err != nil {
		return model.Photo{}, err
	}
	photo.Description = description
	return photo, nil
}

// Delete removes the photo row (cascading tags, comments, ratings, shares)
// and then deletes the host asset best-effort.
func (s *PhotoService) Delete(ctx context.Context, id uint64, actor model.User) error {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !canModify(actor, photo.UserID) {
		return ErrForbidden
	}

	ok, err := s.photos.Delete(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		_ = s.host.Delete(ctx, photo.HostPublicID)
		_ = s.events.Publish(ctx, queue.PhotoEvent{
			Type:       queue.EventPhotoDeleted,
			PhotoID:    photo.ID,
			UserID:     photo.UserID,
			UniqueURL:  photo.UniqueURL,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return nil
}

// SetTags replaces the photo's tag set, subject to the ownership check and
// the per-photo cap.
func (s *PhotoService) SetTags(ctx context.Context, photoID uint64, actor model.User, tags []string) ([]model.Tag, error) {
	tags = normalizeTags(tags)
	if len(tags) > model.MaxTagsPerPhoto {
		return nil, ErrTooManyTags
	}
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canModify(actor, photo.UserID) {
		return nil, ErrForbidden
	}
	return s.assignTags(ctx, photoID, tags)
}

// ListByUser returns a page of a user's photos.
func (s *PhotoService) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Photo, error) {
	return s.photos.ListByUser(ctx, userID, limit, offset)
}

// Search runs the public photo search.
func (s *PhotoService) Search(ctx context.Context, q repository.PhotoSearchQuery) ([]repository.PhotoSearchRow, int64, error) {
	return s.photos.Search(ctx, q)
}

func (s *PhotoService) assignTags(ctx context.Context, photoID uint64, tags []string) ([]model.Tag, error) {
	out := make([]model.Tag, 0, len(tags))
	ids := make([]uint64, 0, len(tags))
	for _, name := range tags {
		t, err := s.tags.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := s.tags.ReplaceForPhoto(ctx, photoID, ids); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeTags lower-cases, trims and de-duplicates tag names, dropping
// empties.
func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
