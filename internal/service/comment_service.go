package service

import (
	"context"
	"errors"

	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/repository"
)

// CommentStore is the slice of the comment repository the service needs.
type CommentStore interface {
	Create(ctx context.Context, c model.Comment) (model.Comment, error)
	GetByID(ctx context.Context, id uint64) (model.Comment, error)
	UpdateBody(ctx context.Context, id uint64, body string) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	ListForPhoto(ctx context.Context, photoID uint64, limit, offset int) ([]model.Comment, error)
	ListForUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Comment, error)
}

// photoLookup is the minimal photo access comments need: existence checks.
type photoLookup interface {
	GetByID(ctx context.Context, id uint64) (model.Photo, error)
}

// CommentService implements commenting. Any active user may comment on any
// photo; only the author may edit; only moderators and admins may delete.
type CommentService struct {
	comments CommentStore
	photos   photoLookup
}

func NewCommentService(comments CommentStore, photos photoLookup) *CommentService {
	return &CommentService{comments: comments, photos: photos}
}

// Create adds a comment to an existing photo.
func (s *CommentService) Create(ctx context.Context, photoID uint64, author model.User, body string) (model.Comment, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Comment{}, ErrNotFound
		}
		return model.Comment{}, err
	}
	return s.comments.Create(ctx, model.Comment{PhotoID: photoID, UserID: author.ID, Body: body})
}

// Update edits a comment's text. Author only, regardless of role.
func (s *CommentService) Update(ctx context.Context, commentID uint64, actor model.User, body string) (model.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Comment{}, ErrNotFound
		}
		return model.Comment{}, err
	}
	if c.UserID != actor.ID {
		return model.Comment{}, ErrForbidden
	}
	if _, err := s.comments.UpdateBody(ctx, commentID, body); err != nil {
		return model.Comment{}, err
	}
	c.Body = body
	return c, nil
}

// Delete removes a comment. Moderator or admin only.
func (s *CommentService) Delete(ctx context.Context, commentID uint64, actor model.User) error {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleModerator {
		return ErrForbidden
	}
	ok, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListForPhoto returns a page of a photo's comments.
func (s *CommentService) ListForPhoto(ctx context.Context, photoID uint64, limit, offset int) ([]model.Comment, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.comments.ListForPhoto(ctx, photoID, limit, offset)
}

// ListForUser returns a page of one user's comments.
func (s *CommentService) ListForUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Comment, error) {
	return s.comments.ListForUser(ctx, userID, limit, offset)
}
