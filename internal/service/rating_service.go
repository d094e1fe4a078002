package service

import (
	"context"
	"errors"

	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/repository"
)

// RatingStore is the slice of the rating repository the service needs.
type RatingStore interface {
	Create(ctx context.Context, rt model.Rating) (model.Rating, error)
	GetByID(ctx context.Context, id uint64) (model.Rating, error)
	GetByPhotoAndUser(ctx context.Context, photoID, userID uint64) (model.Rating, error)
	Delete(ctx context.Context, id uint64) (bool, error)
	Stats(ctx context.Context, photoID uint64) (model.RatingStats, error)
}

// RatingService enforces the rating rules: value in 1..5, no self-rating,
// one rating per user per photo.
type RatingService struct {
	ratings RatingStore
	photos  photoLookup
}

func NewRatingService(ratings RatingStore, photos photoLookup) *RatingService {
	return &RatingService{ratings: ratings, photos: photos}
}

// Rate records one user's rating for a photo. The lookup before the insert
// is an optimization only; the unique key in storage decides races and its
// violation comes back as the same ErrAlreadyRated.
func (s *RatingService) Rate(ctx context.Context, photoID uint64, actor model.User, value int) (model.Rating, error) {
	if value < 1 || value > 5 {
		return model.Rating{}, ErrRatingValue
	}
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Rating{}, ErrNotFound
		}
		return model.Rating{}, err
	}
	if photo.UserID == actor.ID {
		return model.Rating{}, ErrSelfRating
	}
	if _, err := s.ratings.GetByPhotoAndUser(ctx, photoID, actor.ID); err == nil {
		return model.Rating{}, ErrAlreadyRated
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.Rating{}, err
	}

	rt, err := s.ratings.Create(ctx, model.Rating{PhotoID: photoID, UserID: actor.ID, Value: value})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRated) {
			return model.Rating{}, ErrAlreadyRated
		}
		return model.Rating{}, err
	}
	return rt, nil
}

// Stats returns the average and count of a photo's ratings.
func (s *RatingService) Stats(ctx context.Context, photoID uint64) (model.RatingStats, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.RatingStats{}, ErrNotFound
		}
		return model.RatingStats{}, err
	}
	return s.ratings.Stats(ctx, photoID)
}

// Delete removes a rating. Moderator or admin only.
func (s *RatingService) Delete(ctx context.Context, ratingID uint64, actor model.User) error {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleModerator {
		return ErrForbidden
	}
	ok, err := s.ratings.Delete(ctx, ratingID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
