package service

import (
	"context"
	"errors"

	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/repository"
)

// UserAdminStore is the slice of the user repository profile and admin
// operations need.
type UserAdminStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, username, email string) (model.User, error)
	SetActive(ctx context.Context, id uint64, active bool) (bool, error)
	SetRole(ctx context.Context, id uint64, role string) (bool, error)
}

// PhotoCounter supplies the photo count shown on profiles.
type PhotoCounter interface {
	CountByUser(ctx context.Context, userID uint64) (int64, error)
}

// Profile is a user together with derived profile data.
type Profile struct {
	User        model.User
	PhotosCount int64
}

// UserService implements profile reads/updates and the admin actions on
// accounts (ban, unban, role change).
type UserService struct {
	users  UserAdminStore
	photos PhotoCounter
}

func NewUserService(users UserAdminStore, photos PhotoCounter) *UserService {
	return &UserService{users: users, photos: photos}
}

// ProfileByUsername returns the profile for a public page.
func (s *UserService) ProfileByUsername(ctx context.Context, username string) (Profile, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return s.withCount(ctx, u)
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, current model.User) (Profile, error) {
	return s.withCount(ctx, current)
}

// UpdateMe changes the caller's username and/or email. Conflicting values
// yield the same taken-errors as registration.
func (s *UserService) UpdateMe(ctx context.Context, current model.User, username, email string) (Profile, error) {
	u, err := s.users.UpdateProfile(ctx, current.ID, username, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return Profile{}, ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameExists):
			return Profile{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrNotFound):
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return s.withCount(ctx, u)
}

// SetActive bans (false) or unbans (true) an account. Only the route-level
// role middleware lets admins in here.
func (s *UserService) SetActive(ctx context.Context, targetID uint64, active bool) error {
	ok, err := s.users.SetActive(ctx, targetID, active)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// SetRole assigns a new role to an account.
func (s *UserService) SetRole(ctx context.Context, targetID uint64, role string) error {
	if !model.ValidRole(role) {
		return ErrInvalidRole
	}
	ok, err := s.users.SetRole(ctx, targetID, role)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) withCount(ctx context.Context, u model.User) (Profile, error) {
	n, err := s.photos.CountByUser(ctx, u.ID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{User: u, PhotosCount: n}, nil
}
