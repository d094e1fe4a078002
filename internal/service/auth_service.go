package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/repository"
	"github.com/iliyamo/photo-share/internal/utils"
)

// IdentityStore is the slice of the user repository the auth service needs.
type IdentityStore interface {
	CreateBootstrap(ctx context.Context, username, email, passwordHash string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RevocationStore records revoked token ids and answers revocation checks.
type RevocationStore interface {
	Add(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService orchestrates registration, login and logout.
type AuthService struct {
	users      IdentityStore
	blacklist  RevocationStore
	codec      *utils.TokenCodec
	bcryptCost int
}

func NewAuthService(users IdentityStore, blacklist RevocationStore, codec *utils.TokenCodec, bcryptCost int) *AuthService {
	return &AuthService{users: users, blacklist: blacklist, codec: codec, bcryptCost: bcryptCost}
}

// Register creates a new active account and immediately issues a session
// token for it. The duplicate checks run email first, then username; the
// unique keys in storage remain the authoritative guard and their violations
// are translated to the same conflict errors.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (utils.AccessToken, model.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return utils.AccessToken{}, model.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return utils.AccessToken{}, model.User{}, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return utils.AccessToken{}, model.User{}, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return utils.AccessToken{}, model.User{}, err
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return utils.AccessToken{}, model.User{}, err
	}

	// Role assignment (first user ever becomes admin) happens inside the
	// store, serialized under its bootstrap lock.
	u, err := s.users.CreateBootstrap(ctx, username, email, hash)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return utils.AccessToken{}, model.User{}, ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameExists):
			return utils.AccessToken{}, model.User{}, ErrUsernameTaken
		}
		return utils.AccessToken{}, model.User{}, err
	}

	tok, err := s.codec.Issue(u.ID, u.Role)
	if err != nil {
		return utils.AccessToken{}, model.User{}, err
	}
	return tok, u, nil
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password collapse into the same error on purpose.
func (s *AuthService) Login(ctx context.Context, email, password string) (utils.AccessToken, model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.AccessToken{}, model.User{}, ErrInvalidCredentials
		}
		return utils.AccessToken{}, model.User{}, err
	}
	if !u.IsActive {
		return utils.AccessToken{}, model.User{}, ErrInactiveUser
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return utils.AccessToken{}, model.User{}, ErrInvalidCredentials
	}

	tok, err := s.codec.Issue(u.ID, u.Role)
	if err != nil {
		return utils.AccessToken{}, model.User{}, err
	}
	return tok, u, nil
}

// Logout revokes the presented token by blacklisting its jti until the
// token's own expiry. Fail-closed: a token that does not decode is an error,
// not a silent no-op. The blacklist write must commit before logout reports
// success; a logout that does not persist revocation would leave the token
// usable.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.JTI == "" || claims.Subject == "" || claims.ExpiresAt.IsZero() {
		return ErrInvalidTokenPayload
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return ErrInvalidTokenPayload
	}
	return s.blacklist.Add(ctx, claims.JTI, userID, claims.ExpiresAt)
}
