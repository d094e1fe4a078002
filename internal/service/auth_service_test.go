package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/repository"
	"github.com/iliyamo/photo-share/internal/utils"
)

// fakeIdentityStore keeps users in memory and mimics the repository's
// bootstrap behavior: first user in gets the admin role.
type fakeIdentityStore struct {
	users  map[uint64]model.User
	nextID uint64
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{users: map[uint64]model.User{}, nextID: 1}
}

func (f *fakeIdentityStore) CreateBootstrap(_ context.Context, username, email, passwordHash string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
		if u.Username == username {
			return model.User{}, repository.ErrUsernameExists
		}
	}
	role := model.RoleUser
	if len(f.users) == 0 {
		role = model.RoleAdmin
	}
	u := model.User{
		ID: f.nextID, Username: username, Email: email,
		PasswordHash: passwordHash, Role: role, IsActive: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.users[u.ID] = u
	f.nextID++
	return u, nil
}

func (f *fakeIdentityStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeIdentityStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeIdentityStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

// fakeRevocationStore is an in-memory blacklist.
type fakeRevocationStore struct {
	revoked map[string]bool
	addErr  error
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]bool{}}
}

func (f *fakeRevocationStore) Add(_ context.Context, jti string, _ uint64, _ time.Time) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func newAuthService(t *testing.T) (*AuthService, *fakeIdentityStore, *fakeRevocationStore) {
	t.Helper()
	codec, err := utils.NewTokenCodec("unit-test-secret-of-decent-length", "HS256", 15)
	require.NoError(t, err)
	users := newFakeIdentityStore()
	blacklist := newFakeRevocationStore()
	return NewAuthService(users, blacklist, codec, 4), users, blacklist
}

func TestAuthService_Register_FirstUserIsAdmin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	tok, first, err := svc.Register(ctx, "alice", "alice@example.com", "pw-alice")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, first.Role)
	assert.True(t, first.IsActive)
	assert.NotEmpty(t, tok.Token)

	_, second, err := svc.Register(ctx, "bob", "bob@example.com", "pw-bob")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, second.Role)
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "other", "alice@example.com", "pw")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, _, err = svc.Register(ctx, "alice", "other@example.com", "pw")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Register_StoredHashIsNotPlaintext(t *testing.T) {
	svc, users, _ := newAuthService(t)

	_, u, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw-plain")
	require.NoError(t, err)

	stored := users.users[u.ID]
	assert.NotEqual(t, "pw-plain", stored.PasswordHash)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "pw-plain"))
}

func TestAuthService_Login(t *testing.T) {
	svc, users, _ := newAuthService(t)
	ctx := context.Background()

	_, registered, err := svc.Register(ctx, "alice", "alice@example.com", "pw-alice")
	require.NoError(t, err)

	tok, u, err := svc.Login(ctx, "alice@example.com", "pw-alice")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotEmpty(t, tok.JTI)

	// Unknown email and wrong password must be indistinguishable.
	_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "pw-alice")
	_, _, errWrongPw := svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)

	// A banned account cannot log in even with the right password.
	banned := users.users[registered.ID]
	banned.IsActive = false
	users.users[registered.ID] = banned
	_, _, err = svc.Login(ctx, "alice@example.com", "pw-alice")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestAuthService_Login_IssuesFreshJTI(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	a, _, err := svc.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	b, _, err := svc.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, a.JTI, b.JTI)
}

func TestAuthService_Logout_RevokesJTI(t *testing.T) {
	svc, _, blacklist := newAuthService(t)
	ctx := context.Background()

	tok, _, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tok.Token))
	revoked, err := blacklist.IsRevoked(ctx, tok.JTI)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Logging out twice is harmless.
	assert.NoError(t, svc.Logout(ctx, tok.Token))
}

func TestAuthService_Logout_FailsClosed(t *testing.T) {
	svc, _, blacklist := newAuthService(t)
	ctx := context.Background()

	err := svc.Logout(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, blacklist.revoked)
}

func TestAuthService_Logout_StorageFailurePropagates(t *testing.T) {
	svc, _, blacklist := newAuthService(t)
	ctx := context.Background()

	tok, _, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	blacklist.addErr = errors.New("storage down")
	err = svc.Logout(ctx, tok.Token)
	assert.Error(t, err)

	// The token must not be treated as revoked if the write failed.
	revoked, _ := blacklist.IsRevoked(ctx, tok.JTI)
	assert.False(t, revoked)
}
