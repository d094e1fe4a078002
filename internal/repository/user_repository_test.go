package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/photo-share/internal/model"
)

func setupUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func userRows(u model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}).
		AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepo_CreateBootstrap_FirstUserBecomesAdmin(t *testing.T) {
	repo, mock := setupUserRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs(bootstrapLock).
		WillReturnRows(sqlmock.NewRows([]string{"l"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "hash", model.RoleAdmin).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id,username").
		WithArgs(int64(1)).
		WillReturnRows(userRows(model.User{
			ID: 1, Username: "alice", Email: "alice@example.com",
			PasswordHash: "hash", Role: model.RoleAdmin, IsActive: true,
			CreatedAt: now, UpdatedAt: now,
		}))
	mock.ExpectCommit()
	mock.ExpectExec("SELECT RELEASE_LOCK").
		WithArgs(bootstrapLock).
		WillReturnResult(sqlmock.NewResult(0, 0))

	u, err := repo.CreateBootstrap(context.Background(), "alice", "Alice@Example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateBootstrap_LaterUserIsRegular(t *testing.T) {
	repo, mock := setupUserRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs(bootstrapLock).
		WillReturnRows(sqlmock.NewRows([]string{"l"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("bob", "bob@example.com", "hash", model.RoleUser).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery("SELECT id,username").
		WithArgs(int64(2)).
		WillReturnRows(userRows(model.User{
			ID: 2, Username: "bob", Email: "bob@example.com",
			PasswordHash: "hash", Role: model.RoleUser, IsActive: true,
			CreatedAt: now, UpdatedAt: now,
		}))
	mock.ExpectCommit()
	mock.ExpectExec("SELECT RELEASE_LOCK").
		WithArgs(bootstrapLock).
		WillReturnResult(sqlmock.NewResult(0, 0))

	u, err := repo.CreateBootstrap(context.Background(), "bob", "bob@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateBootstrap_LockTimeout(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs(bootstrapLock).
		WillReturnRows(sqlmock.NewRows([]string{"l"}).AddRow(0))

	_, err := repo.CreateBootstrap(context.Background(), "carol", "carol@example.com", "hash")
	assert.ErrorIs(t, err, errBootstrapLock)
}

func TestUserRepo_CreateBootstrap_DuplicateTranslation(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "duplicate email",
			dbErr:   errors.New("Error 1062: Duplicate entry 'a@b.c' for key 'uq_users_email'"),
			wantErr: ErrEmailExists,
		},
		{
			name:    "duplicate username",
			dbErr:   errors.New("Error 1062: Duplicate entry 'alice' for key 'uq_users_username'"),
			wantErr: ErrUsernameExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupUserRepo(t)

			mock.ExpectQuery("SELECT GET_LOCK").
				WithArgs(bootstrapLock).
				WillReturnRows(sqlmock.NewRows([]string{"l"}).AddRow(1))
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT EXISTS").
				WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
			mock.ExpectExec("INSERT INTO users").
				WillReturnError(tt.dbErr)
			mock.ExpectRollback()
			mock.ExpectExec("SELECT RELEASE_LOCK").
				WithArgs(bootstrapLock).
				WillReturnResult(sqlmock.NewResult(0, 0))

			_, err := repo.CreateBootstrap(context.Background(), "alice", "a@b.c", "hash")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery("SELECT id,username").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}))

	_, err := repo.GetByEmail(context.Background(), "Missing@Example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_SetActive_ReportsExistence(t *testing.T) {
	repo, mock := setupUserRepo(t)

	// Unchanged value: MySQL reports zero rows affected, the row still exists.
	mock.ExpectExec("UPDATE users SET is_active").
		WithArgs(false, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))

	ok, err := repo.SetActive(context.Background(), 3, false)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec("UPDATE users SET is_active").
		WithArgs(true, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))

	ok, err = repo.SetActive(context.Background(), 99, true)
	require.NoError(t, err)
	assert.False(t, ok)
}
