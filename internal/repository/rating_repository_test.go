package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/photo-share/internal/model"
)

func setupRatingRepo(t *testing.T) (*RatingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRatingRepo(db), mock
}

func TestRatingRepo_Create(t *testing.T) {
	repo, mock := setupRatingRepo(t)

	mock.ExpectExec("INSERT INTO ratings").
		WithArgs(uint64(10), uint64(7), 4).
		WillReturnResult(sqlmock.NewResult(3, 1))

	rt, err := repo.Create(context.Background(), model.Rating{PhotoID: 10, UserID: 7, Value: 4})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rt.ID)
	assert.Equal(t, 4, rt.Value)
}

func TestRatingRepo_Create_DuplicateMeansAlreadyRated(t *testing.T) {
	repo, mock := setupRatingRepo(t)

	mock.ExpectExec("INSERT INTO ratings").
		WithArgs(uint64(10), uint64(7), 5).
		WillReturnError(errors.New("Error 1062: Duplicate entry '10-7' for key 'uq_ratings_photo_user'"))

	_, err := repo.Create(context.Background(), model.Rating{PhotoID: 10, UserID: 7, Value: 5})
	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestRatingRepo_Stats(t *testing.T) {
	repo, mock := setupRatingRepo(t)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.25, 8))

	s, err := repo.Stats(context.Background(), 10)
	require.NoError(t, err)
	assert.InDelta(t, 4.25, s.Average, 0.001)
	assert.Equal(t, int64(8), s.Count)
}

func TestRatingRepo_Stats_NoRatings(t *testing.T) {
	repo, mock := setupRatingRepo(t)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0))

	s, err := repo.Stats(context.Background(), 11)
	require.NoError(t, err)
	assert.Zero(t, s.Average)
	assert.Zero(t, s.Count)
}

func TestRatingRepo_GetByPhotoAndUser_NotFound(t *testing.T) {
	repo, mock := setupRatingRepo(t)

	mock.ExpectQuery("SELECT id,photo_id").
		WithArgs(uint64(10), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "photo_id", "user_id", "value", "created_at"}))

	_, err := repo.GetByPhotoAndUser(context.Background(), 10, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
