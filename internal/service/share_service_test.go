package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/photo-share/internal/imagehost"
	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/repository"
)

type fakeShareStore struct {
	renditions []model.TransformedImage
	links      map[string]model.PublicLink
}

func newFakeShareStore() *fakeShareStore {
	return &fakeShareStore{links: map[string]model.PublicLink{}}
}

func (f *fakeShareStore) CreateShare(_ context.Context, ti model.TransformedImage, link model.PublicLink) (model.PublicLink, error) {
	f.renditions = append(f.renditions, ti)
	link.ID = uint64(len(f.links) + 1)
	link.TransformedImageID = uint64(len(f.renditions))
	f.links[link.UUID] = link
	return link, nil
}

func (f *fakeShareStore) ResolveByUUID(_ context.Context, id string) (repository.PublicShare, error) {
	link, ok := f.links[id]
	if !ok {
		return repository.PublicShare{}, repository.ErrNotFound
	}
	ti := f.renditions[link.TransformedImageID-1]
	return repository.PublicShare{
		UUID:      link.UUID,
		ImageURL:  ti.ImageURL,
		QRCodeURL: link.QRCodeURL,
		PhotoID:   ti.PhotoID,
	}, nil
}

func newShareService() (*ShareService, *fakeShareStore) {
	photos := &fakePhotoLookup{photos: map[uint64]model.Photo{
		10: {ID: 10, UserID: 1, HostPublicID: "host/cat.jpg"},
	}}
	store := newFakeShareStore()
	return NewShareService(store, photos, &fakeImageHost{}, "https://app.example.com/"), store
}

func TestShareService_Create(t *testing.T) {
	svc, store := newShareService()

	link, err := svc.Create(context.Background(), 10, imagehost.Transformation{Width: 200, Effect: "grayscale"})
	require.NoError(t, err)

	assert.NotEmpty(t, link.UUID)
	assert.Equal(t, "https://app.example.com/public/"+link.UUID, link.PublicURL)
	assert.Equal(t, "https://img.example.com/t/host/cat.jpg", link.ImageURL)

	// The transformation is persisted as JSON alongside the rendition.
	require.Len(t, store.renditions, 1)
	var tr imagehost.Transformation
	require.NoError(t, json.Unmarshal([]byte(store.renditions[0].Transformation), &tr))
	assert.Equal(t, 200, tr.Width)
	assert.Equal(t, "grayscale", tr.Effect)
}

func TestShareService_Create_UnknownPhoto(t *testing.T) {
	svc, _ := newShareService()

	_, err := svc.Create(context.Background(), 999, imagehost.Transformation{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_Resolve(t *testing.T) {
	svc, _ := newShareService()
	ctx := context.Background()

	link, err := svc.Create(ctx, 10, imagehost.Transformation{})
	require.NoError(t, err)

	share, err := svc.Resolve(ctx, link.UUID)
	require.NoError(t, err)
	assert.Equal(t, link.ImageURL, share.ImageURL)
	assert.Equal(t, uint64(10), share.PhotoID)

	_, err = svc.Resolve(ctx, "no-such-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_QRCode(t *testing.T) {
	svc, _ := newShareService()
	ctx := context.Background()

	link, err := svc.Create(ctx, 10, imagehost.Transformation{})
	require.NoError(t, err)

	png, err := svc.QRCode(ctx, link.UUID)
	require.NoError(t, err)
	// PNG magic bytes.
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
