package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/photo-share/internal/imagehost"
	"github.com/iliyamo/photo-share/internal/model"
	"github.com/iliyamo/photo-share/internal/queue"
	"github.com/iliyamo/photo-share/internal/repository"
)

type fakePhotoStore struct {
	photos    map[uint64]model.Photo
	nextID    uint64
	createErr error
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{photos: map[uint64]model.Photo{}, nextID: 1}
}

func (f *fakePhotoStore) Create(_ context.Context, p model.Photo) (model.Photo, error) {
	if f.createErr != nil {
		return model.Photo{}, f.createErr
	}
	p.ID = f.nextID
	f.nextID++
	f.photos[p.ID] = p
	return p, nil
}

func (f *fakePhotoStore) GetByID(_ context.Context, id uint64) (model.Photo, error) {
	p, ok := f.photos[id]
	if !ok {
		return model.Photo{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePhotoStore) GetByUniqueURL(_ context.Context, slug string) (model.Photo, error) {
	for _, p := range f.photos {
		if p.UniqueURL == slug {
			return p, nil
		}
	}
	return model.Photo{}, repository.ErrNotFound
}

func (f *fakePhotoStore) UpdateDescription(_ context.Context, id uint64, description string) (bool, error) {
	p, ok := f.photos[id]
	if !ok {
		return false, nil
	}
	p.Description = description
	f.photos[id] = p
	return true, nil
}

func (f *fakePhotoStore) Delete(_ context.Context, id uint64) (bool, error) {
	if _, ok := f.photos[id]; !ok {
		return false, nil
	}
	delete(f.photos, id)
	return true, nil
}

func (f *fakePhotoStore) ListByUser(_ context.Context, userID uint64, _, _ int) ([]model.Photo, error) {
	var out []model.Photo
	for _, p := range f.photos {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotoStore) Search(_ context.Context, _ repository.PhotoSearchQuery) ([]repository.PhotoSearchRow, int64, error) {
	return nil, 0, nil
}

type fakeTagStore struct {
	tags    map[string]model.Tag
	byPhoto map[uint64][]uint64
	nextID  uint64
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{tags: map[string]model.Tag{}, byPhoto: map[uint64][]uint64{}, nextID: 1}
}

func (f *fakeTagStore) GetOrCreate(_ context.Context, name string) (model.Tag, error) {
	if t, ok := f.tags[name]; ok {
		return t, nil
	}
	t := model.Tag{ID: f.nextID, Name: name}
	f.nextID++
	f.tags[name] = t
	return t, nil
}

func (f *fakeTagStore) ReplaceForPhoto(_ context.Context, photoID uint64, tagIDs []uint64) error {
	f.byPhoto[photoID] = tagIDs
	return nil
}

func (f *fakeTagStore) ListForPhoto(_ context.Context, photoID uint64) ([]model.Tag, error) {
	var out []model.Tag
	for _, id := range f.byPhoto[photoID] {
		for _, t := range f.tags {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

type fakeImageHost struct {
	uploaded []string
	deleted  []string
}

func (f *fakeImageHost) Upload(_ context.Context, filename string, _ io.Reader) (imagehost.Asset, error) {
	id := "host/" + filename
	f.uploaded = append(f.uploaded, id)
	return imagehost.Asset{PublicID: id, SecureURL: "https://img.example.com/" + id}, nil
}

func (f *fakeImageHost) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeImageHost) TransformedURL(publicID string, _ imagehost.Transformation) string {
	return "https://img.example.com/t/" + publicID
}

type fakeEventPublisher struct {
	events []queue.PhotoEvent
}

func (f *fakeEventPublisher) Publish(_ context.Context, ev queue.PhotoEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func newPhotoService() (*PhotoService, *fakePhotoStore, *fakeTagStore, *fakeImageHost, *fakeEventPublisher) {
	photos := newFakePhotoStore()
	tags := newFakeTagStore()
	host := &fakeImageHost{}
	events := &fakeEventPublisher{}
	return NewPhotoService(photos, tags, host, events), photos, tags, host, events
}

func TestPhotoService_Upload(t *testing.T) {
	svc, _, _, host, events := newPhotoService()
	owner := model.User{ID: 1, Role: model.RoleUser}

	photo, tags, err := svc.Upload(context.Background(), owner,
		"cat.jpg", strings.NewReader("bytes"), "my cat", []string{"Cats", "cats", " pets "})
	require.NoError(t, err)

	assert.Equal(t, owner.ID, photo.UserID)
	assert.NotEmpty(t, photo.UniqueURL)
	assert.Equal(t, "host/cat.jpg", photo.HostPublicID)
	assert.Len(t, host.uploaded, 1)

	// Tags are normalized and de-duplicated.
	names := make([]string, 0, len(tags))
	for _, tg := range tags {
		names = append(names, tg.Name)
	}
	assert.ElementsMatch(t, []string{"cats", "pets"}, names)

	require.Len(t, events.events, 1)
	assert.Equal(t, queue.EventPhotoUploaded, events.events[0].Type)
}

func TestPhotoService_Upload_TagCap(t *testing.T) {
	svc, _, _, host, _ := newPhotoService()
	owner := model.User{ID: 1}

	tooMany := []string{"a", "b", "c", "d", "e", "f"}
	_, _, err := svc.Upload(context.Background(), owner,
		"cat.jpg", strings.NewReader("bytes"), "", tooMany)
	assert.ErrorIs(t, err, ErrTooManyTags)
	assert.Empty(t, host.uploaded, "cap check must run before the upload")
}

func TestPhotoService_Upload_CleansUpOrphanOnStoreFailure(t *testing.T) {
	svc, photos, _, host, _ := newPhotoService()
	photos.createErr = errors.New("insert failed")

	_, _, err := svc.Upload(context.Background(), model.User{ID: 1},
		"cat.jpg", strings.NewReader("bytes"), "", nil)
	assert.Error(t, err)
	assert.Equal(t, host.uploaded, host.deleted)
}

func TestPhotoService_UpdateDescription_Ownership(t *testing.T) {
	svc, photos, _, _, _ := newPhotoService()
	photos.photos[1] = model.Photo{ID: 1, UserID: 1}
	photos.nextID = 2
	ctx := context.Background()

	_, err := svc.UpdateDescription(ctx, 1, "new", model.User{ID: 2, Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := svc.UpdateDescription(ctx, 1, "by owner", model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "by owner", p.Description)

	_, err = svc.UpdateDescription(ctx, 1, "by admin", model.User{ID: 3, Role: model.RoleAdmin})
	assert.NoError(t, err)
}

func TestPhotoService_Delete(t *testing.T) {
	svc, photos, _, host, events := newPhotoService()
	photos.photos[1] = model.Photo{ID: 1, UserID: 1, HostPublicID: "host/cat.jpg"}
	ctx := context.Background()

	err := svc.Delete(ctx, 1, model.User{ID: 2, Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(ctx, 1, model.User{ID: 1, Role: model.RoleUser}))
	assert.Empty(t, photos.photos)
	assert.Equal(t, []string{"host/cat.jpg"}, host.deleted)
	require.Len(t, events.events, 1)
	assert.Equal(t, queue.EventPhotoDeleted, events.events[0].Type)

	err = svc.Delete(ctx, 1, model.User{ID: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPhotoService_SetTags(t *testing.T) {
	svc, photos, tagStore, _, _ := newPhotoService()
	photos.photos[1] = model.Photo{ID: 1, UserID: 1}
	ctx := context.Background()
	owner := model.User{ID: 1, Role: model.RoleUser}

	got, err := svc.SetTags(ctx, 1, owner, []string{"Sunset", "beach"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, tagStore.byPhoto[1], 2)

	_, err = svc.SetTags(ctx, 1, owner, []string{"a", "b", "c", "d", "e", "f"})
	assert.ErrorIs(t, err, ErrTooManyTags)

	_, err = svc.SetTags(ctx, 1, model.User{ID: 5, Role: model.RoleUser}, []string{"x"})
	assert.ErrorIs(t, err, ErrForbidden)
}
