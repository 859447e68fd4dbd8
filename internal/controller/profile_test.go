package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsmart-app/backend/internal/models"
	"github.com/shopsmart-app/backend/internal/service"
)

type fakeUserService struct {
	users          map[uuid.UUID]*models.User
	failUpdateName bool
}

var _ service.IUserService = (*fakeUserService)(nil)

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserService) CreateUser(ctx context.Context, user *models.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, service.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserService) UpdateUsername(ctx context.Context, userID uuid.UUID, username string) error {
	if f.failUpdateName {
		return errBackend
	}
	u, ok := f.users[userID]
	if !ok {
		return service.ErrNotFound
	}
	u.Username = &username
	return nil
}

func (f *fakeUserService) UpdateProfileImagePath(ctx context.Context, userID uuid.UUID, path, url *string) error {
	u, ok := f.users[userID]
	if !ok {
		return service.ErrNotFound
	}
	u.ProfileImagePath = path
	u.ProfileImagePathURL = url
	return nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, ok := f.users[userID]; !ok {
		return service.ErrNotFound
	}
	delete(f.users, userID)
	return nil
}

type fakeBlobStore struct {
	blobs   map[string][]byte
	deleted []string
	counter int
}

var _ service.IStorageService = (*fakeBlobStore)(nil)

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) SaveImage(ctx context.Context, data []byte, userID uuid.UUID) (string, error) {
	f.counter++
	path := "users/" + userID.String() + "/" + uuid.NewString() + ".jpg"
	f.blobs[path] = data
	return path, nil
}

func (f *fakeBlobStore) URLForImage(ctx context.Context, path string) (string, error) {
	if _, ok := f.blobs[path]; !ok {
		return "", errors.New("no such blob")
	}
	return "https://img.example.com/" + path, nil
}

func (f *fakeBlobStore) DeleteImage(ctx context.Context, path string) error {
	delete(f.blobs, path)
	f.deleted = append(f.deleted, path)
	return nil
}

type fakeAccountService struct {
	deleted []uuid.UUID
	fail    bool
}

var _ service.IAccountService = (*fakeAccountService)(nil)

func (f *fakeAccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if f.fail {
		return errBackend
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

type memoryURLCache struct {
	mu      sync.Mutex
	entries map[string]string
	hits    int
}

var _ URLCache = (*memoryURLCache)(nil)

func newMemoryURLCache() *memoryURLCache {
	return &memoryURLCache{entries: make(map[string]string)}
}

func (c *memoryURLCache) Get(ctx context.Context, path string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	url, ok := c.entries[path]
	if ok {
		c.hits++
	}
	return url, ok, nil
}

func (c *memoryURLCache) Set(ctx context.Context, path, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = url
	return nil
}

func (c *memoryURLCache) Remove(ctx context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	return nil
}

func setupProfile(t *testing.T) (*ProfileController, *fakeUserService, *fakeBlobStore, *fakeAccountService, *memoryURLCache, uuid.UUID) {
	users := newFakeUserService()
	store := newFakeBlobStore()
	account := &fakeAccountService{}
	urls := newMemoryURLCache()

	userID := uuid.New()
	name := "tester"
	require.NoError(t, users.CreateUser(context.Background(), &models.User{ID: userID, Username: &name}))

	ctl := NewProfileController(StaticSession{UserID: userID}, users, store, account, urls, nil)
	return ctl, users, store, account, urls, userID
}

func TestLoadCurrentUser(t *testing.T) {
	ctl, _, _, _, _, userID := setupProfile(t)

	assert.Nil(t, ctl.User())
	ctl.LoadCurrentUser(context.Background())

	user := ctl.User()
	require.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
}

func TestCanSave(t *testing.T) {
	ctl, _, _, _, _, _ := setupProfile(t)
	ctl.LoadCurrentUser(context.Background())

	assert.False(t, ctl.CanSave())

	// Staging the current name is not a change.
	ctl.SetPendingUsername("tester")
	assert.False(t, ctl.CanSave())

	ctl.SetPendingUsername("renamed")
	assert.True(t, ctl.CanSave())
}

func TestSaveAllUploadsImageAndRenames(t *testing.T) {
	ctl, users, store, _, urls, userID := setupProfile(t)
	ctx := context.Background()
	ctl.LoadCurrentUser(ctx)

	ctl.SetPendingUsername("renamed")
	ctl.PickImage([]byte("jpeg-bytes"))
	ctl.SaveAll(ctx)

	stored := users.users[userID]
	require.NotNil(t, stored.Username)
	assert.Equal(t, "renamed", *stored.Username)
	require.NotNil(t, stored.ProfileImagePath)
	require.NotNil(t, stored.ProfileImagePathURL)
	assert.Len(t, store.blobs, 1)

	// The mirror was reloaded with the saved state.
	mirror := ctl.User()
	require.NotNil(t, mirror)
	assert.Equal(t, "renamed", *mirror.Username)
	assert.Empty(t, ctl.ErrorMessage())

	// The resolved URL was cached at upload time.
	url, ok, err := urls.Get(ctx, *stored.ProfileImagePath)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, *stored.ProfileImagePathURL, url)
}

func TestSaveAllReplacesOldImage(t *testing.T) {
	ctl, users, store, _, _, userID := setupProfile(t)
	ctx := context.Background()
	ctl.LoadCurrentUser(ctx)

	ctl.PickImage([]byte("first"))
	ctl.SaveAll(ctx)
	first := *users.users[userID].ProfileImagePath

	ctl.PickImage([]byte("second"))
	ctl.SaveAll(ctx)

	assert.Contains(t, store.deleted, first)
	assert.Len(t, store.blobs, 1)
	assert.NotEqual(t, first, *users.users[userID].ProfileImagePath)
}

func TestSaveAllContinuesPastFailedUsername(t *testing.T) {
	ctl, users, _, _, _, userID := setupProfile(t)
	ctx := context.Background()
	ctl.LoadCurrentUser(ctx)
	users.failUpdateName = true

	ctl.SetPendingUsername("renamed")
	ctl.PickImage([]byte("jpeg-bytes"))
	ctl.SaveAll(ctx)

	// The image step ran even though the rename failed.
	assert.NotNil(t, users.users[userID].ProfileImagePath)
	assert.Equal(t, "tester", *users.users[userID].Username)
	assert.NotEmpty(t, ctl.ErrorMessage())
}

func TestProfileImageURLUsesCache(t *testing.T) {
	ctl, _, _, _, urls, _ := setupProfile(t)
	ctx := context.Background()
	ctl.LoadCurrentUser(ctx)

	_, err := ctl.ProfileImageURL(ctx)
	assert.ErrorIs(t, err, service.ErrNotFound)

	ctl.PickImage([]byte("jpeg-bytes"))
	ctl.SaveAll(ctx)
	ctl.LoadCurrentUser(ctx)

	first, err := ctl.ProfileImageURL(ctx)
	require.NoError(t, err)
	before := urls.hits

	second, err := ctl.ProfileImageURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Greater(t, urls.hits, before)
}

func TestDeleteProfileImage(t *testing.T) {
	ctl, users, store, _, urls, userID := setupProfile(t)
	ctx := context.Background()
	ctl.LoadCurrentUser(ctx)
	ctl.PickImage([]byte("jpeg-bytes"))
	ctl.SaveAll(ctx)
	path := *users.users[userID].ProfileImagePath

	ctl.DeleteProfileImage(ctx)

	assert.Contains(t, store.deleted, path)
	assert.Nil(t, users.users[userID].ProfileImagePath)
	assert.Nil(t, users.users[userID].ProfileImagePathURL)
	mirror := ctl.User()
	require.NotNil(t, mirror)
	assert.Nil(t, mirror.ProfileImagePath)
	_, ok, _ := urls.Get(ctx, path)
	assert.False(t, ok)
}

func TestSignOutClearsState(t *testing.T) {
	ctl, _, _, _, _, _ := setupProfile(t)
	ctx := context.Background()
	ctl.LoadCurrentUser(ctx)
	ctl.SetPendingUsername("renamed")
	ctl.PickImage([]byte("jpeg-bytes"))

	ctl.SignOut()

	assert.Nil(t, ctl.User())
	assert.Empty(t, ctl.ErrorMessage())
	assert.False(t, ctl.CanSave())
}

func TestDeleteAccount(t *testing.T) {
	ctl, _, _, account, _, userID := setupProfile(t)
	ctx := context.Background()
	ctl.LoadCurrentUser(ctx)

	require.NoError(t, ctl.DeleteAccount(ctx))
	assert.Equal(t, []uuid.UUID{userID}, account.deleted)
	assert.Nil(t, ctl.User())
}

func TestDeleteAccountWithoutUser(t *testing.T) {
	ctl, _, _, account, _, _ := setupProfile(t)

	err := ctl.DeleteAccount(context.Background())
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)
	assert.Empty(t, account.deleted)
}

func TestDeleteAccountFailureKeepsMirror(t *testing.T) {
	ctl, _, _, account, _, _ := setupProfile(t)
	ctx := context.Background()
	ctl.LoadCurrentUser(ctx)
	account.fail = true

	err := ctl.DeleteAccount(ctx)
	require.Error(t, err)
	assert.NotNil(t, ctl.User())
	assert.NotEmpty(t, ctl.ErrorMessage())
}
