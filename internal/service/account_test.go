package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopsmart-app/backend/internal/database"
	"github.com/shopsmart-app/backend/internal/models"
)

type fakeStorage struct {
	saved   map[string][]byte
	deleted []string
	failOn  string
}

var _ IStorageService = (*fakeStorage)(nil)

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (f *fakeStorage) SaveImage(ctx context.Context, data []byte, userID uuid.UUID) (string, error) {
	path := "users/" + userID.String() + "/profile.jpg"
	f.saved[path] = data
	return path, nil
}

func (f *fakeStorage) URLForImage(ctx context.Context, path string) (string, error) {
	return "https://img.example.com/" + path, nil
}

func (f *fakeStorage) DeleteImage(ctx context.Context, path string) error {
	if f.failOn != "" && f.failOn == path {
		return errors.New("blob store unavailable")
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func setupAccountService(t *testing.T, storage IStorageService) (*AccountService, *AuthService, *ListService, *UserService) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	users := NewUserService(db)
	lists := NewListService(db)
	auth := NewAuthService(db, users, "test-secret")
	return NewAccountService(lists, users, auth, storage), auth, lists, users
}

func registerWithData(t *testing.T, auth *AuthService, lists *ListService, users *UserService, storage IStorageService) *models.User {
	ctx := context.Background()
	user, err := auth.Register(ctx, "shopper@example.com", "correct-horse", "shopper")
	require.NoError(t, err)

	path, err := storage.SaveImage(ctx, []byte("jpeg-bytes"), user.ID)
	require.NoError(t, err)
	url, err := storage.URLForImage(ctx, path)
	require.NoError(t, err)
	require.NoError(t, users.UpdateProfileImagePath(ctx, user.ID, &path, &url))

	list := &models.ShoppingList{Name: "Groceries", Emoji: "🛒", OwnerID: user.ID}
	_, err = lists.CreateList(ctx, list)
	require.NoError(t, err)
	for _, name := range []string{"Milk", "Bread"} {
		item := &models.ShoppingListItem{Name: name, Emoji: "🥛", AddedBy: user.ID, NumberOfTheItem: 1}
		_, err = lists.AddItem(ctx, list.ID, item)
		require.NoError(t, err)
	}
	return user
}

func TestDeleteAccountFullCascade(t *testing.T) {
	storage := newFakeStorage()
	svc, auth, lists, users := setupAccountService(t, storage)
	ctx := context.Background()
	user := registerWithData(t, auth, lists, users, storage)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))

	_, err := users.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := lists.GetLists(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.Len(t, storage.deleted, 1)

	_, _, err = auth.SignIn(ctx, "shopper@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAccountContinuesPastFailedStep(t *testing.T) {
	storage := newFakeStorage()
	svc, auth, lists, users := setupAccountService(t, storage)
	ctx := context.Background()
	user := registerWithData(t, auth, lists, users, storage)

	// Make the image-blob step fail; everything after it must still run.
	storage.failOn = "users/" + user.ID.String() + "/profile.jpg"

	err := svc.DeleteAccount(ctx, user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blob store unavailable")

	_, err = users.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := lists.GetLists(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, _, err = auth.SignIn(ctx, "shopper@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAccountUnknownUserStillDeletesNothingElse(t *testing.T) {
	storage := newFakeStorage()
	svc, _, _, _ := setupAccountService(t, storage)

	err := svc.DeleteAccount(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Empty(t, storage.deleted)
}
