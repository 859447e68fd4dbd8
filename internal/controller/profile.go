package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/shopsmart-app/backend/internal/models"
	"github.com/shopsmart-app/backend/internal/service"
)

// URLCache caches resolved profile-image URLs. See cache.ImageURLCache.
type URLCache interface {
	Get(ctx context.Context, path string) (string, bool, error)
	Set(ctx context.Context, path, url string) error
	Remove(ctx context.Context, path string) error
}

// ProfileController mirrors the signed-in user's document for the profile
// settings screen and runs the multi-step save and account-deletion flows.
type ProfileController struct {
	mu      sync.Mutex
	session Session
	users   service.IUserService
	storage service.IStorageService
	account service.IAccountService
	urls    URLCache

	user            *models.User
	pendingImage    []byte
	pendingUsername *string
	isUpdating      bool
	isUploading     bool
	errorMessage    string

	onChange func()
}

// NewProfileController creates a controller over the profile services. urls
// and onChange may be nil.
func NewProfileController(session Session, users service.IUserService, storage service.IStorageService, account service.IAccountService, urls URLCache, onChange func()) *ProfileController {
	return &ProfileController{
		session:  session,
		users:    users,
		storage:  storage,
		account:  account,
		urls:     urls,
		onChange: onChange,
	}
}

func (c *ProfileController) notifyLocked() {
	if c.onChange != nil {
		c.onChange()
	}
}

// User returns the mirrored user document, or nil before the first load.
func (c *ProfileController) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// ErrorMessage returns the last surfaced error, or "".
func (c *ProfileController) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// SetPendingUsername stages a display-name change for the next SaveAll.
func (c *ProfileController) SetPendingUsername(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingUsername = &name
	c.notifyLocked()
}

// PickImage stages image bytes for the next SaveAll.
func (c *ProfileController) PickImage(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingImage = data
	c.notifyLocked()
}

// CanSave reports whether SaveAll would do anything.
func (c *ProfileController) CanSave() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isUpdating || c.isUploading {
		return false
	}
	nameChanged := c.pendingUsername != nil &&
		(c.user == nil || c.user.Username == nil || *c.pendingUsername != *c.user.Username)
	return nameChanged || c.pendingImage != nil
}

// LoadCurrentUser fetches the signed-in user's document into the mirror.
func (c *ProfileController) LoadCurrentUser(ctx context.Context) {
	userID, err := c.session.CurrentUserID(ctx)
	if err != nil {
		c.setError("Failed to load user: " + err.Error())
		return
	}
	user, err := c.users.GetUser(ctx, userID)
	if err != nil {
		slog.Warn("failed to load user", "error", err)
		c.setError("Failed to load user: " + err.Error())
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = user
	c.notifyLocked()
}

// ProfileImageURL resolves the mirrored user's image path to a fetchable URL,
// consulting the URL cache first.
func (c *ProfileController) ProfileImageURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.user == nil || c.user.ProfileImagePath == nil {
		c.mu.Unlock()
		return "", service.ErrNotFound
	}
	path := *c.user.ProfileImagePath
	c.mu.Unlock()

	if c.urls != nil {
		if url, ok, err := c.urls.Get(ctx, path); err == nil && ok {
			return url, nil
		}
	}
	url, err := c.storage.URLForImage(ctx, path)
	if err != nil {
		return "", err
	}
	if c.urls != nil {
		if err := c.urls.Set(ctx, path, url); err != nil {
			slog.Warn("failed to cache image url", "error", err)
		}
	}
	return url, nil
}

// SaveAll applies the staged profile changes in a fixed order: delete the old
// image blob, upload and record the new one, update the username, reload the
// document. Each step is best-effort; a failure is surfaced and later steps
// still run.
func (c *ProfileController) SaveAll(ctx context.Context) {
	c.mu.Lock()
	if c.isUpdating || c.isUploading {
		c.mu.Unlock()
		return
	}
	c.isUpdating = true
	user := c.user
	pendingImage := c.pendingImage
	pendingUsername := c.pendingUsername
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.isUpdating = false
		c.isUploading = false
		c.mu.Unlock()
	}()

	if user == nil {
		c.setError("No user loaded")
		return
	}

	var errs *multierror.Error

	if pendingImage != nil && user.ProfileImagePath != nil {
		oldPath := *user.ProfileImagePath
		if err := c.storage.DeleteImage(ctx, oldPath); err != nil {
			slog.Warn("failed to delete old profile image", "error", err)
			c.setError("Failed to delete old profile image: " + err.Error())
			errs = multierror.Append(errs, err)
		} else if c.urls != nil {
			_ = c.urls.Remove(ctx, oldPath)
		}
	}

	if pendingImage != nil {
		c.mu.Lock()
		c.isUploading = true
		c.mu.Unlock()

		if err := c.uploadImage(ctx, user.ID, pendingImage); err != nil {
			slog.Warn("failed to upload profile image", "error", err)
			c.setError("Failed to upload new profile image: " + err.Error())
			errs = multierror.Append(errs, err)
		}

		c.mu.Lock()
		c.isUploading = false
		c.pendingImage = nil
		c.mu.Unlock()
	}

	if pendingUsername != nil {
		if err := c.users.UpdateUsername(ctx, user.ID, *pendingUsername); err != nil {
			slog.Warn("failed to update username", "error", err)
			c.setError("Failed to update username: " + err.Error())
			errs = multierror.Append(errs, err)
		}
		c.mu.Lock()
		c.pendingUsername = nil
		c.mu.Unlock()
	}

	reloaded, err := c.users.GetUser(ctx, user.ID)
	if err != nil {
		slog.Warn("failed to reload user", "error", err)
		c.setError("Failed to reload user: " + err.Error())
		errs = multierror.Append(errs, err)
	} else {
		c.mu.Lock()
		c.user = reloaded
		c.pendingUsername = reloaded.Username
		c.notifyLocked()
		c.mu.Unlock()
	}

	if errs.ErrorOrNil() == nil {
		slog.Debug("profile changes saved", "user_id", user.ID)
	}
}

func (c *ProfileController) uploadImage(ctx context.Context, userID uuid.UUID, data []byte) error {
	path, err := c.storage.SaveImage(ctx, data, userID)
	if err != nil {
		return err
	}
	url, err := c.storage.URLForImage(ctx, path)
	if err != nil {
		return err
	}
	if err := c.users.UpdateProfileImagePath(ctx, userID, &path, &url); err != nil {
		return err
	}
	if c.urls != nil {
		_ = c.urls.Set(ctx, path, url)
	}
	return nil
}

// DeleteProfileImage removes the blob and clears the document's image
// fields, then reloads the mirror.
func (c *ProfileController) DeleteProfileImage(ctx context.Context) {
	c.mu.Lock()
	user := c.user
	c.mu.Unlock()
	if user == nil || user.ProfileImagePath == nil {
		return
	}
	path := *user.ProfileImagePath

	if err := c.storage.DeleteImage(ctx, path); err != nil {
		slog.Warn("failed to delete profile image", "error", err)
		c.setError("Failed to delete profile image: " + err.Error())
		return
	}
	if c.urls != nil {
		_ = c.urls.Remove(ctx, path)
	}
	if err := c.users.UpdateProfileImagePath(ctx, user.ID, nil, nil); err != nil {
		c.setError("Failed to delete profile image: " + err.Error())
		return
	}

	reloaded, err := c.users.GetUser(ctx, user.ID)
	if err != nil {
		c.setError("Failed to reload user: " + err.Error())
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = reloaded
	c.pendingImage = nil
	c.notifyLocked()
}

// SignOut drops the mirrored user and any staged changes. The session token
// itself is discarded by the caller.
func (c *ProfileController) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
	c.pendingImage = nil
	c.pendingUsername = nil
	c.errorMessage = ""
	c.notifyLocked()
}

// DeleteAccount hands off to the account lifecycle coordinator.
func (c *ProfileController) DeleteAccount(ctx context.Context) error {
	c.mu.Lock()
	user := c.user
	c.mu.Unlock()
	if user == nil {
		return service.ErrNotAuthenticated
	}
	if err := c.account.DeleteAccount(ctx, user.ID); err != nil {
		c.setError("Failed to delete account: " + err.Error())
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
	c.notifyLocked()
	return nil
}

func (c *ProfileController) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMessage = msg
	c.notifyLocked()
}
