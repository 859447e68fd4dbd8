package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopsmart-app/backend/internal/middleware"
	"github.com/shopsmart-app/backend/internal/models"
	"github.com/shopsmart-app/backend/internal/service"
)

// maxImageSize caps profile image uploads at 5 MB.
const maxImageSize = 5 << 20

// ImageURLCache caches resolved profile-image URLs keyed by blob path.
type ImageURLCache interface {
	Get(ctx context.Context, path string) (string, bool, error)
	Set(ctx context.Context, path, url string) error
	Remove(ctx context.Context, path string) error
}

// ProfileHandler exposes the signed-in user's profile, image and account
// lifecycle endpoints.
type ProfileHandler struct {
	users   service.IUserService
	storage service.IStorageService
	account service.IAccountService
	cache   ImageURLCache
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(users service.IUserService, storage service.IStorageService, account service.IAccountService, cache ImageURLCache) *ProfileHandler {
	return &ProfileHandler{users: users, storage: storage, account: account, cache: cache}
}

// resolveImageURL returns a usable URL for a blob path, preferring the cache
// over presigning a fresh one.
func (h *ProfileHandler) resolveImageURL(ctx context.Context, path string) (string, error) {
	if url, ok, err := h.cache.Get(ctx, path); err == nil && ok {
		return url, nil
	}
	url, err := h.storage.URLForImage(ctx, path)
	if err != nil {
		return "", err
	}
	if err := h.cache.Set(ctx, path, url); err != nil {
		slog.Warn("failed to cache image url", "path", path, "error", err)
	}
	return url, nil
}

// RegisterRoutes mounts the profile endpoints on the given group.
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(validator))
	{
		profile.GET("", h.GetProfile)
		profile.PATCH("/username", h.UpdateUsername)
		profile.POST("/image", h.UploadImage)
		profile.DELETE("/image", h.DeleteImage)
		profile.DELETE("/account", h.DeleteAccount)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	// Presigned URLs expire, so refresh the mirror field on every read.
	if user.ProfileImagePath != nil {
		if url, err := h.resolveImageURL(c.Request.Context(), *user.ProfileImagePath); err == nil {
			user.ProfileImagePathURL = &url
		} else {
			slog.Warn("failed to resolve profile image url", "user_id", userID, "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *ProfileHandler) UpdateUsername(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.users.UpdateUsername(c.Request.Context(), userID, req.Username); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update username"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "username updated"})
}

// UploadImage stores a new profile image and records its path and resolved
// URL on the user document. A previous image blob is deleted first.
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(data) > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds 5MB limit"})
		return
	}

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if user.ProfileImagePath != nil {
		if err := h.storage.DeleteImage(ctx, *user.ProfileImagePath); err != nil {
			slog.Warn("failed to delete previous profile image", "user_id", userID, "error", err)
		}
		if err := h.cache.Remove(ctx, *user.ProfileImagePath); err != nil {
			slog.Warn("failed to drop cached image url", "user_id", userID, "error", err)
		}
	}

	path, err := h.storage.SaveImage(ctx, data, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save image"})
		return
	}
	url, err := h.resolveImageURL(ctx, path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve image url"})
		return
	}

	if err := h.users.UpdateProfileImagePath(ctx, userID, &path, &url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_image_path": path, "profile_image_path_url": url})
}

// DeleteImage removes the profile image blob and clears both image fields on
// the user document.
func (h *ProfileHandler) DeleteImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if user.ProfileImagePath == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no profile image to delete"})
		return
	}

	if err := h.storage.DeleteImage(ctx, *user.ProfileImagePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
		return
	}
	if err := h.cache.Remove(ctx, *user.ProfileImagePath); err != nil {
		slog.Warn("failed to drop cached image url", "user_id", userID, "error", err)
	}
	if err := h.users.UpdateProfileImagePath(ctx, userID, nil, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile image deleted"})
}

// DeleteAccount runs the best-effort cascade over the user's image, items,
// lists, document and credentials. Partial failures are reported but do not
// abort the remaining steps.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.account.DeleteAccount(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusMultiStatus, gin.H{
			"message": "account deletion completed with errors",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
