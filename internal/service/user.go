package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsmart-app/backend/internal/models"
)

// UserService manages user profile documents.
type UserService struct {
	db *gorm.DB
}

var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser inserts the user document created at sign-up, mirroring the
// identity provider's profile.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		return fmt.Errorf("%w: user has no id", ErrValidation)
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user document by id.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateUsername sets the display name and stamps date_updated server-side.
func (s *UserService) UpdateUsername(ctx context.Context, userID uuid.UUID, username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is empty", ErrValidation)
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"username":     username,
		"date_updated": serverTime,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update username: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfileImagePath records (or clears, with nils) the blob path and its
// resolved URL.
func (s *UserService) UpdateProfileImagePath(ctx context.Context, userID uuid.UUID, path, url *string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"profile_image_path":     path,
		"profile_image_path_url": url,
		"date_updated":           serverTime,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update profile image path: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the user document (not the identity account).
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
