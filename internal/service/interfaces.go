package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopsmart-app/backend/internal/models"
)

// IListService defines the data-access contract for shopping lists and their
// nested items.
type IListService interface {
	CreateList(ctx context.Context, list *models.ShoppingList) (uuid.UUID, error)
	GetList(ctx context.Context, listID uuid.UUID) (*models.ShoppingList, error)
	GetLists(ctx context.Context, collaboratorID uuid.UUID) ([]*models.ShoppingList, error)
	UpdateList(ctx context.Context, listID uuid.UUID, changes map[string]interface{}) error
	UpdateListName(ctx context.Context, listID uuid.UUID, name string) error
	UpdateListEmoji(ctx context.Context, listID uuid.UUID, emoji string) error
	UpdateListCollaborators(ctx context.Context, listID uuid.UUID, collaborators []uuid.UUID) error
	UpdateListIsShared(ctx context.Context, listID uuid.UUID, isShared bool) error
	DeleteList(ctx context.Context, listID uuid.UUID) error

	AddItem(ctx context.Context, listID uuid.UUID, item *models.ShoppingListItem) (uuid.UUID, error)
	GetItems(ctx context.Context, listID uuid.UUID) ([]*models.ShoppingListItem, error)
	GetNumberOfItems(ctx context.Context, listID uuid.UUID) (int, error)
	UpdateItem(ctx context.Context, listID, itemID uuid.UUID, changes map[string]interface{}) error
	UpdateItemIsBought(ctx context.Context, listID, itemID uuid.UUID, isBought bool) error
	DeleteItem(ctx context.Context, listID, itemID uuid.UUID) error
}

// IUserService defines the contract for user profile documents.
type IUserService interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateUsername(ctx context.Context, userID uuid.UUID, username string) error
	UpdateProfileImagePath(ctx context.Context, userID uuid.UUID, path, url *string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// IAuthService defines the identity-provider boundary.
type IAuthService interface {
	Register(ctx context.Context, email, password, username string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (string, *models.User, error)
	ValidateToken(token string) (*TokenClaims, error)
	GenerateToken(userID uuid.UUID, username string) (string, error)
	DeleteCredentials(ctx context.Context, userID uuid.UUID) error
}

// IStorageService defines the blob-store boundary for profile images.
type IStorageService interface {
	SaveImage(ctx context.Context, data []byte, userID uuid.UUID) (string, error)
	URLForImage(ctx context.Context, path string) (string, error)
	DeleteImage(ctx context.Context, path string) error
}

// IAccountService orchestrates cross-entity cleanup on account deletion.
type IAccountService interface {
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}
