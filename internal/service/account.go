package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// AccountService coordinates the multi-step cleanup when a user deletes their
// account: profile image blob, every item of every list the user belongs to,
// the lists themselves, the user document, and finally the identity account.
//
// The cascade is best-effort, not transactional: a failed step is recorded
// and logged but later independent steps still run. Credentials go last
// because once they are gone the session can no longer authenticate the
// remaining store operations.
type AccountService struct {
	lists   IListService
	users   IUserService
	auth    IAuthService
	storage IStorageService
}

var _ IAccountService = (*AccountService)(nil)

// NewAccountService creates a new AccountService instance.
func NewAccountService(lists IListService, users IUserService, auth IAuthService, storage IStorageService) *AccountService {
	return &AccountService{
		lists:   lists,
		users:   users,
		auth:    auth,
		storage: storage,
	}
}

// DeleteAccount runs the deletion cascade and returns the accumulated errors
// of every failed step, or nil if all steps succeeded.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	var result *multierror.Error

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		slog.Warn("account deletion: failed to load user", "user_id", userID, "error", err)
		result = multierror.Append(result, err)
	}

	if user != nil && user.ProfileImagePath != nil {
		if err := s.storage.DeleteImage(ctx, *user.ProfileImagePath); err != nil {
			slog.Warn("account deletion: failed to delete profile image", "user_id", userID, "error", err)
			result = multierror.Append(result, err)
		}
	}

	lists, err := s.lists.GetLists(ctx, userID)
	if err != nil {
		slog.Warn("account deletion: failed to load lists", "user_id", userID, "error", err)
		result = multierror.Append(result, err)
	}
	for _, list := range lists {
		items, err := s.lists.GetItems(ctx, list.ID)
		if err != nil {
			slog.Warn("account deletion: failed to load items", "list_id", list.ID, "error", err)
			result = multierror.Append(result, err)
		}
		for _, item := range items {
			if err := s.lists.DeleteItem(ctx, list.ID, item.ID); err != nil {
				slog.Warn("account deletion: failed to delete item", "item_id", item.ID, "error", err)
				result = multierror.Append(result, err)
			}
		}
		if err := s.lists.DeleteList(ctx, list.ID); err != nil {
			slog.Warn("account deletion: failed to delete list", "list_id", list.ID, "error", err)
			result = multierror.Append(result, err)
		}
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		slog.Warn("account deletion: failed to delete user document", "user_id", userID, "error", err)
		result = multierror.Append(result, err)
	}

	if err := s.auth.DeleteCredentials(ctx, userID); err != nil {
		slog.Warn("account deletion: failed to delete credentials", "user_id", userID, "error", err)
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	slog.Info("account deleted", "user_id", userID)
	return nil
}
