package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsmart-app/backend/internal/models"
	"github.com/shopsmart-app/backend/internal/validate"
)

// ListService performs CRUD on shopping lists and their nested items and
// keeps the number_of_items aggregate consistent with the item rows. Counter
// maintenance uses an atomic SQL increment inside the same transaction as the
// item write, so concurrent sessions cannot leave the aggregate drifted.
type ListService struct {
	db *gorm.DB
}

var _ IListService = (*ListService)(nil)

// NewListService creates a new ListService instance.
func NewListService(db *gorm.DB) *ListService {
	return &ListService{db: db}
}

// serverTime stamps date_updated with database time, not the client clock.
var serverTime = gorm.Expr("CURRENT_TIMESTAMP")

func validateList(list *models.ShoppingList) error {
	if strings.TrimSpace(list.Name) == "" {
		return fmt.Errorf("%w: list name is empty", ErrValidation)
	}
	if !validate.Emoji(list.Emoji) {
		return fmt.Errorf("%w: emoji must be exactly one glyph", ErrValidation)
	}
	if list.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: list has no owner", ErrValidation)
	}
	return nil
}

func validateItem(item *models.ShoppingListItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item name is empty", ErrValidation)
	}
	if !validate.Emoji(item.Emoji) {
		return fmt.Errorf("%w: emoji must be exactly one glyph", ErrValidation)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if item.NumberOfTheItem <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return nil
}

// CreateList inserts a list document with a zero item count and records its
// collaborator set. The owner is always a collaborator.
func (s *ListService) CreateList(ctx context.Context, list *models.ShoppingList) (uuid.UUID, error) {
	if err := validateList(list); err != nil {
		return uuid.Nil, err
	}

	collaborators := list.Collaborators
	hasOwner := false
	for _, id := range collaborators {
		if id == list.OwnerID {
			hasOwner = true
			break
		}
	}
	if !hasOwner {
		collaborators = append(collaborators, list.OwnerID)
	}

	list.NumberOfItems = 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return err
		}
		for _, userID := range collaborators {
			row := models.ListCollaborator{ListID: list.ID, UserID: userID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create list: %w", err)
	}
	if list.ID == uuid.Nil {
		return uuid.Nil, ErrMissingIDAfterWrite
	}
	list.Collaborators = collaborators

	slog.Debug("list created", "list_id", list.ID, "owner_id", list.OwnerID)
	return list.ID, nil
}

// GetList retrieves a list document by id, with its collaborator set.
func (s *ListService) GetList(ctx context.Context, listID uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := s.db.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if err := s.loadCollaborators(ctx, []*models.ShoppingList{&list}); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetLists returns every list whose collaborator set contains the given user,
// regardless of who owns it. No lists is an empty slice, not an error.
func (s *ListService) GetLists(ctx context.Context, collaboratorID uuid.UUID) ([]*models.ShoppingList, error) {
	var lists []models.ShoppingList
	err := s.db.WithContext(ctx).
		Joins("JOIN list_collaborators lc ON lc.list_id = shopping_lists.id").
		Where("lc.user_id = ?", collaboratorID).
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get lists: %w", err)
	}

	result := make([]*models.ShoppingList, len(lists))
	for i := range lists {
		result[i] = &lists[i]
	}
	if err := s.loadCollaborators(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// loadCollaborators fills the Collaborators field of each list in one query.
func (s *ListService) loadCollaborators(ctx context.Context, lists []*models.ShoppingList) error {
	if len(lists) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(lists))
	byID := make(map[uuid.UUID]*models.ShoppingList, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
		byID[l.ID] = l
		l.Collaborators = []uuid.UUID{}
	}

	var rows []models.ListCollaborator
	if err := s.db.WithContext(ctx).Where("list_id IN ?", ids).Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load collaborators: %w", err)
	}
	for _, row := range rows {
		if l, ok := byID[row.ListID]; ok {
			l.Collaborators = append(l.Collaborators, row.UserID)
		}
	}
	return nil
}

// UpdateList applies a partial update to the named fields and stamps
// date_updated with the store's clock in the same write.
func (s *ListService) UpdateList(ctx context.Context, listID uuid.UUID, changes map[string]interface{}) error {
	updates := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		updates[k] = v
	}
	updates["date_updated"] = serverTime

	res := s.db.WithContext(ctx).Model(&models.ShoppingList{}).Where("id = ?", listID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update list: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ListService) UpdateListName(ctx context.Context, listID uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: list name is empty", ErrValidation)
	}
	return s.UpdateList(ctx, listID, map[string]interface{}{"name": name})
}

func (s *ListService) UpdateListEmoji(ctx context.Context, listID uuid.UUID, emoji string) error {
	if !validate.Emoji(emoji) {
		return fmt.Errorf("%w: emoji must be exactly one glyph", ErrValidation)
	}
	return s.UpdateList(ctx, listID, map[string]interface{}{"emoji": emoji})
}

func (s *ListService) UpdateListIsShared(ctx context.Context, listID uuid.UUID, isShared bool) error {
	return s.UpdateList(ctx, listID, map[string]interface{}{"is_shared": isShared})
}

// UpdateListCollaborators replaces the collaborator set. The owner is kept in
// the set even if the caller dropped it.
func (s *ListService) UpdateListCollaborators(ctx context.Context, listID uuid.UUID, collaborators []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list models.ShoppingList
		if err := tx.First(&list, "id = ?", listID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get list: %w", err)
		}

		set := map[uuid.UUID]struct{}{list.OwnerID: {}}
		for _, id := range collaborators {
			set[id] = struct{}{}
		}

		if err := tx.Where("list_id = ?", listID).Delete(&models.ListCollaborator{}).Error; err != nil {
			return fmt.Errorf("failed to clear collaborators: %w", err)
		}
		for userID := range set {
			row := models.ListCollaborator{ListID: listID, UserID: userID}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to add collaborator: %w", err)
			}
		}

		return tx.Model(&models.ShoppingList{}).Where("id = ?", listID).
			Update("date_updated", serverTime).Error
	})
}

// DeleteList removes the list document together with its item sub-collection
// and collaborator rows, so no orphaned records survive the delete.
func (s *ListService) DeleteList(ctx context.Context, listID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", listID).Delete(&models.ShoppingListItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		if err := tx.Where("list_id = ?", listID).Delete(&models.ListCollaborator{}).Error; err != nil {
			return fmt.Errorf("failed to delete collaborators: %w", err)
		}
		res := tx.Delete(&models.ShoppingList{}, "id = ?", listID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete list: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Debug("list deleted", "list_id", listID)
	return nil
}

// AddItem inserts an item document under the list and increments the list's
// number_of_items in the same transaction.
func (s *ListService) AddItem(ctx context.Context, listID uuid.UUID, item *models.ShoppingListItem) (uuid.UUID, error) {
	if err := validateItem(item); err != nil {
		return uuid.Nil, err
	}

	item.ListID = listID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		res := tx.Model(&models.ShoppingList{}).Where("id = ?", listID).Updates(map[string]interface{}{
			"number_of_items": gorm.Expr("number_of_items + 1"),
			"date_updated":    serverTime,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to bump item count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if item.ID == uuid.Nil {
		return uuid.Nil, ErrMissingIDAfterWrite
	}

	slog.Debug("item added", "item_id", item.ID, "list_id", listID)
	return item.ID, nil
}

// GetItems returns all items of a list. Ordering is unspecified.
func (s *ListService) GetItems(ctx context.Context, listID uuid.UUID) ([]*models.ShoppingListItem, error) {
	var items []models.ShoppingListItem
	if err := s.db.WithContext(ctx).Where("list_id = ?", listID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	result := make([]*models.ShoppingListItem, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}

// GetNumberOfItems counts the item rows live rather than reading the cached
// aggregate.
func (s *ListService) GetNumberOfItems(ctx context.Context, listID uuid.UUID) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ShoppingListItem{}).
		Where("list_id = ?", listID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return int(count), nil
}

// UpdateItem applies a partial update to the named fields of one item and
// stamps date_updated with the store's clock.
func (s *ListService) UpdateItem(ctx context.Context, listID, itemID uuid.UUID, changes map[string]interface{}) error {
	updates := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		updates[k] = v
	}
	updates["date_updated"] = serverTime

	res := s.db.WithContext(ctx).Model(&models.ShoppingListItem{}).
		Where("id = ? AND list_id = ?", itemID, listID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ListService) UpdateItemName(ctx context.Context, listID, itemID uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: item name is empty", ErrValidation)
	}
	return s.UpdateItem(ctx, listID, itemID, map[string]interface{}{"name": name})
}

func (s *ListService) UpdateItemEmoji(ctx context.Context, listID, itemID uuid.UUID, emoji string) error {
	if !validate.Emoji(emoji) {
		return fmt.Errorf("%w: emoji must be exactly one glyph", ErrValidation)
	}
	return s.UpdateItem(ctx, listID, itemID, map[string]interface{}{"emoji": emoji})
}

func (s *ListService) UpdateItemPrice(ctx context.Context, listID, itemID uuid.UUID, price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return s.UpdateItem(ctx, listID, itemID, map[string]interface{}{"price": price})
}

func (s *ListService) UpdateItemQuantity(ctx context.Context, listID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return s.UpdateItem(ctx, listID, itemID, map[string]interface{}{"number_of_the_item": quantity})
}

func (s *ListService) UpdateItemCategory(ctx context.Context, listID, itemID uuid.UUID, category *string) error {
	return s.UpdateItem(ctx, listID, itemID, map[string]interface{}{"category": category})
}

func (s *ListService) UpdateItemIsBought(ctx context.Context, listID, itemID uuid.UUID, isBought bool) error {
	return s.UpdateItem(ctx, listID, itemID, map[string]interface{}{"is_bought": isBought})
}

// DeleteItem removes the item document and decrements the list's
// number_of_items in the same transaction.
func (s *ListService) DeleteItem(ctx context.Context, listID, itemID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND list_id = ?", itemID, listID).Delete(&models.ShoppingListItem{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.ShoppingList{}).Where("id = ?", listID).Updates(map[string]interface{}{
			"number_of_items": gorm.Expr("number_of_items - 1"),
			"date_updated":    serverTime,
		}).Error
	})
	if err != nil {
		return err
	}
	slog.Debug("item deleted", "item_id", itemID, "list_id", listID)
	return nil
}
