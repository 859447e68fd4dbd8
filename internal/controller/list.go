package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopsmart-app/backend/internal/models"
	"github.com/shopsmart-app/backend/internal/service"
)

// ListController mirrors the items of one shopping list for the list detail
// screen, including the multi-select set used for bulk deletion.
type ListController struct {
	mu      sync.Mutex
	listID  uuid.UUID
	lists   service.IListService
	session Session

	items        []models.ShoppingListItem
	selected     map[uuid.UUID]struct{}
	isLoading    bool
	isAdding     bool
	errorMessage string

	onChange func()
}

// NewListController creates a controller for one list. onChange may be nil.
func NewListController(listID uuid.UUID, lists service.IListService, session Session, onChange func()) *ListController {
	return &ListController{
		listID:   listID,
		lists:    lists,
		session:  session,
		selected: make(map[uuid.UUID]struct{}),
		onChange: onChange,
	}
}

func (c *ListController) notifyLocked() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Items returns a snapshot of the mirror.
func (c *ListController) Items() []models.ShoppingListItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ShoppingListItem, len(c.items))
	copy(out, c.items)
	return out
}

// SelectedIDs returns a snapshot of the multi-select set.
func (c *ListController) SelectedIDs() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uuid.UUID, 0, len(c.selected))
	for id := range c.selected {
		out = append(out, id)
	}
	return out
}

// ErrorMessage returns the last surfaced error, or "".
func (c *ListController) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// IsLoading reports whether a load is in flight.
func (c *ListController) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLoading
}

// Select marks an item for bulk deletion.
func (c *ListController) Select(itemID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected[itemID] = struct{}{}
	c.notifyLocked()
}

// Deselect removes an item from the multi-select set.
func (c *ListController) Deselect(itemID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selected, itemID)
	c.notifyLocked()
}

// LoadItems replaces the mirror wholesale from the repository. On failure the
// mirror is left unchanged.
func (c *ListController) LoadItems(ctx context.Context) {
	c.mu.Lock()
	if c.isLoading {
		c.mu.Unlock()
		return
	}
	c.isLoading = true
	c.mu.Unlock()

	fetched, err := c.lists.GetItems(ctx, c.listID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.isLoading = false
	if err != nil {
		slog.Warn("failed to load items", "list_id", c.listID, "error", err)
		c.errorMessage = "Could not load items: " + err.Error()
		c.notifyLocked()
		return
	}
	c.items = c.items[:0]
	for _, it := range fetched {
		c.items = append(c.items, *it)
	}
	c.notifyLocked()
}

// AddItem creates an item attributed to the current user and appends the
// repository-confirmed entity (with its server-assigned id) to the mirror.
func (c *ListController) AddItem(ctx context.Context, name, emoji string, quantity int, price float64, category *string) {
	c.mu.Lock()
	if c.isAdding {
		c.mu.Unlock()
		return
	}
	c.isAdding = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.isAdding = false
		c.mu.Unlock()
	}()

	userID, err := c.session.CurrentUserID(ctx)
	if err != nil {
		c.setError("Add failed: " + err.Error())
		return
	}

	item := &models.ShoppingListItem{
		Name:            name,
		Emoji:           emoji,
		AddedBy:         userID,
		Price:           price,
		NumberOfTheItem: quantity,
		Category:        category,
	}
	if _, err := c.lists.AddItem(ctx, c.listID, item); err != nil {
		slog.Warn("failed to add item", "list_id", c.listID, "error", err)
		c.setError("Add failed: " + err.Error())
		return
	}

	c.mu.Lock()
	c.items = append(c.items, *item)
	c.notifyLocked()
	c.mu.Unlock()
}

// UpdateItem writes the full editable field set remotely and, once confirmed,
// patches the matching mirror entry in place.
func (c *ListController) UpdateItem(ctx context.Context, itemID uuid.UUID, name, emoji string, quantity int, price float64, category *string, isBought bool) {
	err := c.lists.UpdateItem(ctx, c.listID, itemID, map[string]interface{}{
		"name":               name,
		"emoji":              emoji,
		"number_of_the_item": quantity,
		"price":              price,
		"category":           category,
		"is_bought":          isBought,
	})
	if err != nil {
		slog.Warn("failed to update item", "item_id", itemID, "error", err)
		c.setError("Update failed: " + err.Error())
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == itemID {
			now := time.Now()
			c.items[i].Name = name
			c.items[i].Emoji = emoji
			c.items[i].NumberOfTheItem = quantity
			c.items[i].Price = price
			c.items[i].Category = category
			c.items[i].IsBought = isBought
			c.items[i].DateUpdated = &now
			break
		}
	}
	c.notifyLocked()
}

// ToggleBought flips one item's bought flag remotely, then in the mirror.
func (c *ListController) ToggleBought(ctx context.Context, itemID uuid.UUID) {
	c.mu.Lock()
	var target *models.ShoppingListItem
	for i := range c.items {
		if c.items[i].ID == itemID {
			target = &c.items[i]
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		return
	}
	newValue := !target.IsBought
	c.mu.Unlock()

	if err := c.lists.UpdateItemIsBought(ctx, c.listID, itemID, newValue); err != nil {
		slog.Warn("failed to toggle item", "item_id", itemID, "error", err)
		c.setError("Update failed: " + err.Error())
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == itemID {
			now := time.Now()
			c.items[i].IsBought = newValue
			c.items[i].DateUpdated = &now
			break
		}
	}
	c.notifyLocked()
}

// DeleteSelected deletes every selected item individually, best-effort: a
// failure on one id leaves it selected and in the mirror but does not stop
// the rest. The last error observed is surfaced.
func (c *ListController) DeleteSelected(ctx context.Context) {
	c.mu.Lock()
	toDelete := make([]uuid.UUID, 0, len(c.selected))
	for id := range c.selected {
		toDelete = append(toDelete, id)
	}
	c.mu.Unlock()

	for _, id := range toDelete {
		if err := c.lists.DeleteItem(ctx, c.listID, id); err != nil {
			slog.Warn("failed to delete item", "item_id", id, "error", err)
			c.setError("Delete failed: " + err.Error())
			continue
		}

		c.mu.Lock()
		for i := range c.items {
			if c.items[i].ID == id {
				c.items = append(c.items[:i], c.items[i+1:]...)
				break
			}
		}
		delete(c.selected, id)
		c.notifyLocked()
		c.mu.Unlock()
	}
}

func (c *ListController) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMessage = msg
	c.notifyLocked()
}
