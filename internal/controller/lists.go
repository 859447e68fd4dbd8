package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopsmart-app/backend/internal/models"
	"github.com/shopsmart-app/backend/internal/service"
	"github.com/shopsmart-app/backend/internal/validate"
)

// ListsController mirrors the signed-in user's shopping lists for the list
// collection screen.
type ListsController struct {
	mu      sync.Mutex
	lists   service.IListService
	session Session

	mirror       []models.ShoppingList
	isLoading    bool
	isCreating   bool
	errorMessage string

	onChange func()
}

// NewListsController creates a controller over the list service. onChange may
// be nil.
func NewListsController(lists service.IListService, session Session, onChange func()) *ListsController {
	return &ListsController{
		lists:    lists,
		session:  session,
		onChange: onChange,
	}
}

func (c *ListsController) notifyLocked() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Lists returns a snapshot of the mirror.
func (c *ListsController) Lists() []models.ShoppingList {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ShoppingList, len(c.mirror))
	copy(out, c.mirror)
	return out
}

// IsLoading reports whether a load is in flight.
func (c *ListsController) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLoading
}

// ErrorMessage returns the last surfaced error, or "".
func (c *ListsController) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// LoadLists replaces the mirror wholesale from the repository. On failure the
// mirror is left unchanged (stale but consistent).
func (c *ListsController) LoadLists(ctx context.Context) {
	c.mu.Lock()
	if c.isLoading {
		c.mu.Unlock()
		return
	}
	c.isLoading = true
	c.mu.Unlock()

	userID, err := c.session.CurrentUserID(ctx)
	if err != nil {
		c.finishLoad(nil, err)
		return
	}
	fetched, err := c.lists.GetLists(ctx, userID)
	c.finishLoad(fetched, err)
}

func (c *ListsController) finishLoad(fetched []*models.ShoppingList, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isLoading = false
	if err != nil {
		slog.Warn("failed to load shopping lists", "error", err)
		c.errorMessage = "Failed to load shopping lists: " + err.Error()
		c.notifyLocked()
		return
	}
	c.mirror = c.mirror[:0]
	for _, l := range fetched {
		c.mirror = append(c.mirror, *l)
	}
	c.notifyLocked()
}

// CanCreate reports whether the pending name and emoji form a valid list.
func (c *ListsController) CanCreate(name, emoji string) bool {
	return strings.TrimSpace(name) != "" && validate.Emoji(strings.TrimSpace(emoji))
}

// CreateList creates a list owned by the current user and appends the
// repository-confirmed entity to the mirror. Returns false if nothing was
// created.
func (c *ListsController) CreateList(ctx context.Context, name, emoji string) bool {
	name = strings.TrimSpace(name)
	emoji = strings.TrimSpace(emoji)
	if !c.CanCreate(name, emoji) {
		return false
	}

	c.mu.Lock()
	if c.isCreating {
		c.mu.Unlock()
		return false
	}
	c.isCreating = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.isCreating = false
		c.mu.Unlock()
	}()

	userID, err := c.session.CurrentUserID(ctx)
	if err != nil {
		c.setError("Failed to create list: " + err.Error())
		return false
	}

	list := &models.ShoppingList{
		Name:          name,
		Emoji:         emoji,
		OwnerID:       userID,
		Collaborators: []uuid.UUID{userID},
	}
	if _, err := c.lists.CreateList(ctx, list); err != nil {
		slog.Warn("failed to create shopping list", "error", err)
		c.setError("Failed to create list: " + err.Error())
		return false
	}

	// Append the confirmed entity so the mirror never holds a client-only id.
	c.mu.Lock()
	c.mirror = append(c.mirror, *list)
	c.notifyLocked()
	c.mu.Unlock()
	return true
}

// UpdateList renames/re-emojis a list remotely and patches the matching
// mirror entry in place once the write is confirmed.
func (c *ListsController) UpdateList(ctx context.Context, listID uuid.UUID, name, emoji string) bool {
	name = strings.TrimSpace(name)
	emoji = strings.TrimSpace(emoji)
	if !c.CanCreate(name, emoji) {
		return false
	}

	err := c.lists.UpdateList(ctx, listID, map[string]interface{}{
		"name":  name,
		"emoji": emoji,
	})
	if err != nil {
		slog.Warn("failed to update shopping list", "list_id", listID, "error", err)
		c.setError("Failed to update list: " + err.Error())
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.mirror {
		if c.mirror[i].ID == listID {
			now := time.Now()
			c.mirror[i].Name = name
			c.mirror[i].Emoji = emoji
			c.mirror[i].DateUpdated = &now
			break
		}
	}
	c.notifyLocked()
	return true
}

// DeleteList deletes a list remotely and drops it from the mirror.
func (c *ListsController) DeleteList(ctx context.Context, listID uuid.UUID) {
	if err := c.lists.DeleteList(ctx, listID); err != nil {
		slog.Warn("failed to delete shopping list", "list_id", listID, "error", err)
		c.setError("Failed to delete list: " + err.Error())
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.mirror {
		if c.mirror[i].ID == listID {
			c.mirror = append(c.mirror[:i], c.mirror[i+1:]...)
			break
		}
	}
	c.notifyLocked()
}

func (c *ListsController) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMessage = msg
	c.notifyLocked()
}
