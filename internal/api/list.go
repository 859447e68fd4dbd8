package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopsmart-app/backend/internal/middleware"
	"github.com/shopsmart-app/backend/internal/models"
	"github.com/shopsmart-app/backend/internal/service"
)

// ListHandler exposes list and item CRUD for the signed-in user.
type ListHandler struct {
	lists service.IListService
}

// NewListHandler creates a new ListHandler instance.
func NewListHandler(lists service.IListService) *ListHandler {
	return &ListHandler{lists: lists}
}

// RegisterRoutes mounts the list endpoints on the given group.
func (h *ListHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	lists := router.Group("/lists")
	lists.Use(middleware.AuthMiddleware(validator))
	{
		lists.GET("", h.GetLists)
		lists.POST("", h.CreateList)
		lists.GET("/:listId", h.GetList)
		lists.PATCH("/:listId", h.UpdateList)
		lists.DELETE("/:listId", h.DeleteList)

		lists.GET("/:listId/items", h.GetItems)
		lists.POST("/:listId/items", h.AddItem)
		lists.PATCH("/:listId/items/:itemId", h.UpdateItem)
		lists.DELETE("/:listId/items/:itemId", h.DeleteItem)
		lists.POST("/:listId/items/bulk-delete", h.BulkDeleteItems)
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// requireMembership loads the list and checks the requester is a
// collaborator. Missing lists and foreign lists both read as not found.
func (h *ListHandler) requireMembership(c *gin.Context, listID, userID uuid.UUID) (*models.ShoppingList, bool) {
	list, err := h.lists.GetList(c.Request.Context(), listID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get list"})
		return nil, false
	}
	for _, id := range list.Collaborators {
		if id == userID {
			return list, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
	return nil, false
}

func (h *ListHandler) GetLists(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lists, err := h.lists.GetLists(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get lists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

func (h *ListHandler) CreateList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	list := &models.ShoppingList{
		Name:          req.Name,
		Emoji:         req.Emoji,
		OwnerID:       userID,
		Collaborators: []uuid.UUID{userID},
	}
	if _, err := h.lists.CreateList(c.Request.Context(), list); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create list"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"list": list})
}

func (h *ListHandler) GetList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}

	list, ok := h.requireMembership(c, listID, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ListHandler) UpdateList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}
	if _, ok := h.requireMembership(c, listID, userID); !ok {
		return
	}

	var req models.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Emoji != nil {
		changes["emoji"] = *req.Emoji
	}
	if req.IsShared != nil {
		changes["is_shared"] = *req.IsShared
	}
	if len(changes) > 0 {
		if err := h.lists.UpdateList(c.Request.Context(), listID, changes); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update list"})
			return
		}
	}

	if req.Collaborators != nil {
		ids := make([]uuid.UUID, 0, len(req.Collaborators))
		for _, raw := range req.Collaborators {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collaborator id"})
				return
			}
			ids = append(ids, id)
		}
		if err := h.lists.UpdateListCollaborators(c.Request.Context(), listID, ids); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update collaborators"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "list updated"})
}

func (h *ListHandler) DeleteList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}

	list, ok := h.requireMembership(c, listID, userID)
	if !ok {
		return
	}
	// Only the owner may delete the list itself.
	if list.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the owner can delete a list"})
		return
	}

	if err := h.lists.DeleteList(c.Request.Context(), listID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "list deleted"})
}

func (h *ListHandler) GetItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}
	if _, ok := h.requireMembership(c, listID, userID); !ok {
		return
	}

	items, err := h.lists.GetItems(c.Request.Context(), listID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ListHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}
	if _, ok := h.requireMembership(c, listID, userID); !ok {
		return
	}

	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item := &models.ShoppingListItem{
		Name:            req.Name,
		Emoji:           req.Emoji,
		AddedBy:         userID,
		Price:           req.Price,
		NumberOfTheItem: req.NumberOfTheItem,
		Category:        req.Category,
	}
	if _, err := h.lists.AddItem(c.Request.Context(), listID, item); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *ListHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	if _, ok := h.requireMembership(c, listID, userID); !ok {
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Emoji != nil {
		changes["emoji"] = *req.Emoji
	}
	if req.Price != nil {
		changes["price"] = *req.Price
	}
	if req.NumberOfTheItem != nil {
		changes["number_of_the_item"] = *req.NumberOfTheItem
	}
	if req.Category != nil {
		changes["category"] = *req.Category
	}
	if req.IsBought != nil {
		changes["is_bought"] = *req.IsBought
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	if err := h.lists.UpdateItem(c.Request.Context(), listID, itemID, changes); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item updated"})
}

func (h *ListHandler) DeleteItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	if _, ok := h.requireMembership(c, listID, userID); !ok {
		return
	}

	if err := h.lists.DeleteItem(c.Request.Context(), listID, itemID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

// BulkDeleteItems deletes each selected item individually, best-effort: a
// failure on one id does not stop the rest. Deleted ids are reported back
// together with the last error, if any.
func (h *ListHandler) BulkDeleteItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "listId")
	if !ok {
		return
	}
	if _, ok := h.requireMembership(c, listID, userID); !ok {
		return
	}

	var req models.BulkDeleteItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	deleted := make([]uuid.UUID, 0, len(req.ItemIDs))
	var lastErr error
	for _, itemID := range req.ItemIDs {
		if err := h.lists.DeleteItem(c.Request.Context(), listID, itemID); err != nil {
			lastErr = err
			continue
		}
		deleted = append(deleted, itemID)
	}

	resp := gin.H{"deleted": deleted}
	if lastErr != nil {
		resp["error"] = lastErr.Error()
		c.JSON(http.StatusMultiStatus, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
