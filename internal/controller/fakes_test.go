package controller

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shopsmart-app/backend/internal/models"
	"github.com/shopsmart-app/backend/internal/service"
)

var errBackend = errors.New("backend unavailable")

// fakeListService is an in-memory IListService with per-call failure
// injection.
type fakeListService struct {
	lists map[uuid.UUID]*models.ShoppingList
	items map[uuid.UUID][]*models.ShoppingListItem

	failGetLists   bool
	failCreateList bool
	failDeleteItem map[uuid.UUID]bool
}

var _ service.IListService = (*fakeListService)(nil)

func newFakeListService() *fakeListService {
	return &fakeListService{
		lists:          make(map[uuid.UUID]*models.ShoppingList),
		items:          make(map[uuid.UUID][]*models.ShoppingListItem),
		failDeleteItem: make(map[uuid.UUID]bool),
	}
}

func (f *fakeListService) CreateList(ctx context.Context, list *models.ShoppingList) (uuid.UUID, error) {
	if f.failCreateList {
		return uuid.Nil, errBackend
	}
	list.ID = uuid.New()
	cp := *list
	f.lists[list.ID] = &cp
	return list.ID, nil
}

func (f *fakeListService) GetList(ctx context.Context, listID uuid.UUID) (*models.ShoppingList, error) {
	l, ok := f.lists[listID]
	if !ok {
		return nil, service.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListService) GetLists(ctx context.Context, collaboratorID uuid.UUID) ([]*models.ShoppingList, error) {
	if f.failGetLists {
		return nil, errBackend
	}
	var out []*models.ShoppingList
	for _, l := range f.lists {
		for _, c := range l.Collaborators {
			if c == collaboratorID {
				cp := *l
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeListService) UpdateList(ctx context.Context, listID uuid.UUID, changes map[string]interface{}) error {
	l, ok := f.lists[listID]
	if !ok {
		return service.ErrNotFound
	}
	if v, ok := changes["name"]; ok {
		l.Name = v.(string)
	}
	if v, ok := changes["emoji"]; ok {
		l.Emoji = v.(string)
	}
	if v, ok := changes["is_shared"]; ok {
		l.IsShared = v.(bool)
	}
	return nil
}

func (f *fakeListService) UpdateListName(ctx context.Context, listID uuid.UUID, name string) error {
	return f.UpdateList(ctx, listID, map[string]interface{}{"name": name})
}

func (f *fakeListService) UpdateListEmoji(ctx context.Context, listID uuid.UUID, emoji string) error {
	return f.UpdateList(ctx, listID, map[string]interface{}{"emoji": emoji})
}

func (f *fakeListService) UpdateListCollaborators(ctx context.Context, listID uuid.UUID, collaborators []uuid.UUID) error {
	l, ok := f.lists[listID]
	if !ok {
		return service.ErrNotFound
	}
	l.Collaborators = collaborators
	return nil
}

func (f *fakeListService) UpdateListIsShared(ctx context.Context, listID uuid.UUID, isShared bool) error {
	return f.UpdateList(ctx, listID, map[string]interface{}{"is_shared": isShared})
}

func (f *fakeListService) DeleteList(ctx context.Context, listID uuid.UUID) error {
	if _, ok := f.lists[listID]; !ok {
		return service.ErrNotFound
	}
	delete(f.lists, listID)
	delete(f.items, listID)
	return nil
}

func (f *fakeListService) AddItem(ctx context.Context, listID uuid.UUID, item *models.ShoppingListItem) (uuid.UUID, error) {
	if _, ok := f.lists[listID]; !ok {
		return uuid.Nil, service.ErrNotFound
	}
	item.ID = uuid.New()
	item.ListID = listID
	cp := *item
	f.items[listID] = append(f.items[listID], &cp)
	f.lists[listID].NumberOfItems++
	return item.ID, nil
}

func (f *fakeListService) GetItems(ctx context.Context, listID uuid.UUID) ([]*models.ShoppingListItem, error) {
	out := make([]*models.ShoppingListItem, 0, len(f.items[listID]))
	for _, it := range f.items[listID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeListService) GetNumberOfItems(ctx context.Context, listID uuid.UUID) (int, error) {
	return len(f.items[listID]), nil
}

func (f *fakeListService) UpdateItem(ctx context.Context, listID, itemID uuid.UUID, changes map[string]interface{}) error {
	for _, it := range f.items[listID] {
		if it.ID == itemID {
			if v, ok := changes["name"]; ok {
				it.Name = v.(string)
			}
			if v, ok := changes["is_bought"]; ok {
				it.IsBought = v.(bool)
			}
			return nil
		}
	}
	return service.ErrNotFound
}

func (f *fakeListService) UpdateItemIsBought(ctx context.Context, listID, itemID uuid.UUID, isBought bool) error {
	return f.UpdateItem(ctx, listID, itemID, map[string]interface{}{"is_bought": isBought})
}

func (f *fakeListService) DeleteItem(ctx context.Context, listID, itemID uuid.UUID) error {
	if f.failDeleteItem[itemID] {
		return errBackend
	}
	items := f.items[listID]
	for i, it := range items {
		if it.ID == itemID {
			f.items[listID] = append(items[:i], items[i+1:]...)
			f.lists[listID].NumberOfItems--
			return nil
		}
	}
	return service.ErrNotFound
}
