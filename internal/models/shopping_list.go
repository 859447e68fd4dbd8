package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingList is a lists/{listId} document. The collaborator set is
// normalized into list_collaborators rows; Collaborators carries it on the
// wire and is populated by the list service on every read.
type ShoppingList struct {
	ID            uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Emoji         string     `gorm:"size:16;not null" json:"emoji"`
	OwnerID       uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Collaborators []uuid.UUID `gorm:"-" json:"collaborators"`
	InviteURL     *string    `gorm:"size:255" json:"invite_url,omitempty"`
	IsShared      bool       `gorm:"not null;default:false" json:"is_shared"`
	NumberOfItems int        `gorm:"not null;default:0" json:"number_of_items"`
	DateCreated   time.Time  `gorm:"autoCreateTime" json:"date_created"`
	DateUpdated   *time.Time `json:"date_updated,omitempty"`
}

func (l *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ListCollaborator is one membership row of a list's collaborator set.
type ListCollaborator struct {
	ListID uuid.UUID `gorm:"type:varchar(36);primarykey" json:"list_id"`
	UserID uuid.UUID `gorm:"type:varchar(36);primarykey;index" json:"user_id"`
}

// ShoppingListItem is a lists/{listId}/items/{itemId} document.
type ShoppingListItem struct {
	ID              uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	ListID          uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"list_id"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Emoji           string     `gorm:"size:16;not null" json:"emoji"`
	AddedBy         uuid.UUID  `gorm:"type:varchar(36);not null" json:"added_by"`
	Price           float64    `gorm:"not null;default:0;check:price >= 0" json:"price"`
	NumberOfTheItem int        `gorm:"not null;default:1;check:number_of_the_item > 0" json:"number_of_the_item"`
	Category        *string    `gorm:"size:50" json:"category,omitempty"`
	IsBought        bool       `gorm:"not null;default:false" json:"is_bought"`
	DateCreated     time.Time  `gorm:"autoCreateTime" json:"date_created"`
	DateUpdated     *time.Time `json:"date_updated,omitempty"`
}

func (i *ShoppingListItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
