package models

import "github.com/google/uuid"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateListRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Emoji string `json:"emoji" binding:"required,emoji_glyph"`
}

// UpdateListRequest is a partial update; nil fields are left untouched.
type UpdateListRequest struct {
	Name          *string  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Emoji         *string  `json:"emoji,omitempty" binding:"omitempty,emoji_glyph"`
	Collaborators []string `json:"collaborators,omitempty"`
	IsShared      *bool    `json:"is_shared,omitempty"`
}

type CreateItemRequest struct {
	Name            string  `json:"name" binding:"required,min=1,max=100"`
	Emoji           string  `json:"emoji" binding:"required,emoji_glyph"`
	Price           float64 `json:"price" binding:"gte=0"`
	NumberOfTheItem int     `json:"number_of_the_item" binding:"required,gt=0"`
	Category        *string `json:"category,omitempty"`
}

type UpdateItemRequest struct {
	Name            *string  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Emoji           *string  `json:"emoji,omitempty" binding:"omitempty,emoji_glyph"`
	Price           *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	NumberOfTheItem *int     `json:"number_of_the_item,omitempty" binding:"omitempty,gt=0"`
	Category        *string  `json:"category,omitempty"`
	IsBought        *bool    `json:"is_bought,omitempty"`
}

type BulkDeleteItemsRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required,min=1"`
}

type UpdateUsernameRequest struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
}
