package database

import (
	"gorm.io/gorm"

	"github.com/shopsmart-app/backend/internal/models"
)

// Migrate creates or updates the schema for every stored model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.ShoppingList{},
		&models.ListCollaborator{},
		&models.ShoppingListItem{},
	)
}
