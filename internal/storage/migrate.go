package storage

import (
	"dcms/backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Complaint{},
	)
}
