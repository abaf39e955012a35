package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables this service reads and writes
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Notification{},
	)
}
