package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with all tables
// migrated. It is closed automatically when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given role and language
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.Role, language string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Role:     role,
		Language: language,
	}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	return user
}

// CreateNotification inserts an unread INFO notification for ownerID with
// the given creation time
func CreateNotification(t *testing.T, db *gorm.DB, ownerID, title string, createdAt time.Time) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:    ownerID,
		Title:     title,
		Message:   title + " message",
		Type:      models.NotificationInfo,
		CreatedAt: createdAt,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("creating notification %s: %v", title, err)
	}
	return n
}
