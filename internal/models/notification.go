package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType classifies how a notification is presented to its owner
type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationWarning NotificationType = "WARNING"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationError   NotificationType = "ERROR"
)

// Valid reports whether t is one of the known notification types
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationSuccess, NotificationError:
		return true
	}
	return false
}

// Notification represents a message addressed to exactly one user
type Notification struct {
	ID        string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string           `json:"userId" gorm:"type:varchar(36);not null;index:idx_notifications_owner_read,priority:1"`
	Title     string           `json:"title" gorm:"size:200;not null"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	Type      NotificationType `json:"type" gorm:"size:16;not null;default:INFO"`
	Data      Payload          `json:"data" gorm:"type:text"`
	IsRead    bool             `json:"isRead" gorm:"not null;default:false;index:idx_notifications_owner_read,priority:2"`
	CreatedAt time.Time        `json:"createdAt" gorm:"index"`
}

// BeforeCreate assigns the identifier when the caller left it empty.
// Runs once per row for batch inserts as well.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
