package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/finmate/backend/internal/models"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a notification does not exist or
// belongs to another user. The two cases are deliberately indistinguishable.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines the interface for notification operations.
// Every read or write is scoped to the owner passed in.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Notification, error)
	CountByOwner(ctx context.Context, ownerID string, isRead *bool) (int64, error)
	MarkRead(ctx context.Context, ownerID string, ids []string) (int64, error)
	FindByOwner(ctx context.Context, ownerID, id string) (*models.Notification, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) error
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// CreateBatch inserts all rows with a single statement
func (r *gormNotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return fmt.Errorf("failed to create %d notifications: %w", len(notifications), err)
	}
	return nil
}

func (r *gormNotificationRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// CountByOwner counts the owner's notifications, optionally only those with
// the given read state
func (r *gormNotificationRepository) CountByOwner(ctx context.Context, ownerID string, isRead *bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", ownerID)
	if isRead != nil {
		q = q.Where("is_read = ?", *isRead)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags notifications as read in one UPDATE. With no ids every
// unread notification of the owner is updated; otherwise only the listed ids
// that the owner holds.
func (r *gormNotificationRepository) MarkRead(ctx context.Context, ownerID string, ids []string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", ownerID)
	if len(ids) == 0 {
		q = q.Where("is_read = ?", false)
	} else {
		q = q.Where("id IN ?", ids)
	}
	res := q.Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *gormNotificationRepository) FindByOwner(ctx context.Context, ownerID, id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

func (r *gormNotificationRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Notification{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
