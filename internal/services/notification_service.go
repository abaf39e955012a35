package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/anonto42/finmate/backend/internal/repositories"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("SVC")

// ErrInvalidType is returned when a notification type outside the known set
// is requested
var ErrInvalidType = errors.New("invalid notification type")

// AdminDirectory resolves the users that receive admin broadcasts
type AdminDirectory interface {
	ListIDsByRole(ctx context.Context, role models.Role) ([]string, error)
}

// Option customizes a notification before it is stored
type Option func(*options)

type options struct {
	typ  models.NotificationType
	data any
}

// WithType overrides the default notification type
func WithType(t models.NotificationType) Option {
	return func(o *options) {
		if t != "" {
			o.typ = t
		}
	}
}

// WithData attaches a structured payload. It is serialized before storage.
func WithData(data any) Option {
	return func(o *options) { o.data = data }
}

// NotificationService creates notifications on behalf of other parts of the
// application
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         AdminDirectory
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifRepo repositories.NotificationRepository, users AdminDirectory) *NotificationService {
	return &NotificationService{
		notifications: notifRepo,
		users:         users,
	}
}

// CreateNotification stores one unread notification for userID. The type
// defaults to INFO.
func (s *NotificationService) CreateNotification(ctx context.Context, userID, title, message string, opts ...Option) (*models.Notification, error) {
	o, data, err := buildOptions(models.NotificationInfo, opts)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    o.typ,
		Data:    data,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}
	log.Debugf("Created %s notification %s for user %s", notification.Type, notification.ID, userID)
	return notification, nil
}

// NotifyAllAdmins stores one notification per ADMIN user in a single batch
// and returns how many were created. The type defaults to WARNING. Having no
// admins is not an error.
func (s *NotificationService) NotifyAllAdmins(ctx context.Context, title, message string, opts ...Option) (int, error) {
	o, data, err := buildOptions(models.NotificationWarning, opts)
	if err != nil {
		return 0, err
	}

	adminIDs, err := s.users.ListIDsByRole(ctx, models.RoleAdmin)
	if err != nil {
		return 0, err
	}
	if len(adminIDs) == 0 {
		log.Warningf("No admins to notify for %q", title)
		return 0, nil
	}

	notifications := make([]models.Notification, 0, len(adminIDs))
	for _, id := range adminIDs {
		notifications = append(notifications, models.Notification{
			UserID:  id,
			Title:   title,
			Message: message,
			Type:    o.typ,
			Data:    data,
		})
	}
	if err := s.notifications.CreateBatch(ctx, notifications); err != nil {
		return 0, err
	}
	log.Infof("Notified %d admins: %s", len(notifications), title)
	return len(notifications), nil
}

func buildOptions(defaultType models.NotificationType, opts []Option) (options, models.Payload, error) {
	o := options{typ: defaultType}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.typ.Valid() {
		return o, models.Payload{}, fmt.Errorf("%w: %q", ErrInvalidType, o.typ)
	}
	data, err := models.NewPayload(o.data)
	if err != nil {
		return o, models.Payload{}, err
	}
	return o, data, nil
}
