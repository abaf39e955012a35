package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/finmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const defaultNotificationLimit = 20

// NotificationHandler handles notification-related HTTP requests. Every
// operation is scoped to the authenticated caller.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
	}
}

// RegisterNotificationRoutes registers notification routes on a group that
// already carries authentication
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/", h.GetNotifications)
	g.GET("/counts", h.GetUnreadCount)
	g.PUT("/read", h.MarkAsRead)
	g.DELETE("/:id", h.DeleteNotification)
}

type listNotificationsQuery struct {
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`
}

// markReadRequest selects notifications to mark as read. An absent or empty
// ids list marks every unread notification, as does all=true.
type markReadRequest struct {
	IDs []string `json:"ids" validate:"omitempty,dive,required"`
	All bool     `json:"all"`
}

// GetNotifications returns a page of notifications, newest first, together
// with the caller's unread count
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	q := listNotificationsQuery{Limit: defaultNotificationLimit}
	err := echo.QueryParamsBinder(c).
		Int("limit", &q.Limit).
		Int("offset", &q.Offset).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit and offset must be integers")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	ctx := c.Request().Context()
	notifications, err := h.notificationRepository.ListByOwner(ctx, currentUserID, q.Limit, q.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications").SetInternal(err)
	}

	unread := false
	unreadCount, err := h.notificationRepository.CountByOwner(ctx, currentUserID, &unread)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications").SetInternal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": notifications,
		"unreadCount":   unreadCount,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	unread := false
	count, err := h.notificationRepository.CountByOwner(c.Request().Context(), currentUserID, &unread)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications").SetInternal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks the listed notifications as read, or all of them when no
// ids are given
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ids := req.IDs
	if req.All {
		ids = nil
	}

	updated, err := h.notificationRepository.MarkRead(c.Request().Context(), currentUserID, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read").SetInternal(err)
	}
	log.Debugf("User %s marked %d notifications as read", currentUserID, updated)

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteNotification permanently removes one of the caller's notifications
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id := c.Param("id")
	ctx := c.Request().Context()

	_, err := h.notificationRepository.FindByOwner(ctx, currentUserID, id)
	if err == nil {
		err = h.notificationRepository.DeleteByOwner(ctx, currentUserID, id)
	}
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Notification not found"})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete notification").SetInternal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
