package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/anonto42/finmate/backend/internal/repositories"
	"github.com/anonto42/finmate/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AdminNotificationHandler lets administrators send notifications by hand
type AdminNotificationHandler struct {
	notificationService *services.NotificationService
	userRepository      repositories.UserRepository
}

// NewAdminNotificationHandler creates a new AdminNotificationHandler
func NewAdminNotificationHandler(svc *services.NotificationService, userRepo repositories.UserRepository) *AdminNotificationHandler {
	return &AdminNotificationHandler{
		notificationService: svc,
		userRepository:      userRepo,
	}
}

// RegisterAdminNotificationRoutes registers routes on a group restricted to admins
func (h *AdminNotificationHandler) RegisterAdminNotificationRoutes(g *echo.Group) {
	g.POST("", h.SendNotification)
	g.POST("/admins", h.NotifyAdmins)
}

type sendNotificationRequest struct {
	UserID  string                  `json:"userId" validate:"required"`
	Title   string                  `json:"title" validate:"required,max=200"`
	Message string                  `json:"message" validate:"required"`
	Type    models.NotificationType `json:"type" validate:"omitempty,oneof=INFO WARNING SUCCESS ERROR"`
	Data    json.RawMessage         `json:"data"`
}

type notifyAdminsRequest struct {
	Title   string                  `json:"title" validate:"required,max=200"`
	Message string                  `json:"message" validate:"required"`
	Type    models.NotificationType `json:"type" validate:"omitempty,oneof=INFO WARNING SUCCESS ERROR"`
	Data    json.RawMessage         `json:"data"`
}

// SendNotification creates a notification for one user
func (h *AdminNotificationHandler) SendNotification(c echo.Context) error {
	var req sendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to look up user").SetInternal(err)
	}

	notification, err := h.notificationService.CreateNotification(ctx, req.UserID, req.Title, req.Message,
		services.WithType(req.Type), services.WithData(req.Data))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create notification").SetInternal(err)
	}

	log.Infof("Admin %s sent notification %s to %s", getUserIDFromContext(c), notification.ID, req.UserID)
	return c.JSON(http.StatusCreated, notification)
}

// NotifyAdmins broadcasts a notification to every administrator
func (h *AdminNotificationHandler) NotifyAdmins(c echo.Context) error {
	var req notifyAdminsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	count, err := h.notificationService.NotifyAllAdmins(c.Request().Context(), req.Title, req.Message,
		services.WithType(req.Type), services.WithData(req.Data))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to notify admins").SetInternal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}
