package router

import (
	"fmt"

	"github.com/anonto42/finmate/backend/internal/handlers"
	"github.com/anonto42/finmate/backend/internal/middleware"
	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/anonto42/finmate/backend/internal/repositories"
	"github.com/anonto42/finmate/backend/internal/services"
	"github.com/anonto42/finmate/backend/internal/translation"
	"github.com/anonto42/finmate/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/op/go-logging"
	"gorm.io/gorm"
)

var log = logging.MustGetLogger("ROUTER")

// TranslatedFields are the response keys rewritten into the caller's language
var TranslatedFields = []string{"title", "message", "body"}

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	DB *gorm.DB

	// Auth authenticates every /api/v1 request
	Auth echo.MiddlewareFunc

	// Translator localizes notification responses. Nil disables translation.
	Translator translation.Translator
}

// SetupRoutes migrates the schema, configures error handling and validation,
// and registers every route
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	if deps.Auth == nil {
		return fmt.Errorf("router: no auth middleware configured")
	}
	if err := models.AutoMigrate(deps.DB); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Info("Auto-migrations completed")

	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.HEAD("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	notificationRepo := repositories.NewNotificationRepository(deps.DB)
	userRepo := repositories.NewUserRepository(deps.DB)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)

	// --- Protected routes ---
	api := e.Group("/api/v1", deps.Auth)

	notifications := api.Group("/notifications", middleware.Translate(middleware.TranslateConfig{
		Fields:     TranslatedFields,
		Translator: deps.Translator,
	}))
	handlers.NewNotificationHandler(notificationRepo).RegisterNotificationRoutes(notifications)
	log.Info("Notification routes configured")

	admin := api.Group("/admin/notifications", middleware.RequireRole(models.RoleAdmin))
	handlers.NewAdminNotificationHandler(notificationService, userRepo).RegisterAdminNotificationRoutes(admin)
	log.Info("Admin notification routes configured")

	if deps.Translator == nil {
		log.Warning("No translator configured, responses are served in English")
	}
	return nil
}
