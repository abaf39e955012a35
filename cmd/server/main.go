package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/finmate/backend/internal/middleware"
	"github.com/anonto42/finmate/backend/internal/repositories"
	"github.com/anonto42/finmate/backend/internal/router"
	"github.com/anonto42/finmate/backend/internal/translation"
	"github.com/anonto42/finmate/backend/pkg/config"
	"github.com/anonto42/finmate/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("MAIN")

func main() {
	if err := run(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM. It returns an error when startup fails
// or the listener stops unexpectedly.
func run() error {
	// Load configuration
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel, cfg.LogDir)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auth, err := authMiddleware(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("failed to configure authentication: %w", err)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	err = router.SetupRoutes(e, router.Dependencies{
		DB:         db.SQL,
		Auth:       auth,
		Translator: newTranslator(cfg, db),
	})
	if err != nil {
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Listening on :%s (%s)", cfg.Port, cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server shut down")
	return nil
}

func authMiddleware(ctx context.Context, cfg *config.Config, db *config.DB) (echo.MiddlewareFunc, error) {
	switch cfg.AuthProvider {
	case "firebase":
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		log.Info("Authenticating requests with Firebase ID tokens")
		return middleware.FirebaseAuthMiddleware(app.AuthClient, repositories.NewUserRepository(db.SQL)), nil
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, errors.New("JWT_SECRET must be set when AUTH_PROVIDER is jwt")
		}
		log.Info("Authenticating requests with HS256 bearer tokens")
		return middleware.JWTAuthMiddleware(cfg.JWTSecret), nil
	default:
		return nil, errors.New("AUTH_PROVIDER must be jwt or firebase")
	}
}

// newTranslator builds the Ollama translator behind a cache, or returns nil
// when no OLLAMA_URL is configured
func newTranslator(cfg *config.Config, db *config.DB) translation.Translator {
	if cfg.OllamaURL == "" {
		return nil
	}

	var cache translation.Cache = translation.NewMemoryCache()
	if db.Mongo != nil {
		cache = translation.NewMongoCache(db.Mongo.Database(cfg.MongoDatabase))
		log.Infof("Caching translations in MongoDB database %s", cfg.MongoDatabase)
	}

	ollama := translation.NewOllamaTranslator(cfg.OllamaURL, cfg.OllamaModel, cfg.TranslationTimeout)
	log.Infof("Translating responses with Ollama model %s at %s", cfg.OllamaModel, cfg.OllamaURL)
	return translation.NewCachedTranslator(ollama, cache)
}
