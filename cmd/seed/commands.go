package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/finmate/backend/internal/middleware"
	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/anonto42/finmate/backend/internal/repositories"
	"github.com/anonto42/finmate/backend/internal/services"
	"github.com/anonto42/finmate/backend/pkg/config"
	"github.com/op/go-logging"
	"gorm.io/gorm"
)

var log = logging.MustGetLogger("SEED")

type demoUser struct {
	name     string
	email    string
	role     models.Role
	language string
}

var demoUsers = []demoUser{
	{name: "Asha Admin", email: "admin@finmate.local", role: models.RoleAdmin, language: "en"},
	{name: "Vikram Advisor", email: "advisor@finmate.local", role: models.RoleAdvisor, language: "en"},
	{name: "Ravi Kumar", email: "ravi@finmate.local", role: models.RoleEndUser, language: "hi"},
}

// Demo seeds a small data set for local development
type Demo struct {
	TokenTTL time.Duration `long:"ttl" description:"lifetime of the printed tokens" default:"24h"`
}

// Execute creates the demo users if needed and sends each sample notifications
func (x *Demo) Execute(args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
		users := repositories.NewUserRepository(db)
		svc := services.NewNotificationService(repositories.NewNotificationRepository(db), users)

		seeded := make([]*models.User, 0, len(demoUsers))
		for _, du := range demoUsers {
			user, err := ensureUser(ctx, users, du)
			if err != nil {
				return err
			}
			seeded = append(seeded, user)
		}

		ravi := seeded[2]
		_, err := svc.CreateNotification(ctx, ravi.ID, "Budget alert",
			"You have used 85% of your monthly grocery budget.",
			services.WithType(models.NotificationWarning),
			services.WithData(map[string]any{"category": "groceries", "usedPercent": 85}))
		if err != nil {
			return err
		}
		_, err = svc.CreateNotification(ctx, ravi.ID, "Goal reached",
			"Congratulations! Your emergency fund goal is complete.",
			services.WithType(models.NotificationSuccess))
		if err != nil {
			return err
		}
		_, err = svc.CreateNotification(ctx, seeded[1].ID, "New client",
			"Ravi Kumar has asked you to review their portfolio.",
			services.WithData(map[string]any{"clientId": ravi.ID}))
		if err != nil {
			return err
		}
		count, err := svc.NotifyAllAdmins(ctx, "Sync failure",
			"The nightly bank statement import failed for 3 accounts.")
		if err != nil {
			return err
		}
		log.Infof("Sent admin broadcast to %d admins", count)

		if cfg.JWTSecret == "" {
			log.Warning("JWT_SECRET not set, skipping tokens")
			return nil
		}
		for _, user := range seeded {
			token, err := middleware.GenerateToken(cfg.JWTSecret, user, x.TokenTTL)
			if err != nil {
				return err
			}
			fmt.Printf("%-8s %-24s %s\n", user.Role, user.Email, token)
		}
		return nil
	})
}

// Token prints a bearer token for an existing user
type Token struct {
	Email    string        `short:"e" long:"email" description:"email of the user" required:"true"`
	TokenTTL time.Duration `long:"ttl" description:"token lifetime" default:"24h"`
}

// Execute looks up the user and prints a signed token
func (x *Token) Execute(args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET must be set")
		}
		user, err := repositories.NewUserRepository(db).GetUserByEmail(ctx, x.Email)
		if err != nil {
			return err
		}
		token, err := middleware.GenerateToken(cfg.JWTSecret, user, x.TokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	})
}

// Notify sends one notification from the command line
type Notify struct {
	UserID  string `short:"u" long:"user" description:"recipient user id"`
	Admins  bool   `long:"admins" description:"send to every admin instead of one user"`
	Title   string `short:"t" long:"title" description:"notification title" required:"true"`
	Message string `short:"m" long:"message" description:"notification body" required:"true"`
	Type    string `long:"type" description:"notification type" choice:"INFO" choice:"WARNING" choice:"SUCCESS" choice:"ERROR"`
}

// Execute sends the notification through the notification service
func (x *Notify) Execute(args []string) error {
	if x.Admins == (x.UserID != "") {
		return errors.New("exactly one of --user or --admins is required")
	}
	return withStore(func(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
		users := repositories.NewUserRepository(db)
		svc := services.NewNotificationService(repositories.NewNotificationRepository(db), users)
		typ := services.WithType(models.NotificationType(x.Type))

		if x.Admins {
			count, err := svc.NotifyAllAdmins(ctx, x.Title, x.Message, typ)
			if err != nil {
				return err
			}
			fmt.Printf("notified %d admins\n", count)
			return nil
		}

		if _, err := users.GetUserByID(ctx, x.UserID); err != nil {
			return err
		}
		n, err := svc.CreateNotification(ctx, x.UserID, x.Title, x.Message, typ)
		if err != nil {
			return err
		}
		fmt.Println(n.ID)
		return nil
	})
}

func ensureUser(ctx context.Context, users repositories.UserRepository, du demoUser) (*models.User, error) {
	user, err := users.GetUserByEmail(ctx, du.email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	user = &models.User{Name: du.name, Email: du.email, Role: du.role, Language: du.language}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Infof("Created %s %s", du.role, du.email)
	return user, nil
}

// withStore opens the configured database, migrates it and runs fn
func withStore(fn func(ctx context.Context, cfg *config.Config, db *gorm.DB) error) error {
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel, "")

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := models.AutoMigrate(db.SQL); err != nil {
		return err
	}
	return fn(context.Background(), cfg, db.SQL)
}
