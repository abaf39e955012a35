package middleware

import (
	"context"
	"errors"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/anonto42/finmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// IDTokenVerifier is satisfied by *auth.Client
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseUserLookup resolves the local account linked to a Firebase UID
type FirebaseUserLookup interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// FirebaseAuthMiddleware verifies Firebase ID tokens and attaches the claims
// of the linked local user
func FirebaseAuthMiddleware(verifier IDTokenVerifier, users FirebaseUserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			ctx := c.Request().Context()
			token, err := verifier.VerifyIDToken(ctx, idToken)
			if err != nil {
				log.Debugf("Rejected Firebase ID token: %v", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			user, err := users.GetUserByFirebaseUID(ctx, token.UID)
			if errors.Is(err, repositories.ErrUserNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "No account linked to this Firebase user")
			}
			if err != nil {
				return err
			}

			SetCurrentUser(c, models.ClaimsFor(user))
			return next(c)
		}
	}
}
