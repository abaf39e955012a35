package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/finmate/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// RequireRole allows the request through only when the authenticated user
// holds one of roles. It must run after an auth middleware.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentUser(c)
			if claims == nil || claims.Role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			for _, r := range roles {
				if claims.Role == r {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, echo.Map{
				"error":         "This action requires one of the following roles: " + strings.Join(allowed, ", "),
				"requiredRoles": allowed,
				"yourRole":      claims.Role,
			})
		}
	}
}
