package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coweringg/LawCaseAI/pkg/auth"
	"github.com/coweringg/LawCaseAI/pkg/models"
)

// UserLoader resolves a user by their hex ID. Implemented by the users
// repository so the middleware package stays free of database imports.
type UserLoader func(ctx context.Context, id string) (*models.User, error)

// Authenticate validates the bearer token, checks the revocation list and
// loads the current user into the echo context under the "user" key.
func Authenticate(secret string, blacklist *auth.TokenBlacklist, loadUser UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed authorization header")
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			claims, err := auth.ValidateJWTWithBlacklist(ctx, token, secret, blacklist)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			user, err := loadUser(ctx, claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
			}

			if user.Status != models.StatusActive {
				return echo.NewHTTPError(http.StatusForbidden, "account is disabled")
			}

			c.Set("user", user)
			c.Set("token", token)
			return next(c)
		}
	}
}

// OptionalAuth attaches the current user when a valid token is presented
// and proceeds anonymously otherwise. No auth error ever surfaces; routes
// behind it must handle a nil CurrentUser.
func OptionalAuth(secret string, blacklist *auth.TokenBlacklist, loadUser UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			claims, err := auth.ValidateJWTWithBlacklist(ctx, token, secret, blacklist)
			if err != nil {
				return next(c)
			}

			user, err := loadUser(ctx, claims.UserID)
			if err != nil || user.Status != models.StatusActive {
				return next(c)
			}

			c.Set("user", user)
			c.Set("token", token)
			return next(c)
		}
	}
}

// RequireRoles restricts a route to users holding one of the given roles.
// Must run after Authenticate.
func RequireRoles(roles ...models.UserRole) echo.MiddlewareFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*models.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[user.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user from the context, or nil when
// the request is unauthenticated.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get("user").(*models.User)
	return user
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
