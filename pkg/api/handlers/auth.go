package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/auth"
	"github.com/coweringg/LawCaseAI/pkg/metrics"
	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/users"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	users     *users.Service
	blacklist *auth.TokenBlacklist
	validate  *validator.Validate
	jwtSecret string
	jwtHours  int
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(userSvc *users.Service, blacklist *auth.TokenBlacklist, validate *validator.Validate, jwtSecret string, jwtHours int) *AuthHandler {
	return &AuthHandler{
		users:     userSvc,
		blacklist: blacklist,
		validate:  validate,
		jwtSecret: jwtSecret,
		jwtHours:  jwtHours,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.Register(ctx, req)
	if err != nil {
		return respondError(c, http.StatusConflict, err.Error())
	}

	token, err := auth.GenerateJWT(user.ID.Hex(), user.Email, string(user.Role), string(user.Plan), h.jwtSecret, h.jwtHours)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to issue token")
	}

	metrics.UsersRegistered.Inc()

	return respondCreated(c, "account created", models.AuthResponse{User: user, Token: token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.Authenticate(ctx, req)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		if err == users.ErrAccountDisabled {
			return respondError(c, http.StatusForbidden, err.Error())
		}
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	token, err := auth.GenerateJWT(user.ID.Hex(), user.Email, string(user.Role), string(user.Plan), h.jwtSecret, h.jwtHours)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to issue token")
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()

	return respondOK(c, "login successful", models.AuthResponse{User: user, Token: token})
}

// Logout handles POST /api/auth/logout. The presented token is revoked for
// the remainder of its lifetime.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if token == "" {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	claims, err := auth.ValidateJWT(token, h.jwtSecret)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "invalid token")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := h.blacklist.Add(ctx, token, ttl); err != nil {
			return respondError(c, http.StatusInternalServerError, "failed to revoke token")
		}
	}

	return respondOK(c, "logged out", nil)
}

// Refresh handles POST /api/auth/refresh. A fresh token is issued against
// the user's current role and plan.
func (h *AuthHandler) Refresh(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	token, err := auth.GenerateJWT(user.ID.Hex(), user.Email, string(user.Role), string(user.Plan), h.jwtSecret, h.jwtHours)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to issue token")
	}

	return respondOK(c, "token refreshed", models.AuthResponse{User: user, Token: token})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}
	return respondOK(c, "current user", user)
}
