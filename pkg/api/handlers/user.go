package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/users"
)

// UserHandler serves profile and settings endpoints.
type UserHandler struct {
	users    *users.Service
	validate *validator.Validate
}

// NewUserHandler creates the user handler.
func NewUserHandler(userSvc *users.Service, validate *validator.Validate) *UserHandler {
	return &UserHandler{users: userSvc, validate: validate}
}

// Profile handles GET /api/user/profile.
func (h *UserHandler) Profile(c echo.Context) error {
	user := middleware.CurrentUser(c)

	return respondOK(c, "profile", map[string]any{
		"user": user,
		"usage": map[string]any{
			"currentCases": user.CurrentCases,
			"planLimit":    user.PlanLimit,
			"remaining":    user.RemainingCases(),
			"percentage":   user.PlanUsagePercentage(),
		},
	})
}

// UpdateProfile handles PUT /api/user/profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.users.UpdateProfile(ctx, user.ID, req)
	if err != nil {
		return respondError(c, http.StatusConflict, err.Error())
	}

	return respondOK(c, "profile updated", updated)
}

// ChangePassword handles PUT /api/user/password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.users.ChangePassword(ctx, user.ID, req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	return respondOK(c, "password changed", nil)
}

// UpdateNotifications handles PUT /api/user/notifications.
func (h *UserHandler) UpdateNotifications(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.NotificationSettings
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.users.UpdateNotifications(ctx, user.ID, req)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to update notifications")
	}

	return respondOK(c, "notification settings updated", updated)
}
