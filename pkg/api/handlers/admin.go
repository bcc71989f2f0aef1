package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
	"github.com/coweringg/LawCaseAI/pkg/users"
)

// PlatformCounters aggregates cross-collection totals for the dashboard.
type PlatformCounters interface {
	CountAllCases(ctx context.Context) (int64, error)
	CountAllFiles(ctx context.Context) (int64, error)
}

// AdminHandler serves the admin-only user management endpoints.
type AdminHandler struct {
	users    *users.Service
	repo     users.Repository
	counters PlatformCounters
	validate *validator.Validate
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(userSvc *users.Service, repo users.Repository, counters PlatformCounters, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{users: userSvc, repo: repo, counters: counters, validate: validate}
}

func userIDParam(c echo.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("id"))
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.users.List(ctx, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to list users")
	}

	return respondOK(c, "users", map[string]any{
		"users":      list,
		"pagination": models.NewPagination(int(page), int(limit), total),
	})
}

// UpdateUserStatus handles PUT /api/admin/users/:id/status.
func (h *AdminHandler) UpdateUserStatus(c echo.Context) error {
	admin := middleware.CurrentUser(c)

	id, err := userIDParam(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	if id == admin.ID {
		return respondError(c, http.StatusBadRequest, "cannot change your own status")
	}

	var req models.UpdateUserStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.users.SetStatus(ctx, id, models.UserStatus(req.Status)); err != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	return respondOK(c, "user status updated", nil)
}

// UpdateUserPlan handles PUT /api/admin/users/:id/plan.
func (h *AdminHandler) UpdateUserPlan(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	var req models.UpdateUserPlanRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.users.ChangePlan(ctx, id, plans.Plan(req.Plan)); err != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	return respondOK(c, "user plan updated", nil)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	byStatus, err := h.repo.CountByStatus(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to compute stats")
	}
	byPlan, err := h.repo.CountByPlan(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to compute stats")
	}

	var totalUsers int64
	for _, n := range byStatus {
		totalUsers += n
	}

	totalCases, err := h.counters.CountAllCases(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to compute stats")
	}
	totalFiles, err := h.counters.CountAllFiles(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to compute stats")
	}

	return respondOK(c, "platform stats", models.AdminStats{
		TotalUsers:    totalUsers,
		ActiveUsers:   byStatus[string(models.StatusActive)],
		TotalCases:    totalCases,
		TotalFiles:    totalFiles,
		UsersByPlan:   byPlan,
		UsersByStatus: byStatus,
	})
}
