package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/cases"
	"github.com/coweringg/LawCaseAI/pkg/metrics"
	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

// CaseHandler serves case CRUD endpoints.
type CaseHandler struct {
	cases    *cases.Service
	validate *validator.Validate
}

// NewCaseHandler creates the case handler.
func NewCaseHandler(caseSvc *cases.Service, validate *validator.Validate) *CaseHandler {
	return &CaseHandler{cases: caseSvc, validate: validate}
}

func caseIDParam(c echo.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("id"))
}

// List handles GET /api/cases.
func (h *CaseHandler) List(c echo.Context) error {
	user := middleware.CurrentUser(c)

	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := cases.ListFilter{
		Status: models.CaseStatus(c.QueryParam("status")),
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.cases.List(ctx, user.ID, filter)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to list cases")
	}

	return respondOK(c, "cases", map[string]any{
		"cases":      list,
		"pagination": models.NewPagination(int(page), int(limit), total),
	})
}

// Create handles POST /api/cases.
func (h *CaseHandler) Create(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CreateCaseRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.cases.Create(ctx, user.ID, req)
	if err != nil {
		var limitErr *plans.LimitError
		if errors.As(err, &limitErr) {
			return respondPlanLimit(c, limitErr)
		}
		return respondError(c, http.StatusInternalServerError, "failed to create case")
	}

	metrics.CasesCreated.Inc()

	return respondCreated(c, "case created", created)
}

// Get handles GET /api/cases/:id.
func (h *CaseHandler) Get(c echo.Context) error {
	user := middleware.CurrentUser(c)

	id, err := caseIDParam(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	found, err := h.cases.Get(ctx, id, user.ID)
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	return respondOK(c, "case", found)
}

// Update handles PUT /api/cases/:id.
func (h *CaseHandler) Update(c echo.Context) error {
	user := middleware.CurrentUser(c)

	id, err := caseIDParam(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	var req models.UpdateCaseRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.cases.Update(ctx, id, user.ID, req)
	if err != nil {
		if errors.Is(err, cases.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "case not found")
		}
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	return respondOK(c, "case updated", updated)
}

// Delete handles DELETE /api/cases/:id. Files and chat history go with it.
func (h *CaseHandler) Delete(c echo.Context) error {
	user := middleware.CurrentUser(c)

	id, err := caseIDParam(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.cases.Delete(ctx, id, user.ID); err != nil {
		if errors.Is(err, cases.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "case not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to delete case")
	}

	return respondOK(c, "case deleted", nil)
}

// Stats handles GET /api/cases/stats.
func (h *CaseHandler) Stats(c echo.Context) error {
	user := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.cases.Stats(ctx, user.ID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to compute stats")
	}

	return respondOK(c, "case stats", stats)
}
