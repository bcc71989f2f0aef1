package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/billing"
	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

// BillingHandler serves pricing, checkout and the Stripe webhook.
type BillingHandler struct {
	billing  *billing.Service
	validate *validator.Validate
}

// NewBillingHandler creates the billing handler.
func NewBillingHandler(billingSvc *billing.Service, validate *validator.Validate) *BillingHandler {
	return &BillingHandler{billing: billingSvc, validate: validate}
}

// Pricing handles GET /api/billing/pricing. Public; authenticated callers
// get their active tier marked.
func (h *BillingHandler) Pricing(c echo.Context) error {
	tiers := h.billing.Pricing()
	if user := middleware.CurrentUser(c); user != nil {
		for i := range tiers {
			if tiers[i].Plan == user.Plan {
				tiers[i].Current = true
			}
		}
	}
	return respondOK(c, "pricing", tiers)
}

// Checkout handles POST /api/billing/checkout.
func (h *BillingHandler) Checkout(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	url, err := h.billing.CreateCheckoutSession(ctx, user.ID, plans.Plan(req.Plan))
	if err != nil {
		return respondError(c, http.StatusBadGateway, "failed to start checkout")
	}

	return respondOK(c, "checkout session created", map[string]string{"url": url})
}

// Webhook handles POST /api/billing/webhook. Authenticated by the Stripe
// signature header, not by JWT.
func (h *BillingHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "unreadable payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.billing.HandleWebhook(ctx, payload, c.Request().Header.Get("Stripe-Signature")); err != nil {
		return respondError(c, http.StatusBadRequest, "webhook rejected")
	}

	return respondOK(c, "webhook processed", nil)
}
