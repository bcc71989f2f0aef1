package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

// PlanPrice is one purchasable tier for the public pricing endpoint.
// Current is set for the authenticated caller's active tier.
type PlanPrice struct {
	Plan      plans.Plan `json:"plan"`
	CaseLimit int        `json:"caseLimit"`
	PriceID   string     `json:"priceId,omitempty"`
	Current   bool       `json:"current,omitempty"`
}

// Accounts is the slice of the user service billing needs.
type Accounts interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ChangePlan(ctx context.Context, id primitive.ObjectID, plan plans.Plan) error
}

// CustomerStore persists the Stripe customer binding.
type CustomerStore interface {
	SetStripeCustomerID(ctx context.Context, id primitive.ObjectID, customerID string) error
}

// Config holds Stripe settings.
type Config struct {
	SecretKey         string
	WebhookSecret     string
	PriceProfessional string
	PriceEnterprise   string
	FrontendURL       string
}

// Service wraps Stripe checkout and webhook handling for plan upgrades.
type Service struct {
	cfg       Config
	accounts  Accounts
	customers CustomerStore
}

// NewService creates the billing service and sets the global Stripe key.
func NewService(cfg Config, accounts Accounts, customers CustomerStore) *Service {
	if cfg.SecretKey != "" {
		stripe.Key = cfg.SecretKey
		log.Println("✅ Stripe configured")
	} else {
		log.Println("⚠️ Stripe not configured; billing endpoints will fail")
	}
	return &Service{cfg: cfg, accounts: accounts, customers: customers}
}

// Pricing returns the purchasable tiers.
func (s *Service) Pricing() []PlanPrice {
	return []PlanPrice{
		{Plan: plans.Basic, CaseLimit: plans.Limit(plans.Basic)},
		{Plan: plans.Professional, CaseLimit: plans.Limit(plans.Professional), PriceID: s.cfg.PriceProfessional},
		{Plan: plans.Enterprise, CaseLimit: plans.Limit(plans.Enterprise), PriceID: s.cfg.PriceEnterprise},
	}
}

func (s *Service) priceFor(plan plans.Plan) (string, error) {
	switch plan {
	case plans.Professional:
		return s.cfg.PriceProfessional, nil
	case plans.Enterprise:
		return s.cfg.PriceEnterprise, nil
	}
	return "", fmt.Errorf("plan %q is not purchasable", plan)
}

// CreateCheckoutSession starts a subscription checkout for a plan upgrade
// and returns the hosted checkout URL.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID primitive.ObjectID, plan plans.Plan) (string, error) {
	priceID, err := s.priceFor(plan)
	if err != nil {
		return "", err
	}
	if priceID == "" {
		return "", fmt.Errorf("no price configured for plan %q", plan)
	}

	user, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Name),
		})
		if err != nil {
			return "", fmt.Errorf("failed creating stripe customer: %w", err)
		}
		customerID = cust.ID

		if err := s.customers.SetStripeCustomerID(ctx, userID, customerID); err != nil {
			log.Printf("⚠️ Failed to persist stripe customer %s for user %s: %v", customerID, userID.Hex(), err)
		}
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(s.cfg.FrontendURL + "/billing?checkout=success"),
		CancelURL:  stripe.String(s.cfg.FrontendURL + "/billing?checkout=cancelled"),
	}
	params.AddMetadata("user_id", userID.Hex())
	params.AddMetadata("plan", string(plan))

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed creating checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies the event signature and applies plan changes on
// completed checkouts.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("invalid webhook signature: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed decoding checkout session: %w", err)
		}
		return s.applyCheckout(ctx, &sess)
	default:
		log.Printf("ℹ️ Ignoring stripe event %s", event.Type)
		return nil
	}
}

func (s *Service) applyCheckout(ctx context.Context, sess *stripe.CheckoutSession) error {
	userHex := sess.Metadata["user_id"]
	plan := plans.Plan(sess.Metadata["plan"])

	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		return fmt.Errorf("checkout session has invalid user_id %q", userHex)
	}
	if !plans.Valid(plan) {
		return fmt.Errorf("checkout session has unknown plan %q", plan)
	}

	if err := s.accounts.ChangePlan(ctx, userID, plan); err != nil {
		return fmt.Errorf("failed applying plan %s to user %s: %w", plan, userHex, err)
	}

	log.Printf("✅ User %s upgraded to plan %s", userHex, plan)
	return nil
}
