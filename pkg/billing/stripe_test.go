package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

type fakeAccounts struct {
	users   map[primitive.ObjectID]*models.User
	changed map[primitive.ObjectID]plans.Plan
}

func (f *fakeAccounts) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (f *fakeAccounts) ChangePlan(ctx context.Context, id primitive.ObjectID, plan plans.Plan) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("user not found")
	}
	f.changed[id] = plan
	return nil
}

type fakeCustomers struct{}

func (fakeCustomers) SetStripeCustomerID(ctx context.Context, id primitive.ObjectID, customerID string) error {
	return nil
}

func TestPricing(t *testing.T) {
	svc := NewService(Config{PriceProfessional: "price_pro", PriceEnterprise: "price_ent"}, nil, nil)

	pricing := svc.Pricing()
	require.Len(t, pricing, 3)

	assert.Equal(t, plans.Basic, pricing[0].Plan)
	assert.Equal(t, 5, pricing[0].CaseLimit)
	assert.Empty(t, pricing[0].PriceID)

	assert.Equal(t, "price_pro", pricing[1].PriceID)
	assert.Equal(t, 25, pricing[1].CaseLimit)
	assert.Equal(t, "price_ent", pricing[2].PriceID)
	assert.Equal(t, 100, pricing[2].CaseLimit)
}

func TestApplyCheckout(t *testing.T) {
	userID := primitive.NewObjectID()
	accounts := &fakeAccounts{
		users:   map[primitive.ObjectID]*models.User{userID: {ID: userID, Email: "jane@firm.com"}},
		changed: map[primitive.ObjectID]plans.Plan{},
	}
	svc := NewService(Config{}, accounts, fakeCustomers{})

	sess := &stripe.CheckoutSession{
		Metadata: map[string]string{"user_id": userID.Hex(), "plan": "professional"},
	}
	require.NoError(t, svc.applyCheckout(context.Background(), sess))
	assert.Equal(t, plans.Professional, accounts.changed[userID])
}

func TestApplyCheckout_BadMetadata(t *testing.T) {
	accounts := &fakeAccounts{users: map[primitive.ObjectID]*models.User{}, changed: map[primitive.ObjectID]plans.Plan{}}
	svc := NewService(Config{}, accounts, fakeCustomers{})
	ctx := context.Background()

	err := svc.applyCheckout(ctx, &stripe.CheckoutSession{
		Metadata: map[string]string{"user_id": "not-an-id", "plan": "professional"},
	})
	assert.ErrorContains(t, err, "invalid user_id")

	err = svc.applyCheckout(ctx, &stripe.CheckoutSession{
		Metadata: map[string]string{"user_id": primitive.NewObjectID().Hex(), "plan": "platinum"},
	})
	assert.ErrorContains(t, err, "unknown plan")
}

func TestPriceFor(t *testing.T) {
	svc := NewService(Config{PriceProfessional: "price_pro", PriceEnterprise: "price_ent"}, nil, nil)

	id, err := svc.priceFor(plans.Professional)
	require.NoError(t, err)
	assert.Equal(t, "price_pro", id)

	_, err = svc.priceFor(plans.Basic)
	assert.Error(t, err)
}
