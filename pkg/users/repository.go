package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository is the persistence contract for user accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)

	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateNotifications(ctx context.Context, id primitive.ObjectID, settings models.NotificationSettings) (*models.User, error)

	SetPlan(ctx context.Context, id primitive.ObjectID, plan plans.Plan, limit int) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) error
	SetStripeCustomerID(ctx context.Context, id primitive.ObjectID, customerID string) error
	SetCurrentCases(ctx context.Context, id primitive.ObjectID, count int) error

	// ReserveCaseSlot atomically increments currentCases if it is below the
	// plan limit. Returns *plans.LimitError when the quota is exhausted.
	ReserveCaseSlot(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// ReleaseCaseSlot decrements currentCases, never below zero.
	ReleaseCaseSlot(ctx context.Context, id primitive.ObjectID) error

	All(ctx context.Context, page, limit int64) ([]models.User, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByPlan(ctx context.Context) (map[string]int64, error)
}
