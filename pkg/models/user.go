package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/plans"
)

// UserRole is the access-control role of an account.
type UserRole string

const (
	RoleLawyer UserRole = "lawyer"
	RoleAdmin  UserRole = "admin"
)

// UserStatus is the lifecycle state of an account. Only active accounts
// may authenticate.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusDisabled  UserStatus = "disabled"
	StatusSuspended UserStatus = "suspended"
)

// User is a registered lawyer (or admin) in the users collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	LawFirm      string             `bson:"lawFirm" json:"lawFirm"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         UserRole           `bson:"role" json:"role"`
	Plan         plans.Plan         `bson:"plan" json:"plan"`
	PlanLimit    int                `bson:"planLimit" json:"planLimit"`
	CurrentCases int                `bson:"currentCases" json:"currentCases"`
	Status       UserStatus         `bson:"status" json:"status"`

	// Notification preferences
	EmailNotifications bool `bson:"emailNotifications" json:"emailNotifications"`
	CaseUpdates        bool `bson:"caseUpdates" json:"caseUpdates"`
	AIResponses        bool `bson:"aiResponses" json:"aiResponses"`
	MarketingEmails    bool `bson:"marketingEmails" json:"marketingEmails"`

	StripeCustomerID string    `bson:"stripeCustomerId,omitempty" json:"-"`
	LastLogin        time.Time `bson:"lastLogin" json:"lastLogin"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsAtPlanLimit reports whether the user has exhausted their case quota.
// Derived from the snapshot, never stored.
func (u User) IsAtPlanLimit() bool {
	return u.CurrentCases >= u.PlanLimit
}

// RemainingCases returns how many more cases the user may create.
func (u User) RemainingCases() int {
	if remaining := u.PlanLimit - u.CurrentCases; remaining > 0 {
		return remaining
	}
	return 0
}

// PlanUsagePercentage returns quota consumption rounded to whole percent.
func (u User) PlanUsagePercentage() int {
	if u.PlanLimit <= 0 {
		return 0
	}
	return int(float64(u.CurrentCases)/float64(u.PlanLimit)*100 + 0.5)
}

// NotificationSettings is the mutable subset of notification preferences.
type NotificationSettings struct {
	EmailNotifications *bool `json:"emailNotifications,omitempty"`
	CaseUpdates        *bool `json:"caseUpdates,omitempty"`
	AIResponses        *bool `json:"aiResponses,omitempty"`
	MarketingEmails    *bool `json:"marketingEmails,omitempty"`
}
