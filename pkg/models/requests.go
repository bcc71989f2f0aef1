package models

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	LawFirm  string `json:"lawFirm" validate:"required,max=200"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a signed token plus the authenticated user.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	LawFirm *string `json:"lawFirm,omitempty" validate:"omitempty,max=200"`
	Phone   *string `json:"phone,omitempty"`
}

// ChangePasswordRequest rotates the account credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// CreateCaseRequest creates a new case.
type CreateCaseRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Client      string `json:"client" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateCaseRequest is a partial case update.
type UpdateCaseRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Client      *string `json:"client,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active closed archived"`
}

// SendMessageRequest posts a chat message on a case.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CheckoutRequest starts a plan upgrade.
type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=professional enterprise"`
}

// UpdateUserStatusRequest is the admin account-status mutation.
type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active disabled suspended"`
}

// UpdateUserPlanRequest is the admin plan mutation.
type UpdateUserPlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basic professional enterprise"`
}

// AdminStats summarizes the platform for the admin dashboard.
type AdminStats struct {
	TotalUsers    int64            `json:"totalUsers"`
	ActiveUsers   int64            `json:"activeUsers"`
	TotalCases    int64            `json:"totalCases"`
	TotalFiles    int64            `json:"totalFiles"`
	UsersByPlan   map[string]int64 `json:"usersByPlan"`
	UsersByStatus map[string]int64 `json:"usersByStatus"`
}
