package users

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/auth"
	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so login responses never reveal which one failed.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// ErrAccountDisabled is returned when a non-active account tries to log in.
var ErrAccountDisabled = fmt.Errorf("account is disabled")

// Mailer sends the account lifecycle emails.
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
	SendPlanChangedEmail(ctx context.Context, to, name, plan string, limit int) error
}

// Service implements account registration, authentication and profile
// management on top of the repository.
type Service struct {
	repo   Repository
	mailer Mailer
}

// NewService creates a user service. mailer may be nil.
func NewService(repo Repository, mailer Mailer) *Service {
	return &Service{repo: repo, mailer: mailer}
}

// Register creates an account on the basic plan and returns the stored user.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed hashing password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		LawFirm:      strings.TrimSpace(req.LawFirm),
		Role:         models.RoleLawyer,
		Plan:         plans.Basic,
		PlanLimit:    plans.Limit(plans.Basic),
		CurrentCases: 0,
		Status:       models.StatusActive,

		EmailNotifications: true,
		CaseUpdates:        true,
		AIResponses:        true,
		MarketingEmails:    false,

		LastLogin: time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		go func(to, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.mailer.SendWelcomeEmail(ctx, to, name); err != nil {
				log.Printf("⚠️ Failed to send welcome email to %s: %v", to, err)
			}
		}(user.Email, user.Name)
	}

	return user, nil
}

// Authenticate verifies credentials and records the login time.
func (s *Service) Authenticate(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err == ErrNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if user.Status != models.StatusActive {
		return nil, ErrAccountDisabled
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("⚠️ Failed to record last login for %s: %v", user.Email, err)
	}
	user.LastLogin = time.Now()

	return user, nil
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByHexID resolves a hex object ID and loads the user. Used by the
// authentication middleware.
func (s *Service) GetByHexID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.FindByID(ctx, oid)
}

// UpdateProfile applies a partial profile update. Phone numbers are
// normalized to E.164 when parseable.
func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{}

	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if email != current.Email {
			taken, err := s.repo.EmailTaken(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("email already registered")
			}
		}
		fields["email"] = email
	}
	if req.LawFirm != nil {
		fields["lawFirm"] = strings.TrimSpace(*req.LawFirm)
	}
	if req.Phone != nil {
		fields["phone"] = normalizePhone(*req.Phone)
	}

	if len(fields) == 0 {
		return s.repo.FindByID(ctx, id)
	}

	return s.repo.UpdateProfile(ctx, id, fields)
}

// ChangePassword verifies the current credential before rotating it.
func (s *Service) ChangePassword(ctx context.Context, id primitive.ObjectID, req models.ChangePasswordRequest) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return fmt.Errorf("current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed hashing password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, id, hash)
}

// UpdateNotifications applies a partial notification-settings update.
func (s *Service) UpdateNotifications(ctx context.Context, id primitive.ObjectID, settings models.NotificationSettings) (*models.User, error) {
	return s.repo.UpdateNotifications(ctx, id, settings)
}

// ChangePlan moves a user to a new plan and recomputes the quota. Existing
// cases above the new limit are kept; only new creates are blocked.
func (s *Service) ChangePlan(ctx context.Context, id primitive.ObjectID, plan plans.Plan) error {
	if !plans.Valid(plan) {
		return fmt.Errorf("unknown plan %q", plan)
	}
	if err := s.repo.SetPlan(ctx, id, plan, plans.Limit(plan)); err != nil {
		return err
	}

	if s.mailer != nil {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			log.Printf("⚠️ Failed to load user %s for plan change email: %v", id.Hex(), err)
			return nil
		}
		go func(to, name string, plan plans.Plan, limit int) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.mailer.SendPlanChangedEmail(ctx, to, name, string(plan), limit); err != nil {
				log.Printf("⚠️ Failed to send plan change email to %s: %v", to, err)
			}
		}(user.Email, user.Name, plan, plans.Limit(plan))
	}

	return nil
}

// SetStatus changes the account lifecycle state.
func (s *Service) SetStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) error {
	return s.repo.SetStatus(ctx, id, status)
}

// List returns a page of users for the admin view.
func (s *Service) List(ctx context.Context, page, limit int64) ([]models.User, int64, error) {
	return s.repo.All(ctx, page, limit)
}

func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	num, err := phonenumbers.Parse(raw, "US")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
