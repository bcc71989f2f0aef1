package cases

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
)

// QuotaManager reserves and releases plan quota slots. Implemented by the
// users repository.
type QuotaManager interface {
	ReserveCaseSlot(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	ReleaseCaseSlot(ctx context.Context, userID primitive.ObjectID) error
}

// FilePurger removes every file belonging to a case, blobs included.
type FilePurger interface {
	PurgeCase(ctx context.Context, caseID, ownerID primitive.ObjectID) error
}

// MessagePurger removes every chat message belonging to a case.
type MessagePurger interface {
	PurgeCase(ctx context.Context, caseID primitive.ObjectID) error
}

// Service implements case CRUD bound to the owner's plan quota.
type Service struct {
	repo     Repository
	quota    QuotaManager
	files    FilePurger
	messages MessagePurger
}

// NewService creates a case service. files and messages may be nil until
// wired; deletion then skips the corresponding cleanup.
func NewService(repo Repository, quota QuotaManager, files FilePurger, messages MessagePurger) *Service {
	return &Service{repo: repo, quota: quota, files: files, messages: messages}
}

// Create reserves a quota slot, then inserts the case. A failed insert
// releases the slot again so the counter stays consistent.
func (s *Service) Create(ctx context.Context, ownerID primitive.ObjectID, req models.CreateCaseRequest) (*models.Case, error) {
	if _, err := s.quota.ReserveCaseSlot(ctx, ownerID); err != nil {
		return nil, err
	}

	c := &models.Case{
		Name:        strings.TrimSpace(req.Name),
		Client:      strings.TrimSpace(req.Client),
		Description: strings.TrimSpace(req.Description),
		Status:      models.CaseActive,
		UserID:      ownerID,
	}

	if err := s.repo.Insert(ctx, c); err != nil {
		if rerr := s.quota.ReleaseCaseSlot(ctx, ownerID); rerr != nil {
			log.Printf("⚠️ Failed to release quota slot for %s after insert error: %v", ownerID.Hex(), rerr)
		}
		return nil, err
	}

	return c, nil
}

// Get returns a case owned by ownerID.
func (s *Service) Get(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Case, error) {
	return s.repo.FindByID(ctx, id, ownerID)
}

// List returns a filtered page of the owner's cases, newest first.
func (s *Service) List(ctx context.Context, ownerID primitive.ObjectID, filter ListFilter) ([]models.Case, int64, error) {
	return s.repo.List(ctx, ownerID, filter)
}

// Update applies a partial update to an owned case.
func (s *Service) Update(ctx context.Context, id, ownerID primitive.ObjectID, req models.UpdateCaseRequest) (*models.Case, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Client != nil {
		fields["client"] = strings.TrimSpace(*req.Client)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		status := models.CaseStatus(*req.Status)
		if !models.ValidCaseStatus(status) {
			return nil, fmt.Errorf("invalid case status %q", status)
		}
		fields["status"] = status
	}

	if len(fields) == 0 {
		return s.repo.FindByID(ctx, id, ownerID)
	}

	return s.repo.Update(ctx, id, ownerID, fields)
}

// Delete removes a case with all its files and messages, then releases the
// owner's quota slot. The slot is released only when the case record itself
// was deleted.
func (s *Service) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	if _, err := s.repo.FindByID(ctx, id, ownerID); err != nil {
		return err
	}

	if s.files != nil {
		if err := s.files.PurgeCase(ctx, id, ownerID); err != nil {
			return err
		}
	}
	if s.messages != nil {
		if err := s.messages.PurgeCase(ctx, id); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.quota.ReleaseCaseSlot(ctx, ownerID); err != nil {
		log.Printf("⚠️ Failed to release quota slot for %s after delete: %v", ownerID.Hex(), err)
	}
	return nil
}

// Stats aggregates the owner's cases by status.
func (s *Service) Stats(ctx context.Context, ownerID primitive.ObjectID) (*models.CaseStats, error) {
	return s.repo.Stats(ctx, ownerID)
}
