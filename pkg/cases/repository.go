package cases

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
)

// ErrNotFound is returned when no case matches the lookup. Cases owned by
// other users are reported as not found, never as forbidden.
var ErrNotFound = errors.New("case not found")

// ListFilter narrows and paginates a case listing.
type ListFilter struct {
	Status models.CaseStatus
	Search string
	Page   int64
	Limit  int64
}

// Repository is the persistence contract for cases.
type Repository interface {
	Insert(ctx context.Context, c *models.Case) error
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Case, error)
	List(ctx context.Context, ownerID primitive.ObjectID, filter ListFilter) ([]models.Case, int64, error)
	Update(ctx context.Context, id, ownerID primitive.ObjectID, fields map[string]interface{}) (*models.Case, error)
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	IncFileCount(ctx context.Context, id primitive.ObjectID, delta int) error

	Stats(ctx context.Context, ownerID primitive.ObjectID) (*models.CaseStats, error)
	CountByUser(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	ListAllByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.Case, error)
}
