package files

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
)

// ErrNotFound is returned when no file matches the lookup.
var ErrNotFound = errors.New("file not found")

// Repository is the persistence contract for file metadata.
type Repository interface {
	Insert(ctx context.Context, f *models.CaseFile) error
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.CaseFile, error)
	ListByCase(ctx context.Context, caseID, ownerID primitive.ObjectID) ([]models.CaseFile, error)
	ListByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.CaseFile, error)
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	DeleteByCase(ctx context.Context, caseID, ownerID primitive.ObjectID) ([]models.CaseFile, error)
	CountAll(ctx context.Context) (int64, error)
}
