package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
)

// HistoryLimit caps how many messages a conversation read returns.
const HistoryLimit = 50

// Repository is the persistence contract for chat messages.
type Repository interface {
	Insert(ctx context.Context, m *models.ChatMessage) error
	// ListByCase returns up to HistoryLimit most recent messages in
	// chronological order.
	ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]models.ChatMessage, error)
	Count(ctx context.Context, caseID primitive.ObjectID) (int64, error)
	Latest(ctx context.Context, caseID primitive.ObjectID) (*models.ChatMessage, error)
	DeleteByCase(ctx context.Context, caseID primitive.ObjectID) error
}
