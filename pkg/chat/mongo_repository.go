package chat

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coweringg/LawCaseAI/pkg/database"
	"github.com/coweringg/LawCaseAI/pkg/models"
)

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a MongoDB-backed chat message repository.
func NewMongoRepository(db *database.Client) Repository {
	return &mongoRepository{col: db.DB.Collection(database.MessagesCollection)}
}

func (r *mongoRepository) Insert(ctx context.Context, m *models.ChatMessage) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}

	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("failed inserting message: %w", err)
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepository) ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]models.ChatMessage, error) {
	// Take the newest HistoryLimit, then flip to chronological order.
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(HistoryLimit)

	cursor, err := r.col.Find(ctx, bson.M{"caseId": caseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed listing messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []models.ChatMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed decoding messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *mongoRepository) Count(ctx context.Context, caseID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"caseId": caseID})
}

func (r *mongoRepository) Latest(ctx context.Context, caseID primitive.ObjectID) (*models.ChatMessage, error) {
	var m models.ChatMessage
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	err := r.col.FindOne(ctx, bson.M{"caseId": caseID}, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed finding latest message: %w", err)
	}
	return &m, nil
}

func (r *mongoRepository) DeleteByCase(ctx context.Context, caseID primitive.ObjectID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"caseId": caseID}); err != nil {
		return fmt.Errorf("failed deleting case messages: %w", err)
	}
	return nil
}
