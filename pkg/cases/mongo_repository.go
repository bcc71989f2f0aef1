package cases

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

// NewMongoRepository creates a MongoDB-backed case repository.
func NewMongoRepository(db *database.Client) Repository {
	return &mongoRepository{col: db.DB.Collection(database.CasesCollection)}
}

func (r *mongoRepository) Insert(ctx context.Context, c *models.Case) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = models.CaseActive
	}

	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed inserting case: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Case, error) {
	var c models.Case
	err := r.col.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed finding case: %w", err)
	}
	return &c, nil
}

func (r *mongoRepository) List(ctx context.Context, ownerID primitive.ObjectID, filter ListFilter) ([]models.Case, int64, error) {
	query := bson.M{"userId": ownerID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed counting cases: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed listing cases: %w", err)
	}
	defer cursor.Close(ctx)

	cases := []models.Case{}
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, 0, fmt.Errorf("failed decoding cases: %w", err)
	}
	return cases, total, nil
}

func (r *mongoRepository) Update(ctx context.Context, id, ownerID primitive.ObjectID, fields map[string]interface{}) (*models.Case, error) {
	fields["updatedAt"] = time.Now()

	var c models.Case
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": ownerID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed updating case: %w", err)
	}
	return &c, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("failed deleting case: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) IncFileCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		// Never push the counter below zero.
		filter["fileCount"] = bson.M{"$gte": -delta}
	}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"fileCount": delta}})
	if err != nil {
		return fmt.Errorf("failed adjusting file count: %w", err)
	}
	return nil
}

func (r *mongoRepository) Stats(ctx context.Context, ownerID primitive.ObjectID) (*models.CaseStats, error) {
	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": ownerID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed aggregating case stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed decoding case stats: %w", err)
	}

	stats := &models.CaseStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch models.CaseStatus(row.ID) {
		case models.CaseActive:
			stats.Active = row.Count
		case models.CaseClosed:
			stats.Closed = row.Count
		case models.CaseArchived:
			stats.Archived = row.Count
		}
	}
	return stats, nil
}

func (r *mongoRepository) CountByUser(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"userId": ownerID})
}

func (r *mongoRepository) CountAll(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *mongoRepository) ListAllByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.Case, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed listing cases: %w", err)
	}
	defer cursor.Close(ctx)

	cases := []models.Case{}
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, fmt.Errorf("failed decoding cases: %w", err)
	}
	return cases, nil
}
