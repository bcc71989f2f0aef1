package files

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

// NewMongoRepository creates a MongoDB-backed file metadata repository.
func NewMongoRepository(db *database.Client) Repository {
	return &mongoRepository{col: db.DB.Collection(database.FilesCollection)}
}

func (r *mongoRepository) Insert(ctx context.Context, f *models.CaseFile) error {
	f.UploadedAt = time.Now()

	res, err := r.col.InsertOne(ctx, f)
	if err != nil {
		return fmt.Errorf("failed inserting file record: %w", err)
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.CaseFile, error) {
	var f models.CaseFile
	err := r.col.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed finding file: %w", err)
	}
	return &f, nil
}

func (r *mongoRepository) ListByCase(ctx context.Context, caseID, ownerID primitive.ObjectID) ([]models.CaseFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"caseId": caseID, "userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed listing files: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.CaseFile{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed decoding files: %w", err)
	}
	return out, nil
}

func (r *mongoRepository) ListByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.CaseFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed listing files: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.CaseFile{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed decoding files: %w", err)
	}
	return out, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("failed deleting file record: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByCase removes every record for a case and returns the deleted
// records so the caller can purge the blobs.
func (r *mongoRepository) DeleteByCase(ctx context.Context, caseID, ownerID primitive.ObjectID) ([]models.CaseFile, error) {
	records, err := r.ListByCase(ctx, caseID, ownerID)
	if err != nil {
		return nil, err
	}

	if _, err := r.col.DeleteMany(ctx, bson.M{"caseId": caseID, "userId": ownerID}); err != nil {
		return nil, fmt.Errorf("failed deleting case files: %w", err)
	}
	return records, nil
}

func (r *mongoRepository) CountAll(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
