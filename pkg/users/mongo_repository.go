package users

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
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a MongoDB-backed user repository.
func NewMongoRepository(db *database.Client) Repository {
	return &mongoRepository{col: db.DB.Collection(database.UsersCollection)}
}

func (r *mongoRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email already registered")
		}
		return fmt.Errorf("failed creating user: %w", err)
	}

	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed finding user by email: %w", err)
	}
	return &user, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed finding user: %w", err)
	}
	return &user, nil
}

func (r *mongoRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("failed checking email: %w", err)
	}
	return count > 0, nil
}

func (r *mongoRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"lastLogin": time.Now()}})
	return err
}

func (r *mongoRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	fields["updatedAt"] = time.Now()

	var user models.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("email already registered")
		}
		return nil, fmt.Errorf("failed updating profile: %w", err)
	}
	return &user, nil
}

func (r *mongoRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed updating password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) UpdateNotifications(ctx context.Context, id primitive.ObjectID, settings models.NotificationSettings) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if settings.EmailNotifications != nil {
		set["emailNotifications"] = *settings.EmailNotifications
	}
	if settings.CaseUpdates != nil {
		set["caseUpdates"] = *settings.CaseUpdates
	}
	if settings.AIResponses != nil {
		set["aiResponses"] = *settings.AIResponses
	}
	if settings.MarketingEmails != nil {
		set["marketingEmails"] = *settings.MarketingEmails
	}

	var user models.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed updating notifications: %w", err)
	}
	return &user, nil
}

func (r *mongoRepository) SetPlan(ctx context.Context, id primitive.ObjectID, plan plans.Plan, limit int) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"plan":      plan,
		"planLimit": limit,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed setting plan: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed setting status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) SetStripeCustomerID(ctx context.Context, id primitive.ObjectID, customerID string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"stripeCustomerId": customerID}})
	return err
}

func (r *mongoRepository) SetCurrentCases(ctx context.Context, id primitive.ObjectID, count int) error {
	if count < 0 {
		count = 0
	}
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"currentCases": count}})
	return err
}

// ReserveCaseSlot performs a single conditional increment so concurrent
// creates can never push currentCases past planLimit.
func (r *mongoRepository) ReserveCaseSlot(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{
			"_id":   id,
			"$expr": bson.M{"$lt": bson.A{"$currentCases", "$planLimit"}},
		},
		bson.M{"$inc": bson.M{"currentCases": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)

	if err == mongo.ErrNoDocuments {
		// Either the user does not exist or the quota is exhausted.
		current, ferr := r.FindByID(ctx, id)
		if ferr != nil {
			return nil, ferr
		}
		return nil, &plans.LimitError{
			Current: current.CurrentCases,
			Limit:   current.PlanLimit,
			Plan:    current.Plan,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed reserving case slot: %w", err)
	}
	return &user, nil
}

func (r *mongoRepository) ReleaseCaseSlot(ctx context.Context, id primitive.ObjectID) error {
	// The currentCases guard keeps the counter from going negative.
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "currentCases": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"currentCases": -1}},
	)
	if err != nil {
		return fmt.Errorf("failed releasing case slot: %w", err)
	}
	return nil
}

func (r *mongoRepository) All(ctx context.Context, page, limit int64) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed counting users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed listing users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed decoding users: %w", err)
	}
	return users, total, nil
}

func (r *mongoRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, "$status")
}

func (r *mongoRepository) CountByPlan(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, "$plan")
}

func (r *mongoRepository) groupCount(ctx context.Context, field string) (map[string]int64, error) {
	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed aggregating users: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed decoding aggregation: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
