package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the repositories.
const (
	UsersCollection    = "users"
	CasesCollection    = "cases"
	FilesCollection    = "casefiles"
	MessagesCollection = "chatmessages"
)

// Client holds the MongoDB connection and the application database.
type Client struct {
	Mongo *mongo.Client
	DB    *mongo.Database
}

// NewClient connects to MongoDB and verifies the connection.
func NewClient(uri, dbName string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed pinging mongodb: %w", err)
	}

	log.Println("✅ MongoDB connected")

	return &Client{
		Mongo: client,
		DB:    client.Database(dbName),
	}, nil
}

// Close disconnects from MongoDB.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.Mongo.Disconnect(ctx)
}

// Ping checks if the database is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.Mongo.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes every collection depends on. Safe to
// call on every startup; Mongo treats existing identical indexes as no-ops.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "plan", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := c.DB.Collection(UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("failed creating user indexes: %w", err)
	}

	cases := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "client", Value: "text"},
			{Key: "description", Value: "text"},
		}},
	}
	if _, err := c.DB.Collection(CasesCollection).Indexes().CreateMany(ctx, cases); err != nil {
		return fmt.Errorf("failed creating case indexes: %w", err)
	}

	files := []mongo.IndexModel{
		{Keys: bson.D{{Key: "caseId", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "uploadedAt", Value: -1}}},
	}
	if _, err := c.DB.Collection(FilesCollection).Indexes().CreateMany(ctx, files); err != nil {
		return fmt.Errorf("failed creating file indexes: %w", err)
	}

	messages := []mongo.IndexModel{
		{Keys: bson.D{{Key: "caseId", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}
	if _, err := c.DB.Collection(MessagesCollection).Indexes().CreateMany(ctx, messages); err != nil {
		return fmt.Errorf("failed creating message indexes: %w", err)
	}

	return nil
}
