// internal/common/database/mongo.go
package database

import (
	"context"
	"fmt"

	"procurement-assistant/internal/common/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient wraps the MongoDB client and the purchases collection handle.
// The client is safe for concurrent read-only aggregation use, so a single
// instance is shared across requests.
type MongoClient struct {
	Client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
}

// NewMongo creates a new MongoDB client and resolves the configured
// database/collection handles.
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*MongoClient, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(config.GetDuration(cfg.Timeout))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	db := client.Database(cfg.Database)
	return &MongoClient{
		Client:     client,
		database:   db,
		collection: db.Collection(cfg.Collection),
	}, nil
}

// Ping tests the MongoDB connection.
func (c *MongoClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

// Collection returns the purchases collection handle.
func (c *MongoClient) Collection() *mongo.Collection {
	return c.collection
}

// Close disconnects the client.
func (c *MongoClient) Close(ctx context.Context) error {
	if c.Client != nil {
		return c.Client.Disconnect(ctx)
	}
	return nil
}
