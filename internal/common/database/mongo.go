package database

import (
	"context"
	"fmt"
	"time"

	"recruitment-portal/internal/common/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoClient wraps the Mongo client and the applications collection.
type MongoClient struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// NewMongo connects to the configured deployment and verifies it with a ping.
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*MongoClient, error) {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	c := &MongoClient{
		Client:     client,
		Collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

// Ping tests the Mongo connection
func (c *MongoClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (c *MongoClient) Close(ctx context.Context) error {
	if c.Client != nil {
		return c.Client.Disconnect(ctx)
	}
	return nil
}
