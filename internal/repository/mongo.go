package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"recruitment-portal/internal/models"
)

// MongoStore keeps applications in a Mongo collection, one document each.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the unique applicationId index and a plain email
// index. Email stays non-unique; duplicates are caught at submission time.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "applicationId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("applicationId_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email"),
		},
		{
			Keys:    bson.D{{Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("submittedAt_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("create mongo indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, app *models.Application) error {
	if _, err := s.coll.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrApplicationIDTaken, app.ApplicationID)
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.Application, error) {
	var app models.Application
	err := s.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application by email: %w", err)
	}
	return &app, nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer cur.Close(ctx)

	apps := []models.Application{}
	if err := cur.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus, at time.Time) (*models.Application, error) {
	filter := bson.D{{Key: "applicationId", Value: applicationID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "lastUpdated", Value: at},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app models.Application
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return &app, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
