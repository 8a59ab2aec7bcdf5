package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection    = "users"
	thoughtsCollection = "thoughts"
)

// MongoStore owns the client connection and hands out one repository per collection.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *zap.Logger
}

// ConnectMongo dials MongoDB, verifies the connection and ensures the indexes exist.
func ConnectMongo(ctx context.Context, uri, database string, logger *zap.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("Connected to MongoDB", zap.String("database", database))

	store := &MongoStore{
		client:   client,
		database: client.Database(database),
		logger:   logger,
	}
	store.ensureIndexes(ctx)
	return store, nil
}

// Index failures are logged rather than fatal; the API still works without them.
func (s *MongoStore) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := s.database.Collection(usersCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		s.logger.Warn("Failed to create unique indexes on users", zap.Error(err))
	}
}

func (s *MongoStore) Users() *MongoUserRepository {
	return &MongoUserRepository{collection: s.database.Collection(usersCollection)}
}

func (s *MongoStore) Thoughts() *MongoThoughtRepository {
	return &MongoThoughtRepository{collection: s.database.Collection(thoughtsCollection)}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// afterUpdate makes FindOneAndUpdate return the post-update document.
func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func translate(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
