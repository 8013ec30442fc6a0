package repository

import (
	"context"
	"fmt"
	"time"

	"guidely/pkg/config"
	"guidely/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Messages"
)

type MessageRepository interface {
	Insert(ctx context.Context, msg *model.ChatMessage) error
	FindBetween(ctx context.Context, userID, contactID string) ([]*model.ChatMessage, error)
	FindInvolving(ctx context.Context, userID string) ([]*model.ChatMessage, error)
	MarkRead(ctx context.Context, userID, contactID string) (int64, error)
}

type mongoMessageRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMessageRepository(cfg *config.Config) MessageRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMessageRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoMessageRepository) Insert(ctx context.Context, msg *model.ChatMessage) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *mongoMessageRepository) FindBetween(ctx context.Context, userID, contactID string) ([]*model.ChatMessage, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID, "receiver_id": contactID},
			{"sender_id": contactID, "receiver_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*model.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}

// FindInvolving returns every message the user sent or received, oldest
// first. Messages sharing a timestamp keep insertion order.
func (r *mongoMessageRepository) FindInvolving(ctx context.Context, userID string) ([]*model.ChatMessage, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID},
			{"receiver_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*model.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}

func (r *mongoMessageRepository) MarkRead(ctx context.Context, userID, contactID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"sender_id":   contactID,
		"receiver_id": userID,
		"is_read":     false,
	}
	update := bson.M{"$set": bson.M{"is_read": true}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}

	return result.ModifiedCount, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
