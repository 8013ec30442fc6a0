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
	CollectionName = "AvailabilitySlots"
)

type SlotRepository interface {
	FindByGuide(ctx context.Context, guideID string) ([]*model.AvailabilitySlot, error)

	// Upsert inserts or fully replaces the slot keyed by its composite id.
	// Concurrent writers resolve by last write wins.
	Upsert(ctx context.Context, slot *model.AvailabilitySlot) error
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSlotRepository) FindByGuide(ctx context.Context, guideID string) ([]*model.AvailabilitySlot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"guide_id": guideID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.AvailabilitySlot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode availability slots: %w", err)
	}

	return slots, nil
}

func (r *mongoSlotRepository) Upsert(ctx context.Context, slot *model.AvailabilitySlot) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": slot.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, slot, opts); err != nil {
		return fmt.Errorf("failed to upsert availability slot: %w", err)
	}
	return nil
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
