package repository

import (
	"context"
	"errors"
	"fmt"

	directoryerrors "guidely/internal/directory/errors"
	"guidely/pkg/config"
	"guidely/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	GuideCollectionName = "Guides"
)

type GuideRepository interface {
	FindByID(ctx context.Context, id string) (*model.Guide, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type mongoGuideRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoGuideRepository(cfg *config.Config) GuideRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGuideRepository{
		cfg:        cfg,
		collection: db.Collection(GuideCollectionName),
	}
}

func (r *mongoGuideRepository) FindByID(ctx context.Context, id string) (*model.Guide, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var guide model.Guide
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&guide)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, directoryerrors.ErrGuideNotFound
		}
		return nil, fmt.Errorf("failed to find guide: %w", err)
	}

	return &guide, nil
}

func (r *mongoGuideRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to check guide existence: %w", err)
	}

	return count > 0, nil
}
