package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure FeatureFlagRepository implements the interface
var _ repositories.FeatureFlagRepository = (*FeatureFlagRepository)(nil)

// FeatureFlagRepository handles MongoDB operations for feature toggles
type FeatureFlagRepository struct {
	collection *mongo.Collection
}

// NewFeatureFlagRepository creates a new FeatureFlagRepository
func NewFeatureFlagRepository(db *mongo.Database) *FeatureFlagRepository {
	return &FeatureFlagRepository{
		collection: db.Collection("feature_flags"),
	}
}

// FindByKey finds a feature flag by key
func (r *FeatureFlagRepository) FindByKey(ctx context.Context, key string) (*models.FeatureFlag, error) {
	var flag models.FeatureFlag
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&flag)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &flag, nil
}

// UpsertByKey creates or updates a feature flag
func (r *FeatureFlagRepository) UpsertByKey(ctx context.Context, key string, enabled bool, updatedBy string) error {
	filter := bson.M{"key": key}
	update := bson.M{
		"$set": bson.M{
			"enabled":   enabled,
			"updatedBy": updatedBy,
			"updatedAt": time.Now(),
		},
		"$setOnInsert": bson.M{"key": key},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindAll retrieves all feature flags
func (r *FeatureFlagRepository) FindAll(ctx context.Context) ([]*models.FeatureFlag, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flags []*models.FeatureFlag
	if err = cursor.All(ctx, &flags); err != nil {
		return nil, err
	}
	if flags == nil {
		flags = []*models.FeatureFlag{}
	}
	return flags, nil
}
