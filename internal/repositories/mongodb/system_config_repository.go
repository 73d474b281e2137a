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

// Compile-time check to ensure SystemConfigRepository implements the interface
var _ repositories.SystemConfigRepository = (*SystemConfigRepository)(nil)

// SystemConfigRepository handles MongoDB operations for system configuration
type SystemConfigRepository struct {
	collection *mongo.Collection
}

// NewSystemConfigRepository creates a new SystemConfigRepository
func NewSystemConfigRepository(db *mongo.Database) *SystemConfigRepository {
	return &SystemConfigRepository{
		collection: db.Collection("system_configs"),
	}
}

// FindByKey finds a config setting by key
func (r *SystemConfigRepository) FindByKey(ctx context.Context, key string) (*models.SystemConfig, error) {
	var config models.SystemConfig
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&config)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &config, nil
}

// UpsertByKey creates or updates a config setting
func (r *SystemConfigRepository) UpsertByKey(ctx context.Context, key string, value interface{}, description string) error {
	filter := bson.M{"key": key}
	update := bson.M{
		"$set": bson.M{
			"value":       value,
			"description": description,
			"updatedAt":   time.Now(),
		},
		"$setOnInsert": bson.M{
			"key":       key,
			"createdAt": time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindAll retrieves all config settings
func (r *SystemConfigRepository) FindAll(ctx context.Context) ([]*models.SystemConfig, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []*models.SystemConfig
	if err = cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	if configs == nil {
		configs = []*models.SystemConfig{}
	}
	return configs, nil
}
