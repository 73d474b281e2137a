package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure BlacklistRepository implements the interface
var _ repositories.BlacklistRepository = (*BlacklistRepository)(nil)

// BlacklistRepository handles MongoDB operations for the blacklist
type BlacklistRepository struct {
	collection *mongo.Collection
}

// NewBlacklistRepository creates a new BlacklistRepository
func NewBlacklistRepository(db *mongo.Database) *BlacklistRepository {
	return &BlacklistRepository{
		collection: db.Collection("blacklist"),
	}
}

// IsBlacklisted checks whether a platform account is blacklisted
func (r *BlacklistRepository) IsBlacklisted(ctx context.Context, platformID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"platformId": platformID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add upserts a blacklist entry for a platform account
func (r *BlacklistRepository) Add(ctx context.Context, platformID, reason, blacklistedBy string) error {
	filter := bson.M{"platformId": platformID}
	update := bson.M{
		"$set": bson.M{
			"reason":        reason,
			"blacklistedBy": blacklistedBy,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"platformId": platformID,
			"createdAt":  time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Remove deletes a blacklist entry
func (r *BlacklistRepository) Remove(ctx context.Context, platformID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"platformId": platformID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindAll retrieves all blacklist entries
func (r *BlacklistRepository) FindAll(ctx context.Context) ([]*models.BlacklistEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.BlacklistEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.BlacklistEntry{}
	}
	return entries, nil
}
