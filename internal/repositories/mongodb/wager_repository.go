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

// Compile-time check to ensure WagerRepository implements the interface
var _ repositories.WagerRepository = (*WagerRepository)(nil)

// WagerRepository handles MongoDB operations for imported wager feed records
type WagerRepository struct {
	collection *mongo.Collection
}

// NewWagerRepository creates a new WagerRepository
func NewWagerRepository(db *mongo.Database) *WagerRepository {
	return &WagerRepository{
		collection: db.Collection("wagers"),
	}
}

// UpsertByPlatformID replaces the cumulative wager row for a platform account
func (r *WagerRepository) UpsertByPlatformID(ctx context.Context, record *models.WagerRecord) error {
	record.ImportedAt = time.Now()
	filter := bson.M{"platformId": record.PlatformID}
	update := bson.M{
		"$set": bson.M{
			"totalWager":  record.TotalWager,
			"importedAt":  record.ImportedAt,
			"feedRowHash": record.FeedRowHash,
		},
		"$setOnInsert": bson.M{"platformId": record.PlatformID},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindByPlatformID finds the wager record for a platform account
func (r *WagerRepository) FindByPlatformID(ctx context.Context, platformID string) (*models.WagerRecord, error) {
	var record models.WagerRecord
	err := r.collection.FindOne(ctx, bson.M{"platformId": platformID}).Decode(&record)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &record, nil
}

// FindAll retrieves all wager records
func (r *WagerRepository) FindAll(ctx context.Context) ([]*models.WagerRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.WagerRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.WagerRecord{}
	}
	return records, nil
}

// FindImportedSince retrieves records refreshed after the given time
func (r *WagerRepository) FindImportedSince(ctx context.Context, since time.Time) ([]*models.WagerRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"importedAt": bson.M{"$gte": since}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.WagerRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.WagerRecord{}
	}
	return records, nil
}
