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

// Compile-time check to ensure WithdrawalRepository implements the interface
var _ repositories.WithdrawalRepository = (*WithdrawalRepository)(nil)

// WithdrawalRepository handles MongoDB operations for Withdrawal
type WithdrawalRepository struct {
	collection *mongo.Collection
}

// NewWithdrawalRepository creates a new WithdrawalRepository
func NewWithdrawalRepository(db *mongo.Database) *WithdrawalRepository {
	return &WithdrawalRepository{
		collection: db.Collection("withdrawals"),
	}
}

// Create inserts a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	withdrawal.ID = primitive.NewObjectID()
	withdrawal.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, withdrawal)
	return err
}

// FindByID finds a withdrawal by ID
func (r *WithdrawalRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&withdrawal)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &withdrawal, nil
}

// FindByUserID finds all withdrawals for a user, newest first
func (r *WithdrawalRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []*models.Withdrawal
	if err = cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []*models.Withdrawal{}
	}
	return withdrawals, nil
}

// FindByStatus finds withdrawals by status with pagination
func (r *WithdrawalRepository) FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": 1}) // Oldest pending first for the payout queue

	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []*models.Withdrawal
	if err = cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []*models.Withdrawal{}
	}
	return withdrawals, nil
}

// MarkProcessed flips a pending withdrawal to a terminal status. The status
// guard in the filter makes approval and rejection idempotent: a second call
// matches nothing and returns false.
func (r *WithdrawalRepository) MarkProcessed(ctx context.Context, id primitive.ObjectID, status, processedBy, note string) (bool, error) {
	filter := bson.M{"_id": id, "status": models.WithdrawalStatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":      status,
			"processedBy": processedBy,
			"note":        note,
			"processedAt": time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// SumPendingByUserID sums the pending withdrawal amounts for a user
func (r *WithdrawalRepository) SumPendingByUserID(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "status": models.WithdrawalStatusPending}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// FindAll retrieves all withdrawals (backup support)
func (r *WithdrawalRepository) FindAll(ctx context.Context) ([]*models.Withdrawal, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []*models.Withdrawal
	if err = cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []*models.Withdrawal{}
	}
	return withdrawals, nil
}
