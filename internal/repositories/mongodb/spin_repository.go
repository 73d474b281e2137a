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

// Compile-time checks
var (
	_ repositories.SpinRepository        = (*SpinRepository)(nil)
	_ repositories.SpinBalanceRepository = (*SpinBalanceRepository)(nil)
)

// SpinRepository handles MongoDB operations for Spin
type SpinRepository struct {
	collection *mongo.Collection
}

// NewSpinRepository creates a new SpinRepository
func NewSpinRepository(db *mongo.Database) *SpinRepository {
	return &SpinRepository{
		collection: db.Collection("spins"),
	}
}

// Create inserts a new spin record
func (r *SpinRepository) Create(ctx context.Context, spin *models.Spin) error {
	spin.ID = primitive.NewObjectID()
	spin.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, spin)
	return err
}

// FindByUserID finds spins for a user with pagination, newest first
func (r *SpinRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Spin, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var spins []*models.Spin
	if err = cursor.All(ctx, &spins); err != nil {
		return nil, err
	}
	if spins == nil {
		spins = []*models.Spin{}
	}
	return spins, nil
}

// CountTicketSpins counts spins that consumed a free wager-earned ticket
func (r *SpinRepository) CountTicketSpins(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	filter := bson.M{"userId": userID, "source": models.SpinSourceTicket}
	return r.collection.CountDocuments(ctx, filter)
}

// Count returns the total number of spins
func (r *SpinRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// SpinBalanceRepository handles MongoDB operations for SpinBalance
type SpinBalanceRepository struct {
	collection *mongo.Collection
}

// NewSpinBalanceRepository creates a new SpinBalanceRepository
func NewSpinBalanceRepository(db *mongo.Database) *SpinBalanceRepository {
	return &SpinBalanceRepository{
		collection: db.Collection("spin_balances"),
	}
}

// FindByUserID finds all spin balances for a user
func (r *SpinBalanceRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.SpinBalance, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var balances []*models.SpinBalance
	if err = cursor.All(ctx, &balances); err != nil {
		return nil, err
	}
	if balances == nil {
		balances = []*models.SpinBalance{}
	}
	return balances, nil
}

// Grant upserts count spins onto the user's balance for the tier
func (r *SpinBalanceRepository) Grant(ctx context.Context, userID primitive.ObjectID, tier string, count int) error {
	filter := bson.M{"userId": userID, "tier": tier}
	update := bson.M{
		"$inc": bson.M{"count": count},
		"$set": bson.M{"updatedAt": time.Now()},
		"$setOnInsert": bson.M{
			"userId": userID,
			"tier":   tier,
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Consume decrements the balance iff count > 0. The count guard and the $inc
// run atomically on one document, so the balance can never go negative.
func (r *SpinBalanceRepository) Consume(ctx context.Context, userID primitive.ObjectID, tier string) (bool, error) {
	filter := bson.M{"userId": userID, "tier": tier, "count": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"count": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}
