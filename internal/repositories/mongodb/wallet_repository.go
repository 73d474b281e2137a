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

// Compile-time check to ensure WalletRepository implements the interface
var _ repositories.WalletRepository = (*WalletRepository)(nil)

// WalletRepository handles MongoDB operations for Wallet.
//
// The wallet document carries both the balance and the held amount (sum of
// pending withdrawals). All mutations are single-document conditional
// updates, which MongoDB applies atomically, so the available-balance check
// and the hold cannot be split by a concurrent request.
type WalletRepository struct {
	collection *mongo.Collection
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{
		collection: db.Collection("wallets"),
	}
}

// FindByUserID finds a wallet by owner
func (r *WalletRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wallet)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &wallet, nil
}

// EnsureWallet returns the user's wallet, creating a zero-balance one if missing
func (r *WalletRepository) EnsureWallet(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	now := time.Now()
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":    userID,
			"balance":   0.0,
			"held":      0.0,
			"createdAt": now,
		},
		"$set": bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var wallet models.Wallet
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Credit adds amount to the wallet balance
func (r *WalletRepository) Credit(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Hold increments held iff balance - held >= amount. The $expr guard and the
// $inc run inside one UpdateOne, so concurrent holds serialize on the
// document and at most the affordable set succeeds.
func (r *WalletRepository) Hold(ctx context.Context, userID primitive.ObjectID, amount float64) (bool, error) {
	filter := bson.M{
		"userId": userID,
		"$expr": bson.M{
			"$gte": bson.A{
				bson.M{"$subtract": bson.A{"$balance", "$held"}},
				amount,
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"held": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Release removes a hold without touching the balance
func (r *WalletRepository) Release(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	filter := bson.M{"userId": userID, "held": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"held": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Settle removes a hold and debits the balance by the same amount
func (r *WalletRepository) Settle(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	filter := bson.M{"userId": userID, "held": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"balance": -amount, "held": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindAll retrieves all wallets (backup support)
func (r *WalletRepository) FindAll(ctx context.Context) ([]*models.Wallet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var wallets []*models.Wallet
	if err = cursor.All(ctx, &wallets); err != nil {
		return nil, err
	}
	if wallets == nil {
		wallets = []*models.Wallet{}
	}
	return wallets, nil
}
