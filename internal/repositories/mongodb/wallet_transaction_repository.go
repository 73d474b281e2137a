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

// Compile-time check
var _ repositories.WalletTransactionRepository = (*WalletTransactionRepository)(nil)

// WalletTransactionRepository handles MongoDB operations for ledger entries
type WalletTransactionRepository struct {
	collection *mongo.Collection
}

// NewWalletTransactionRepository creates a new WalletTransactionRepository
func NewWalletTransactionRepository(db *mongo.Database) *WalletTransactionRepository {
	return &WalletTransactionRepository{
		collection: db.Collection("wallet_transactions"),
	}
}

// Create inserts a new ledger entry
func (r *WalletTransactionRepository) Create(ctx context.Context, txn *models.WalletTransaction) error {
	txn.ID = primitive.NewObjectID()
	txn.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, txn)
	return err
}

// FindByUserID retrieves ledger entries for a user, newest first
func (r *WalletTransactionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.WalletTransaction, error) {
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

	var txns []*models.WalletTransaction
	if err = cursor.All(ctx, &txns); err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []*models.WalletTransaction{}
	}
	return txns, nil
}
