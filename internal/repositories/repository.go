package repositories

import (
	"context"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPlatformID(ctx context.Context, platformID string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context, page, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	SetBlacklisted(ctx context.Context, id primitive.ObjectID, blacklisted bool) error
}

// WalletRepository defines the interface for wallet and ledger operations.
// Hold/Release/Settle are conditional single-document updates so that two
// concurrent withdrawal requests cannot both pass the available-balance check.
type WalletRepository interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)
	EnsureWallet(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)
	Credit(ctx context.Context, userID primitive.ObjectID, amount float64) error
	// Hold increments the held amount iff balance - held >= amount.
	// Returns false when the available balance is insufficient.
	Hold(ctx context.Context, userID primitive.ObjectID, amount float64) (bool, error)
	// Release removes a hold without touching the balance (withdrawal rejected)
	Release(ctx context.Context, userID primitive.ObjectID, amount float64) error
	// Settle removes a hold and debits the balance by the same amount
	// (withdrawal approved)
	Settle(ctx context.Context, userID primitive.ObjectID, amount float64) error
	FindAll(ctx context.Context) ([]*models.Wallet, error)
}

// WalletTransactionRepository defines the interface for ledger entries
type WalletTransactionRepository interface {
	Create(ctx context.Context, txn *models.WalletTransaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.WalletTransaction, error)
}

// WithdrawalRepository defines the interface for withdrawal requests
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error)
	FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error)
	// MarkProcessed flips a pending withdrawal to a terminal status.
	// Returns false when the withdrawal was not pending (already processed).
	MarkProcessed(ctx context.Context, id primitive.ObjectID, status, processedBy, note string) (bool, error)
	SumPendingByUserID(ctx context.Context, userID primitive.ObjectID) (float64, error)
	FindAll(ctx context.Context) ([]*models.Withdrawal, error)
}

// SpinRepository defines the interface for spin history
type SpinRepository interface {
	Create(ctx context.Context, spin *models.Spin) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Spin, error)
	// CountTicketSpins counts spins that consumed a free ticket (non-bonus)
	CountTicketSpins(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// SpinBalanceRepository defines the interface for granted/purchased spin balances
type SpinBalanceRepository interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.SpinBalance, error)
	Grant(ctx context.Context, userID primitive.ObjectID, tier string, count int) error
	// Consume decrements the balance for the tier iff count > 0.
	// Returns false when no balance is available.
	Consume(ctx context.Context, userID primitive.ObjectID, tier string) (bool, error)
}

// WagerRepository defines the interface for imported wager feed records
type WagerRepository interface {
	UpsertByPlatformID(ctx context.Context, record *models.WagerRecord) error
	FindByPlatformID(ctx context.Context, platformID string) (*models.WagerRecord, error)
	FindAll(ctx context.Context) ([]*models.WagerRecord, error)
	FindImportedSince(ctx context.Context, since time.Time) ([]*models.WagerRecord, error)
}

// BlacklistRepository defines the interface for blacklist operations
type BlacklistRepository interface {
	IsBlacklisted(ctx context.Context, platformID string) (bool, error)
	Add(ctx context.Context, platformID, reason, blacklistedBy string) error
	Remove(ctx context.Context, platformID string) error
	FindAll(ctx context.Context) ([]*models.BlacklistEntry, error)
}

// FeatureFlagRepository defines the interface for feature toggle operations
type FeatureFlagRepository interface {
	FindByKey(ctx context.Context, key string) (*models.FeatureFlag, error)
	UpsertByKey(ctx context.Context, key string, enabled bool, updatedBy string) error
	FindAll(ctx context.Context) ([]*models.FeatureFlag, error)
}

// SystemConfigRepository defines the interface for system configuration
// operations (prize tables, ticket unit overrides)
type SystemConfigRepository interface {
	FindByKey(ctx context.Context, key string) (*models.SystemConfig, error)
	UpsertByKey(ctx context.Context, key string, value interface{}, description string) error
	FindAll(ctx context.Context) ([]*models.SystemConfig, error)
}
