package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// WalletService handles balances, the ledger and the withdrawal lifecycle.
//
// Pending withdrawals are holds: the wallet's held amount mirrors the sum of
// pending request amounts, so available = balance - held. The hold is taken
// with a conditional update inside the wallet repository, which closes the
// race where two concurrent requests both read the same available balance.
type WalletService struct {
	walletRepo     repositories.WalletRepository
	withdrawalRepo repositories.WithdrawalRepository
	txnRepo        repositories.WalletTransactionRepository
	userRepo       repositories.UserRepository
	blackRepo      repositories.BlacklistRepository
	flagRepo       repositories.FeatureFlagRepository
}

// NewWalletService creates a new WalletService
func NewWalletService(
	walletRepo repositories.WalletRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	txnRepo repositories.WalletTransactionRepository,
	userRepo repositories.UserRepository,
	blackRepo repositories.BlacklistRepository,
	flagRepo repositories.FeatureFlagRepository,
) *WalletService {
	return &WalletService{
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		txnRepo:        txnRepo,
		userRepo:       userRepo,
		blackRepo:      blackRepo,
		flagRepo:       flagRepo,
	}
}

// GetWallet returns the user's wallet, creating it on first access
func (s *WalletService) GetWallet(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	return s.walletRepo.EnsureWallet(ctx, userID)
}

// GetTransactions returns the user's ledger history
func (s *WalletService) GetTransactions(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.WalletTransaction, error) {
	return s.txnRepo.FindByUserID(ctx, userID, page, limit)
}

// GetWithdrawals returns the user's withdrawal requests
func (s *WalletService) GetWithdrawals(ctx context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.FindByUserID(ctx, userID)
}

// RequestWithdrawal places a hold and creates a pending withdrawal request
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID primitive.ObjectID, amount float64) (*models.Withdrawal, error) {
	if enabled, err := flagEnabled(ctx, s.flagRepo, models.FlagWithdrawals, true); err != nil {
		return nil, err
	} else if !enabled {
		return nil, ErrFeatureDisabled
	}
	if amount <= 0 {
		return nil, errors.New("withdrawal amount must be positive")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.IsBlacklisted {
		return nil, ErrBlacklisted
	}
	if user.PlatformID != "" {
		if blacklisted, err := s.blackRepo.IsBlacklisted(ctx, user.PlatformID); err != nil {
			return nil, fmt.Errorf("failed to check blacklist: %w", err)
		} else if blacklisted {
			return nil, ErrBlacklisted
		}
	}

	if _, err := s.walletRepo.EnsureWallet(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure wallet: %w", err)
	}

	held, err := s.walletRepo.Hold(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to place hold: %w", err)
	}
	if !held {
		return nil, ErrInsufficientBalance
	}

	withdrawal := &models.Withdrawal{
		UserID:    userID,
		Amount:    amount,
		Status:    models.WithdrawalStatusPending,
		Reference: uuid.NewString(),
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		// The hold is already placed; release it so funds are not stranded
		if relErr := s.walletRepo.Release(ctx, userID, amount); relErr != nil {
			slog.Error("RequestWithdrawal: failed to release hold after create failure", "error", relErr, "userId", userID)
		}
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	slog.Info("Withdrawal requested", "userId", userID, "withdrawalId", withdrawal.ID, "amount", amount)
	return withdrawal, nil
}

// ApproveWithdrawal settles a pending withdrawal: the request becomes
// approved, the balance is debited by exactly the amount, the hold is
// removed, and a ledger transaction is written.
func (s *WalletService) ApproveWithdrawal(ctx context.Context, id primitive.ObjectID, processedBy, note string) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("withdrawal not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load withdrawal: %w", err)
	}

	processed, err := s.withdrawalRepo.MarkProcessed(ctx, id, models.WithdrawalStatusApproved, processedBy, note)
	if err != nil {
		return nil, fmt.Errorf("failed to mark withdrawal approved: %w", err)
	}
	if !processed {
		return nil, ErrWithdrawalNotPending
	}

	if err := s.walletRepo.Settle(ctx, withdrawal.UserID, withdrawal.Amount); err != nil {
		slog.Error("ApproveWithdrawal: settle failed after status flip", "error", err, "withdrawalId", id)
		return nil, fmt.Errorf("failed to settle wallet: %w", err)
	}

	txn := &models.WalletTransaction{
		UserID:    withdrawal.UserID,
		Type:      models.TxnTypeWithdrawal,
		Amount:    -withdrawal.Amount,
		Reference: withdrawal.ID.Hex(),
		Note:      "withdrawal approved",
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		slog.Error("ApproveWithdrawal: failed to write ledger entry", "error", err, "withdrawalId", id)
	}

	withdrawal.Status = models.WithdrawalStatusApproved
	withdrawal.ProcessedBy = processedBy
	slog.Info("Withdrawal approved", "withdrawalId", id, "userId", withdrawal.UserID, "amount", withdrawal.Amount, "by", processedBy)
	return withdrawal, nil
}

// RejectWithdrawal releases the hold without touching the balance
func (s *WalletService) RejectWithdrawal(ctx context.Context, id primitive.ObjectID, processedBy, note string) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("withdrawal not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load withdrawal: %w", err)
	}

	processed, err := s.withdrawalRepo.MarkProcessed(ctx, id, models.WithdrawalStatusRejected, processedBy, note)
	if err != nil {
		return nil, fmt.Errorf("failed to mark withdrawal rejected: %w", err)
	}
	if !processed {
		return nil, ErrWithdrawalNotPending
	}

	if err := s.walletRepo.Release(ctx, withdrawal.UserID, withdrawal.Amount); err != nil {
		slog.Error("RejectWithdrawal: release failed after status flip", "error", err, "withdrawalId", id)
		return nil, fmt.Errorf("failed to release hold: %w", err)
	}

	withdrawal.Status = models.WithdrawalStatusRejected
	withdrawal.ProcessedBy = processedBy
	slog.Info("Withdrawal rejected", "withdrawalId", id, "userId", withdrawal.UserID, "amount", withdrawal.Amount, "by", processedBy)
	return withdrawal, nil
}

// Adjust credits or debits a wallet by an admin decision and records it in
// the ledger
func (s *WalletService) Adjust(ctx context.Context, userID primitive.ObjectID, amount float64, adjustedBy, note string) error {
	if amount == 0 {
		return errors.New("adjustment amount must be non-zero")
	}
	if _, err := s.walletRepo.EnsureWallet(ctx, userID); err != nil {
		return fmt.Errorf("failed to ensure wallet: %w", err)
	}
	if amount < 0 {
		// Debits must not cut into held funds
		held, err := s.walletRepo.Hold(ctx, userID, -amount)
		if err != nil {
			return fmt.Errorf("failed to reserve adjustment: %w", err)
		}
		if !held {
			return ErrInsufficientBalance
		}
		if err := s.walletRepo.Settle(ctx, userID, -amount); err != nil {
			return fmt.Errorf("failed to apply debit: %w", err)
		}
	} else {
		if err := s.walletRepo.Credit(ctx, userID, amount); err != nil {
			return fmt.Errorf("failed to apply credit: %w", err)
		}
	}

	txn := &models.WalletTransaction{
		UserID: userID,
		Type:   models.TxnTypeAdjustment,
		Amount: amount,
		Note:   fmt.Sprintf("admin adjustment by %s: %s", adjustedBy, note),
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		slog.Error("Adjust: failed to write ledger entry", "error", err, "userId", userID)
	}
	slog.Info("Wallet adjusted", "userId", userID, "amount", amount, "by", adjustedBy)
	return nil
}

// GetPayoutQueue returns pending withdrawals oldest-first for admin review
func (s *WalletService) GetPayoutQueue(ctx context.Context, page, limit int) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.FindByStatus(ctx, models.WithdrawalStatusPending, page, limit)
}
