package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walletFixture struct {
	svc            *WalletService
	walletRepo     *fakeWalletRepo
	withdrawalRepo *fakeWithdrawalRepo
	txnRepo        *fakeTxnRepo
	flagRepo       *fakeFlagRepo
	user           *models.User
}

func newWalletFixture(t *testing.T, balance float64) *walletFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	walletRepo := newFakeWalletRepo()
	withdrawalRepo := newFakeWithdrawalRepo()
	txnRepo := &fakeTxnRepo{}
	blackRepo := newFakeBlacklistRepo()
	flagRepo := newFakeFlagRepo()

	user := &models.User{
		Email:      "player@example.com",
		Role:       models.RoleUser,
		PlatformID: "PLAYER_ONE",
		VerifiedAt: time.Now(),
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	if balance > 0 {
		_, err := walletRepo.EnsureWallet(context.Background(), user.ID)
		require.NoError(t, err)
		require.NoError(t, walletRepo.Credit(context.Background(), user.ID, balance))
	}

	svc := NewWalletService(walletRepo, withdrawalRepo, txnRepo, userRepo, blackRepo, flagRepo)
	return &walletFixture{
		svc:            svc,
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		txnRepo:        txnRepo,
		flagRepo:       flagRepo,
		user:           user,
	}
}

func TestWalletService_RequestWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("places a hold and creates a pending request", func(t *testing.T) {
		f := newWalletFixture(t, 100)

		withdrawal, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 40)
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalStatusPending, withdrawal.Status)
		assert.NotEmpty(t, withdrawal.Reference)

		wallet, err := f.walletRepo.FindByUserID(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, wallet.Balance, "balance is untouched until approval")
		assert.Equal(t, 40.0, wallet.Held)
		assert.Equal(t, 60.0, wallet.Available())
	})

	t.Run("held funds cannot be withdrawn again", func(t *testing.T) {
		f := newWalletFixture(t, 100)

		_, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 60)
		require.NoError(t, err)

		_, err = f.svc.RequestWithdrawal(ctx, f.user.ID, 60)
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		wallet, err := f.walletRepo.FindByUserID(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 60.0, wallet.Held, "failed request must not add a hold")
	})

	t.Run("amount over balance", func(t *testing.T) {
		f := newWalletFixture(t, 30)
		_, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 50)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		f := newWalletFixture(t, 100)
		_, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 0)
		assert.Error(t, err)
	})

	t.Run("withdrawals feature flag off", func(t *testing.T) {
		f := newWalletFixture(t, 100)
		require.NoError(t, f.flagRepo.UpsertByKey(ctx, models.FlagWithdrawals, false, "admin"))
		_, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 10)
		assert.ErrorIs(t, err, ErrFeatureDisabled)
	})
}

func TestWalletService_ApproveWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("settles the hold and debits the balance", func(t *testing.T) {
		f := newWalletFixture(t, 100)
		withdrawal, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 40)
		require.NoError(t, err)

		approved, err := f.svc.ApproveWithdrawal(ctx, withdrawal.ID, "admin@example.com", "paid via bank")
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)

		wallet, err := f.walletRepo.FindByUserID(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 60.0, wallet.Balance)
		assert.Equal(t, 0.0, wallet.Held)

		txns, err := f.txnRepo.FindByUserID(ctx, f.user.ID, 1, 10)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, models.TxnTypeWithdrawal, txns[0].Type)
		assert.Equal(t, -40.0, txns[0].Amount)
	})

	t.Run("second approval is rejected", func(t *testing.T) {
		f := newWalletFixture(t, 100)
		withdrawal, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 40)
		require.NoError(t, err)

		_, err = f.svc.ApproveWithdrawal(ctx, withdrawal.ID, "admin@example.com", "")
		require.NoError(t, err)

		_, err = f.svc.ApproveWithdrawal(ctx, withdrawal.ID, "admin@example.com", "")
		assert.ErrorIs(t, err, ErrWithdrawalNotPending)

		wallet, err := f.walletRepo.FindByUserID(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 60.0, wallet.Balance, "balance must only move once")
	})

	t.Run("approving a rejected withdrawal fails", func(t *testing.T) {
		f := newWalletFixture(t, 100)
		withdrawal, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 40)
		require.NoError(t, err)

		_, err = f.svc.RejectWithdrawal(ctx, withdrawal.ID, "admin@example.com", "suspicious")
		require.NoError(t, err)

		_, err = f.svc.ApproveWithdrawal(ctx, withdrawal.ID, "admin@example.com", "")
		assert.ErrorIs(t, err, ErrWithdrawalNotPending)
	})
}

func TestWalletService_RejectWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("releases the hold without touching the balance", func(t *testing.T) {
		f := newWalletFixture(t, 100)
		withdrawal, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 40)
		require.NoError(t, err)

		rejected, err := f.svc.RejectWithdrawal(ctx, withdrawal.ID, "admin@example.com", "kyc failed")
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalStatusRejected, rejected.Status)

		wallet, err := f.walletRepo.FindByUserID(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, wallet.Balance)
		assert.Equal(t, 0.0, wallet.Held)
		assert.Equal(t, 100.0, wallet.Available(), "rejected funds become spendable again")
	})
}

func TestWalletService_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("credit", func(t *testing.T) {
		f := newWalletFixture(t, 0)
		require.NoError(t, f.svc.Adjust(ctx, f.user.ID, 25, "admin@example.com", "goodwill"))

		wallet, err := f.walletRepo.FindByUserID(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 25.0, wallet.Balance)

		txns, err := f.txnRepo.FindByUserID(ctx, f.user.ID, 1, 10)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, models.TxnTypeAdjustment, txns[0].Type)
	})

	t.Run("debit", func(t *testing.T) {
		f := newWalletFixture(t, 50)
		require.NoError(t, f.svc.Adjust(ctx, f.user.ID, -30, "admin@example.com", "chargeback"))

		wallet, err := f.walletRepo.FindByUserID(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 20.0, wallet.Balance)
		assert.Equal(t, 0.0, wallet.Held)
	})

	t.Run("debit cannot cut into held funds", func(t *testing.T) {
		f := newWalletFixture(t, 50)
		_, err := f.svc.RequestWithdrawal(ctx, f.user.ID, 40)
		require.NoError(t, err)

		err = f.svc.Adjust(ctx, f.user.ID, -20, "admin@example.com", "chargeback")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("zero amount", func(t *testing.T) {
		f := newWalletFixture(t, 50)
		assert.Error(t, f.svc.Adjust(ctx, f.user.ID, 0, "admin@example.com", ""))
	})
}
