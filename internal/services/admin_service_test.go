package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type adminFixture struct {
	svc            *AdminService
	userRepo       *fakeUserRepo
	wagerRepo      *fakeWagerRepo
	spinRepo       *fakeSpinRepo
	walletRepo     *fakeWalletRepo
	withdrawalRepo *fakeWithdrawalRepo
	blackRepo      *fakeBlacklistRepo
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	userRepo := newFakeUserRepo()
	wagerRepo := newFakeWagerRepo()
	spinRepo := &fakeSpinRepo{}
	walletRepo := newFakeWalletRepo()
	withdrawalRepo := newFakeWithdrawalRepo()
	blackRepo := newFakeBlacklistRepo()
	svc := NewAdminService(
		userRepo, wagerRepo, spinRepo,
		walletRepo, withdrawalRepo,
		blackRepo, newFakeFlagRepo(),
		1000, t.TempDir(),
	)
	return &adminFixture{
		svc: svc, userRepo: userRepo, wagerRepo: wagerRepo, spinRepo: spinRepo,
		walletRepo: walletRepo, withdrawalRepo: withdrawalRepo, blackRepo: blackRepo,
	}
}

func (f *adminFixture) addUser(t *testing.T, email, platformID string, totalWager float64) *models.User {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Email: email, Role: models.RoleUser, PlatformID: platformID}
	require.NoError(t, f.userRepo.Create(ctx, user))
	if platformID != "" && totalWager > 0 {
		require.NoError(t, f.wagerRepo.UpsertByPlatformID(ctx, &models.WagerRecord{
			PlatformID: platformID,
			TotalWager: totalWager,
		}))
	}
	return user
}

func TestAdminService_RaffleEntries(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	f.addUser(t, "a@example.com", "ALPHA", 5000)   // 5 tickets
	f.addUser(t, "b@example.com", "BETA", 900)     // 0 tickets, excluded
	f.addUser(t, "c@example.com", "", 0)           // unlinked, excluded
	spender := f.addUser(t, "d@example.com", "DELTA", 3000)

	// Two tickets already spent on spins
	for i := 0; i < 2; i++ {
		require.NoError(t, f.spinRepo.Create(ctx, &models.Spin{
			UserID: spender.ID,
			Tier:   models.TierBronze,
			Source: models.SpinSourceTicket,
		}))
	}

	entries, err := f.svc.RaffleEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byPlatform := map[string]RaffleEntry{}
	for _, e := range entries {
		byPlatform[e.PlatformID] = e
	}
	assert.Equal(t, 5, byPlatform["ALPHA"].Tickets)
	assert.Equal(t, 1, byPlatform["DELTA"].Tickets, "spent tickets reduce raffle weight")
}

func TestAdminService_RaffleEntriesExcludesBlacklisted(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	f.addUser(t, "a@example.com", "ALPHA", 5000)
	f.addUser(t, "b@example.com", "BETA", 5000)
	require.NoError(t, f.svc.Blacklist(ctx, "BETA", "abuse", "admin"))

	entries, err := f.svc.RaffleEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ALPHA", entries[0].PlatformID)
}

func TestAdminService_DrawRaffle(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	f.addUser(t, "a@example.com", "ALPHA", 5000)
	f.addUser(t, "b@example.com", "BETA", 3000)
	f.addUser(t, "c@example.com", "GAMMA", 1000)

	t.Run("winners are distinct users", func(t *testing.T) {
		winners, err := f.svc.DrawRaffle(ctx, 2)
		require.NoError(t, err)
		require.Len(t, winners, 2)
		assert.NotEqual(t, winners[0].UserID, winners[1].UserID)
	})

	t.Run("draw caps at the number of entrants", func(t *testing.T) {
		winners, err := f.svc.DrawRaffle(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, winners, 3)
	})

	t.Run("no entrants", func(t *testing.T) {
		empty := newAdminFixture(t)
		_, err := empty.svc.DrawRaffle(ctx, 1)
		assert.Error(t, err)
	})
}

func TestAdminService_BlacklistSyncsUserFlag(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)
	user := f.addUser(t, "a@example.com", "ALPHA", 0)

	require.NoError(t, f.svc.Blacklist(ctx, "alpha", "multi-accounting", "admin"))

	got, err := f.userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBlacklisted)

	listed, err := f.blackRepo.IsBlacklisted(ctx, "ALPHA")
	require.NoError(t, err)
	assert.True(t, listed, "ID is normalized before listing")

	require.NoError(t, f.svc.Unblacklist(ctx, "ALPHA"))
	got, err = f.userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsBlacklisted)
}

func TestAdminService_AuditWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("held matches pending withdrawals", func(t *testing.T) {
		f := newAdminFixture(t)
		user := f.addUser(t, "a@example.com", "ALPHA", 0)

		_, err := f.walletRepo.EnsureWallet(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, f.walletRepo.Credit(ctx, user.ID, 100))
		held, err := f.walletRepo.Hold(ctx, user.ID, 40)
		require.NoError(t, err)
		require.True(t, held)
		require.NoError(t, f.withdrawalRepo.Create(ctx, &models.Withdrawal{
			UserID: user.ID,
			Amount: 40,
			Status: models.WithdrawalStatusPending,
		}))

		audit, err := f.svc.AuditWallet(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, audit.Balance)
		assert.Equal(t, 40.0, audit.Held)
		assert.Equal(t, 40.0, audit.PendingTotal)
		assert.True(t, audit.Consistent)
	})

	t.Run("orphaned hold is flagged", func(t *testing.T) {
		f := newAdminFixture(t)
		user := f.addUser(t, "b@example.com", "BETA", 0)

		_, err := f.walletRepo.EnsureWallet(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, f.walletRepo.Credit(ctx, user.ID, 100))
		held, err := f.walletRepo.Hold(ctx, user.ID, 25)
		require.NoError(t, err)
		require.True(t, held)

		audit, err := f.svc.AuditWallet(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 25.0, audit.Held)
		assert.Equal(t, 0.0, audit.PendingTotal)
		assert.False(t, audit.Consistent)
	})

	t.Run("missing wallet", func(t *testing.T) {
		f := newAdminFixture(t)
		user := f.addUser(t, "c@example.com", "GAMMA", 0)

		_, err := f.svc.AuditWallet(ctx, user.ID)
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}

func TestAdminService_Backup(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)
	f.addUser(t, "a@example.com", "ALPHA", 5000)

	result, err := f.svc.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Collections["users"])
	assert.Equal(t, 1, result.Collections["wagers"])
	assert.DirExists(t, result.Path)
}
