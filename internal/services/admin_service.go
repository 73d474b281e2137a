package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	"github.com/ArowuTest/wagerspin-backend/internal/rng"
	"github.com/ArowuTest/wagerspin-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// RaffleEntry is one row of the raffle export: a user and their remaining
// ticket count at export time.
type RaffleEntry struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	PlatformID string `json:"platformId"`
	Tickets    int    `json:"tickets"`
}

// AdminService handles back-office operations: feature toggles, blacklist
// management, raffle export/draw and collection backups.
type AdminService struct {
	userRepo       repositories.UserRepository
	wagerRepo      repositories.WagerRepository
	spinRepo       repositories.SpinRepository
	walletRepo     repositories.WalletRepository
	withdrawalRepo repositories.WithdrawalRepository
	blackRepo      repositories.BlacklistRepository
	flagRepo       repositories.FeatureFlagRepository
	ticketUnit     float64
	backupDir      string
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repositories.UserRepository,
	wagerRepo repositories.WagerRepository,
	spinRepo repositories.SpinRepository,
	walletRepo repositories.WalletRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	blackRepo repositories.BlacklistRepository,
	flagRepo repositories.FeatureFlagRepository,
	ticketUnit float64,
	backupDir string,
) *AdminService {
	return &AdminService{
		userRepo:       userRepo,
		wagerRepo:      wagerRepo,
		spinRepo:       spinRepo,
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		blackRepo:      blackRepo,
		flagRepo:       flagRepo,
		ticketUnit:     ticketUnit,
		backupDir:      backupDir,
	}
}

// --- Feature toggles ---

// GetFeatureFlags lists all feature flags
func (s *AdminService) GetFeatureFlags(ctx context.Context) ([]*models.FeatureFlag, error) {
	return s.flagRepo.FindAll(ctx)
}

// SetFeatureFlag creates or updates a toggle
func (s *AdminService) SetFeatureFlag(ctx context.Context, key string, enabled bool, updatedBy string) error {
	if key == "" {
		return errors.New("flag key is empty")
	}
	if err := s.flagRepo.UpsertByKey(ctx, key, enabled, updatedBy); err != nil {
		return fmt.Errorf("failed to set feature flag: %w", err)
	}
	slog.Info("Feature flag updated", "key", key, "enabled", enabled, "by", updatedBy)
	return nil
}

// --- Blacklist ---

// GetBlacklist lists all blacklist entries
func (s *AdminService) GetBlacklist(ctx context.Context) ([]*models.BlacklistEntry, error) {
	return s.blackRepo.FindAll(ctx)
}

// Blacklist adds a platform account to the blacklist and flags the linked
// user if one exists
func (s *AdminService) Blacklist(ctx context.Context, platformID, reason, blacklistedBy string) error {
	platformID = utils.CleanPlatformID(platformID)
	if platformID == "" {
		return errors.New("platform ID is empty")
	}
	if err := s.blackRepo.Add(ctx, platformID, reason, blacklistedBy); err != nil {
		return fmt.Errorf("failed to add blacklist entry: %w", err)
	}

	user, err := s.userRepo.FindByPlatformID(ctx, platformID)
	if err == nil {
		if err := s.userRepo.SetBlacklisted(ctx, user.ID, true); err != nil {
			slog.Error("Blacklist: failed to flag linked user", "error", err, "userId", user.ID)
		}
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Warn("Blacklist: failed to look up linked user", "error", err)
	}

	slog.Info("Platform account blacklisted", "platformId", utils.MaskID(platformID), "by", blacklistedBy)
	return nil
}

// Unblacklist removes a platform account from the blacklist
func (s *AdminService) Unblacklist(ctx context.Context, platformID string) error {
	platformID = utils.CleanPlatformID(platformID)
	if err := s.blackRepo.Remove(ctx, platformID); err != nil {
		return fmt.Errorf("failed to remove blacklist entry: %w", err)
	}

	user, err := s.userRepo.FindByPlatformID(ctx, platformID)
	if err == nil {
		if err := s.userRepo.SetBlacklisted(ctx, user.ID, false); err != nil {
			slog.Error("Unblacklist: failed to unflag linked user", "error", err, "userId", user.ID)
		}
	}
	slog.Info("Platform account unblacklisted", "platformId", utils.MaskID(platformID))
	return nil
}

// --- Wallet audit ---

// WalletAudit compares a wallet's held amount against the sum of its
// pending withdrawals
type WalletAudit struct {
	UserID       primitive.ObjectID `json:"userId"`
	Balance      float64            `json:"balance"`
	Held         float64            `json:"held"`
	PendingTotal float64            `json:"pendingTotal"`
	Consistent   bool               `json:"consistent"`
}

// AuditWallet checks that a user's held funds match their pending
// withdrawals. The two are kept in step by conditional updates, so a
// mismatch means manual intervention is needed.
func (s *AdminService) AuditWallet(ctx context.Context, userID primitive.ObjectID) (*WalletAudit, error) {
	wallet, err := s.walletRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet not found: %w", err)
	}
	pending, err := s.withdrawalRepo.SumPendingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pending withdrawals: %w", err)
	}

	audit := &WalletAudit{
		UserID:       userID,
		Balance:      wallet.Balance,
		Held:         wallet.Held,
		PendingTotal: pending,
		Consistent:   math.Abs(wallet.Held-pending) < 1e-9,
	}
	if !audit.Consistent {
		slog.Warn("AuditWallet: held amount does not match pending withdrawals",
			"userId", userID, "held", wallet.Held, "pending", pending)
	}
	return audit, nil
}

// --- Raffle ---

// RaffleEntries builds the export: every user with a linked platform account
// and at least one remaining ticket
func (s *AdminService) RaffleEntries(ctx context.Context) ([]RaffleEntry, error) {
	// Raffle exports are small (promo-site scale); paging through users in
	// one pass is fine here.
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	users, err := s.userRepo.FindAll(ctx, 1, int(count)+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var entries []RaffleEntry
	for _, user := range users {
		if user.PlatformID == "" || user.IsBlacklisted {
			continue
		}
		record, err := s.wagerRepo.FindByPlatformID(ctx, user.PlatformID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, fmt.Errorf("failed to read wager record: %w", err)
		}
		total := int(math.Floor(record.TotalWager / s.ticketUnit))
		used, err := s.spinRepo.CountTicketSpins(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count ticket spins: %w", err)
		}
		remaining := total - int(used)
		if remaining <= 0 {
			continue
		}
		entries = append(entries, RaffleEntry{
			UserID:     user.ID.Hex(),
			Email:      user.Email,
			PlatformID: user.PlatformID,
			Tickets:    remaining,
		})
	}
	return entries, nil
}

// DrawRaffle picks count distinct winners weighted by remaining tickets
func (s *AdminService) DrawRaffle(ctx context.Context, count int) ([]RaffleEntry, error) {
	entries, err := s.RaffleEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no raffle entries")
	}

	pool := make([]rng.WeightedEntry, 0, len(entries))
	byUser := make(map[string]RaffleEntry, len(entries))
	for _, e := range entries {
		pool = append(pool, rng.WeightedEntry{Key: e.UserID, Weight: e.Tickets})
		byUser[e.UserID] = e
	}
	weighted, err := rng.BuildWeighted(pool)
	if err != nil {
		return nil, fmt.Errorf("failed to build raffle pool: %w", err)
	}
	winnerKeys, err := rng.DrawUnique(weighted, count)
	if err != nil {
		return nil, fmt.Errorf("raffle draw failed: %w", err)
	}

	winners := make([]RaffleEntry, 0, len(winnerKeys))
	for _, key := range winnerKeys {
		winners = append(winners, byUser[key])
	}
	slog.Info("Raffle drawn", "entries", len(entries), "winners", len(winners))
	return winners, nil
}

// --- Backups ---

// BackupResult summarises one backup run
type BackupResult struct {
	Path        string         `json:"path"`
	Collections map[string]int `json:"collections"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Backup dumps the core collections as JSON files under a timestamped
// directory and returns what was written
func (s *AdminService) Backup(ctx context.Context) (*BackupResult, error) {
	dir := filepath.Join(s.backupDir, time.Now().UTC().Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup dir: %w", err)
	}

	result := &BackupResult{Path: dir, Collections: map[string]int{}, CreatedAt: time.Now()}

	userCount, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	users, err := s.userRepo.FindAll(ctx, 1, int(userCount)+1)
	if err != nil {
		return nil, fmt.Errorf("failed to dump users: %w", err)
	}
	if err := writeBackupFile(dir, "users.json", users); err != nil {
		return nil, err
	}
	result.Collections["users"] = len(users)

	wallets, err := s.walletRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump wallets: %w", err)
	}
	if err := writeBackupFile(dir, "wallets.json", wallets); err != nil {
		return nil, err
	}
	result.Collections["wallets"] = len(wallets)

	withdrawals, err := s.withdrawalRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump withdrawals: %w", err)
	}
	if err := writeBackupFile(dir, "withdrawals.json", withdrawals); err != nil {
		return nil, err
	}
	result.Collections["withdrawals"] = len(withdrawals)

	wagers, err := s.wagerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump wagers: %w", err)
	}
	if err := writeBackupFile(dir, "wagers.json", wagers); err != nil {
		return nil, err
	}
	result.Collections["wagers"] = len(wagers)

	slog.Info("Backup completed", "path", dir, "collections", len(result.Collections))
	return result, nil
}

func writeBackupFile(dir, name string, data interface{}) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
