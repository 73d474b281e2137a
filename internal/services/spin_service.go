package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/prizes"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// SpinService handles ticket accounting and prize draws
type SpinService struct {
	spinRepo    repositories.SpinRepository
	balanceRepo repositories.SpinBalanceRepository
	walletRepo  repositories.WalletRepository
	txnRepo     repositories.WalletTransactionRepository
	userRepo    repositories.UserRepository
	blackRepo   repositories.BlacklistRepository
	flagRepo    repositories.FeatureFlagRepository
	configRepo  repositories.SystemConfigRepository
	wagers      *WagerService
	rng         prizes.RandSource
	ticketUnit  float64
}

// NewSpinService creates a new SpinService. The random source is injected so
// draws are deterministic under test.
func NewSpinService(
	spinRepo repositories.SpinRepository,
	balanceRepo repositories.SpinBalanceRepository,
	walletRepo repositories.WalletRepository,
	txnRepo repositories.WalletTransactionRepository,
	userRepo repositories.UserRepository,
	blackRepo repositories.BlacklistRepository,
	flagRepo repositories.FeatureFlagRepository,
	configRepo repositories.SystemConfigRepository,
	wagers *WagerService,
	rng prizes.RandSource,
	ticketUnit float64,
) *SpinService {
	return &SpinService{
		spinRepo:    spinRepo,
		balanceRepo: balanceRepo,
		walletRepo:  walletRepo,
		txnRepo:     txnRepo,
		userRepo:    userRepo,
		blackRepo:   blackRepo,
		flagRepo:    flagRepo,
		configRepo:  configRepo,
		wagers:      wagers,
		rng:         rng,
		ticketUnit:  ticketUnit,
	}
}

// TicketStatus computes the user's spin eligibility:
// ticketsTotal = floor(totalWager / unit), ticketsRemaining clamped at zero.
func (s *SpinService) TicketStatus(ctx context.Context, userID primitive.ObjectID) (*models.TicketStatus, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	status := &models.TicketStatus{SpinBalances: map[string]int{}}

	if user.PlatformID != "" {
		total, err := s.wagers.TotalWager(ctx, user.PlatformID)
		if err != nil {
			return nil, err
		}
		status.TotalWager = total
		status.TicketsTotal = int(math.Floor(total / s.ticketUnit))
	}

	used, err := s.spinRepo.CountTicketSpins(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count ticket spins: %w", err)
	}
	status.TicketsUsed = int(used)

	remaining := status.TicketsTotal - status.TicketsUsed
	if remaining < 0 {
		remaining = 0
	}
	status.TicketsRemaining = remaining

	balances, err := s.balanceRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read spin balances: %w", err)
	}
	for _, b := range balances {
		status.SpinBalances[b.Tier] = b.Count
	}
	return status, nil
}

// Spin performs one prize draw for the tier. Free wager-earned tickets are
// consumed before granted/purchased spin balances (product decision); wins
// credit the wallet and write a ledger entry.
func (s *SpinService) Spin(ctx context.Context, userID primitive.ObjectID, tier string) (*models.Spin, error) {
	if enabled, err := flagEnabled(ctx, s.flagRepo, models.FlagSpins, true); err != nil {
		return nil, err
	} else if !enabled {
		return nil, ErrFeatureDisabled
	}
	if !prizes.IsKnownTier(tier) {
		return nil, ErrUnknownTier
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.PlatformID == "" {
		return nil, ErrNoPlatformLink
	}
	if user.IsBlacklisted {
		return nil, ErrBlacklisted
	}
	if blacklisted, err := s.blackRepo.IsBlacklisted(ctx, user.PlatformID); err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	} else if blacklisted {
		return nil, ErrBlacklisted
	}

	source, err := s.consumeEligibility(ctx, user, tier)
	if err != nil {
		return nil, err
	}

	table, err := s.prizeTable(ctx, tier)
	if err != nil {
		return nil, err
	}

	prize, err := prizes.Select(table, s.rng)
	if err != nil {
		return nil, fmt.Errorf("prize draw failed: %w", err)
	}

	spin := &models.Spin{
		UserID:     userID,
		Tier:       tier,
		Source:     source,
		PrizeLabel: prize.Label,
		PrizeValue: prize.Value,
		Won:        prize.IsWin(),
	}
	if err := s.spinRepo.Create(ctx, spin); err != nil {
		slog.Error("Spin: failed to record spin", "error", err, "userId", userID)
		return nil, fmt.Errorf("failed to record spin: %w", err)
	}

	if spin.Won {
		if _, err := s.walletRepo.EnsureWallet(ctx, userID); err != nil {
			slog.Error("Spin: failed to ensure wallet", "error", err, "userId", userID)
			return nil, fmt.Errorf("failed to ensure wallet: %w", err)
		}
		if err := s.walletRepo.Credit(ctx, userID, prize.Value); err != nil {
			slog.Error("Spin: failed to credit win", "error", err, "userId", userID, "amount", prize.Value)
			return nil, fmt.Errorf("failed to credit win: %w", err)
		}
		txn := &models.WalletTransaction{
			UserID:    userID,
			Type:      models.TxnTypeSpinWin,
			Amount:    prize.Value,
			Reference: spin.ID.Hex(),
			Note:      fmt.Sprintf("%s spin: %s", tier, prize.Label),
		}
		if err := s.txnRepo.Create(ctx, txn); err != nil {
			// Balance moved; a missing ledger row is logged, not fatal
			slog.Error("Spin: failed to write ledger entry", "error", err, "userId", userID)
		}
	}

	slog.Info("Spin executed", "userId", userID, "tier", tier, "source", source, "prize", prize.Label, "won", spin.Won)
	return spin, nil
}

// consumeEligibility spends a free ticket if one remains, otherwise a
// granted spin balance for the tier
func (s *SpinService) consumeEligibility(ctx context.Context, user *models.User, tier string) (string, error) {
	total, err := s.wagers.TotalWager(ctx, user.PlatformID)
	if err != nil {
		return "", err
	}
	ticketsTotal := int(math.Floor(total / s.ticketUnit))

	used, err := s.spinRepo.CountTicketSpins(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to count ticket spins: %w", err)
	}

	if ticketsTotal-int(used) > 0 {
		return models.SpinSourceTicket, nil
	}

	consumed, err := s.balanceRepo.Consume(ctx, user.ID, tier)
	if err != nil {
		return "", fmt.Errorf("failed to consume spin balance: %w", err)
	}
	if !consumed {
		return "", ErrNoSpinsAvailable
	}
	return models.SpinSourceBalance, nil
}

// prizeTable loads the tier's table from system config, falling back to the
// compiled-in default. Stored tables are re-validated on read.
func (s *SpinService) prizeTable(ctx context.Context, tier string) (prizes.Table, error) {
	cfg, err := s.configRepo.FindByKey(ctx, prizeTableKey(tier))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return prizes.DefaultTables[tier], nil
		}
		return nil, fmt.Errorf("failed to read prize table config: %w", err)
	}

	table, err := decodePrizeTable(cfg.Value)
	if err != nil {
		slog.Error("prizeTable: stored table is invalid, using default", "error", err, "tier", tier)
		return prizes.DefaultTables[tier], nil
	}
	return table, nil
}

// UpdatePrizeTable validates and stores a replacement table for the tier
func (s *SpinService) UpdatePrizeTable(ctx context.Context, tier string, table prizes.Table) error {
	if !prizes.IsKnownTier(tier) {
		return ErrUnknownTier
	}
	if err := prizes.Validate(table); err != nil {
		return err
	}

	value := make(primitive.A, 0, len(table))
	for _, p := range table {
		value = append(value, primitive.M{
			"label":       p.Label,
			"value":       p.Value,
			"color":       p.Color,
			"probability": p.Probability,
		})
	}
	description := fmt.Sprintf("Prize table for %s spins", tier)
	if err := s.configRepo.UpsertByKey(ctx, prizeTableKey(tier), value, description); err != nil {
		return fmt.Errorf("failed to store prize table: %w", err)
	}
	slog.Info("Prize table updated", "tier", tier, "entries", len(table))
	return nil
}

// GetPrizeTable returns the active table for a tier
func (s *SpinService) GetPrizeTable(ctx context.Context, tier string) (prizes.Table, error) {
	if !prizes.IsKnownTier(tier) {
		return nil, ErrUnknownTier
	}
	return s.prizeTable(ctx, tier)
}

// GetSpins returns a user's spin history
func (s *SpinService) GetSpins(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Spin, error) {
	return s.spinRepo.FindByUserID(ctx, userID, page, limit)
}

// GrantSpins adds granted spins onto a user's per-tier balance
func (s *SpinService) GrantSpins(ctx context.Context, userID primitive.ObjectID, tier string, count int) error {
	if !prizes.IsKnownTier(tier) {
		return ErrUnknownTier
	}
	if count <= 0 {
		return errors.New("grant count must be positive")
	}
	return s.balanceRepo.Grant(ctx, userID, tier, count)
}

// ValidateTables checks every active prize table; called at startup so a bad
// stored table is caught before it can break draws.
func (s *SpinService) ValidateTables(ctx context.Context) error {
	for _, tier := range prizes.Tiers {
		table, err := s.prizeTable(ctx, tier)
		if err != nil {
			return err
		}
		if err := prizes.Validate(table); err != nil {
			return fmt.Errorf("tier %s: %w", tier, err)
		}
	}
	return nil
}

func prizeTableKey(tier string) string {
	return "prize_table_" + tier
}

// decodePrizeTable converts a stored BSON array back into a Table and
// validates it
func decodePrizeTable(value interface{}) (prizes.Table, error) {
	raw, ok := value.(primitive.A)
	if !ok {
		return nil, fmt.Errorf("expected BSON array, got %T", value)
	}

	var table prizes.Table
	for _, item := range raw {
		// The driver decodes interface{} documents as primitive.D;
		// tables written in-process arrive as primitive.M
		var entry primitive.M
		switch doc := item.(type) {
		case primitive.M:
			entry = doc
		case primitive.D:
			entry = doc.Map()
		default:
			return nil, fmt.Errorf("expected BSON document, got %T", item)
		}
		label, _ := entry["label"].(string)
		color, _ := entry["color"].(string)
		table = append(table, prizes.Prize{
			Label:       label,
			Color:       color,
			Value:       toFloat(entry["value"]),
			Probability: toFloat(entry["probability"]),
		})
	}
	if err := prizes.Validate(table); err != nil {
		return nil, err
	}
	return table, nil
}

// toFloat normalises the numeric types the Mongo driver may decode into
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
