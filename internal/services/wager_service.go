package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ArowuTest/wagerspin-backend/internal/cache"
	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	"github.com/ArowuTest/wagerspin-backend/internal/utils"
	"github.com/ArowuTest/wagerspin-backend/pkg/sheets"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
	"time"
)

// WagerService refreshes the denormalised wager cache from the spreadsheet
// feed and answers total-wager lookups through a TTL cache.
type WagerService struct {
	wagerRepo repositories.WagerRepository
	feed      sheets.Feed
	store     cache.Store
	cacheTTL  time.Duration
}

// NewWagerService creates a new WagerService
func NewWagerService(wagerRepo repositories.WagerRepository, feed sheets.Feed, store cache.Store, cacheTTL time.Duration) *WagerService {
	return &WagerService{
		wagerRepo: wagerRepo,
		feed:      feed,
		store:     store,
		cacheTTL:  cacheTTL,
	}
}

// RefreshFromFeed pulls the spreadsheet feed and upserts one wager record
// per platform account. Rows that fail to persist are counted, not fatal.
func (s *WagerService) RefreshFromFeed(ctx context.Context) (int, error) {
	rows, err := s.feed.Fetch(ctx)
	if err != nil {
		slog.Error("RefreshFromFeed: feed fetch failed", "error", err)
		return 0, fmt.Errorf("failed to fetch wager feed: %w", err)
	}

	imported := 0
	failed := 0
	for _, row := range rows {
		record := &models.WagerRecord{
			PlatformID: utils.CleanPlatformID(row.PlatformID),
			TotalWager: row.WagerAmount,
		}
		if record.PlatformID == "" {
			continue
		}
		if err := s.wagerRepo.UpsertByPlatformID(ctx, record); err != nil {
			failed++
			slog.Warn("RefreshFromFeed: failed to upsert wager record", "error", err, "platformId", utils.MaskID(record.PlatformID))
			continue
		}
		// Refresh the cached total so spins see the new number immediately
		if err := s.store.Set(ctx, wagerCacheKey(record.PlatformID), formatWager(record.TotalWager), s.cacheTTL); err != nil {
			slog.Warn("RefreshFromFeed: failed to update cache", "error", err)
		}
		imported++
	}

	slog.Info("Wager feed refreshed", "rows", len(rows), "imported", imported, "failed", failed)
	return imported, nil
}

// TotalWager returns the cumulative wager for a platform account, reading
// through the TTL cache. Unknown accounts wager zero.
func (s *WagerService) TotalWager(ctx context.Context, platformID string) (float64, error) {
	key := wagerCacheKey(platformID)
	if cached, err := s.store.Get(ctx, key); err == nil {
		if total, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
			return total, nil
		}
	} else if !errors.Is(err, cache.ErrNotFound) {
		slog.Warn("TotalWager: cache read failed", "error", err)
	}

	record, err := s.wagerRepo.FindByPlatformID(ctx, platformID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read wager record: %w", err)
	}

	if err := s.store.Set(ctx, key, formatWager(record.TotalWager), s.cacheTTL); err != nil {
		slog.Warn("TotalWager: cache write failed", "error", err)
	}
	return record.TotalWager, nil
}

func wagerCacheKey(platformID string) string {
	return "wager:" + platformID
}

func formatWager(total float64) string {
	return strconv.FormatFloat(total, 'f', -1, 64)
}
