package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	"github.com/ArowuTest/wagerspin-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// UserService handles user profile and platform-account operations
type UserService struct {
	userRepo  repositories.UserRepository
	blackRepo repositories.BlacklistRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, blackRepo repositories.BlacklistRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		blackRepo: blackRepo,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetAllUsers retrieves users with pagination
func (s *UserService) GetAllUsers(ctx context.Context, page, limit int) ([]*models.User, error) {
	return s.userRepo.FindAll(ctx, page, limit)
}

// GetUserCount gets the total number of users
func (s *UserService) GetUserCount(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return s.userRepo.Delete(ctx, id)
}

// LinkPlatformAccount attaches a gambling-platform account to the user.
// Each platform account can be linked to at most one user, and blacklisted
// accounts cannot be linked.
func (s *UserService) LinkPlatformAccount(ctx context.Context, userID primitive.ObjectID, platformID string) (*models.User, error) {
	platformID = utils.CleanPlatformID(platformID)
	if platformID == "" {
		return nil, errors.New("platform ID is empty")
	}

	blacklisted, err := s.blackRepo.IsBlacklisted(ctx, platformID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, ErrBlacklisted
	}

	existing, err := s.userRepo.FindByPlatformID(ctx, platformID)
	if err == nil && existing.ID != userID {
		return nil, ErrPlatformIDTaken
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing link: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	user.PlatformID = platformID
	user.PlatformLinkedAt = time.Now()
	user.LastActivity = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		slog.Error("LinkPlatformAccount: failed to update user", "error", err, "userId", userID)
		return nil, fmt.Errorf("failed to link platform account: %w", err)
	}

	slog.Info("Platform account linked", "userId", userID, "platformId", utils.MaskID(platformID))
	return user, nil
}
