package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/wagerspin-backend/internal/config"
	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	"github.com/ArowuTest/wagerspin-backend/pkg/mailer"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// AuthService handles registration, email verification and login
type AuthService struct {
	userRepo repositories.UserRepository
	flagRepo repositories.FeatureFlagRepository
	mailer   mailer.Mailer
	cfg      *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, flagRepo repositories.FeatureFlagRepository, mail mailer.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		flagRepo: flagRepo,
		mailer:   mail,
		cfg:      cfg,
	}
}

// Register creates an unverified user and emails a verification token
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if enabled, err := flagEnabled(ctx, s.flagRepo, models.FlagRegistration, true); err != nil {
		return nil, err
	} else if !enabled {
		return nil, ErrFeatureDisabled
	}

	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Error("Register: failed to check existing email", "error", err)
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:             req.Email,
		Password:          string(hashed),
		Role:              models.RoleUser,
		VerificationToken: uuid.NewString(),
		LastActivity:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		slog.Error("Register: failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verifyLink := fmt.Sprintf("%s/#/verify?token=%s", s.cfg.Server.BaseURL, user.VerificationToken)
	body := fmt.Sprintf("Welcome! Confirm your email to start spinning:\n\n%s\n\nIf you did not sign up, you can ignore this email.", verifyLink)
	if err := s.mailer.Send(user.Email, "Confirm your email", body); err != nil {
		// Registration stands; the user can request a resend
		slog.Error("Register: failed to send verification email", "error", err, "userId", user.ID)
	}

	slog.Info("User registered", "userId", user.ID)
	return user, nil
}

// Verify marks a user verified by token
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up verification token: %w", err)
	}

	user.VerifiedAt = time.Now()
	user.VerificationToken = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		slog.Error("Verify: failed to update user", "error", err, "userId", user.ID)
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}

	slog.Info("User verified", "userId", user.ID)
	return user, nil
}

// Login checks credentials and returns a signed JWT
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified() {
		return nil, ErrNotVerified
	}

	token, err := s.generateToken(user)
	if err != nil {
		slog.Error("Login: failed to sign token", "error", err, "userId", user.ID)
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	user.LastActivity = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		slog.Warn("Login: failed to update last activity", "error", err, "userId", user.ID)
	}

	user.Password = ""
	return &models.LoginResponse{Token: token, User: user}, nil
}

// generateToken signs an HS256 JWT carrying the user's ID, email and role
func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Duration(s.cfg.JWT.ExpiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

// flagEnabled reads a feature flag, falling back to a default when the flag
// has never been set
func flagEnabled(ctx context.Context, repo repositories.FeatureFlagRepository, key string, fallback bool) (bool, error) {
	flag, err := repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fallback, nil
		}
		return false, fmt.Errorf("failed to read feature flag %q: %w", key, err)
	}
	return flag.Enabled, nil
}
