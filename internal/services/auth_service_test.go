package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/wagerspin-backend/internal/config"
	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMailer captures sent mail for assertions
type recordingMailer struct {
	to       []string
	subjects []string
}

func (m *recordingMailer) Send(to, subject, _ string) error {
	m.to = append(m.to, to)
	m.subjects = append(m.subjects, subject)
	return nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeFlagRepo, *recordingMailer) {
	userRepo := newFakeUserRepo()
	flagRepo := newFakeFlagRepo()
	mail := &recordingMailer{}
	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:3000"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return NewAuthService(userRepo, flagRepo, mail, cfg), userRepo, flagRepo, mail
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an unverified user and sends a token", func(t *testing.T) {
		svc, _, _, mail := newAuthFixture()

		user, err := svc.Register(ctx, &models.RegisterRequest{Email: "new@example.com", Password: "hunter2hunter2"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.False(t, user.IsVerified())
		assert.NotEmpty(t, user.VerificationToken)
		assert.NotEqual(t, "hunter2hunter2", user.Password, "password must be hashed")

		require.Len(t, mail.to, 1)
		assert.Equal(t, "new@example.com", mail.to[0])
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		_, err := svc.Register(ctx, &models.RegisterRequest{Email: "dup@example.com", Password: "hunter2hunter2"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, &models.RegisterRequest{Email: "dup@example.com", Password: "otherpassword"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("registration flag off", func(t *testing.T) {
		svc, _, flagRepo, _ := newAuthFixture()
		require.NoError(t, flagRepo.UpsertByKey(ctx, models.FlagRegistration, false, "admin"))

		_, err := svc.Register(ctx, &models.RegisterRequest{Email: "late@example.com", Password: "hunter2hunter2"})
		assert.ErrorIs(t, err, ErrFeatureDisabled)
	})
}

func TestAuthService_VerifyAndLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("full flow", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()

		user, err := svc.Register(ctx, &models.RegisterRequest{Email: "flow@example.com", Password: "hunter2hunter2"})
		require.NoError(t, err)

		// Unverified users cannot log in
		_, err = svc.Login(ctx, &models.LoginRequest{Email: "flow@example.com", Password: "hunter2hunter2"})
		assert.ErrorIs(t, err, ErrNotVerified)

		verified, err := svc.Verify(ctx, user.VerificationToken)
		require.NoError(t, err)
		assert.True(t, verified.IsVerified())
		assert.Empty(t, verified.VerificationToken, "token must be single use")

		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "flow@example.com", Password: "hunter2hunter2"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Empty(t, resp.User.Password)

		// The token carries the identity claims the middleware expects
		token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, user.ID.Hex(), claims["sub"])
		assert.Equal(t, "flow@example.com", claims["email"])
		assert.Equal(t, models.RoleUser, claims["role"])
	})

	t.Run("unknown verification token", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		_, err := svc.Verify(ctx, "nope")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		user, err := svc.Register(ctx, &models.RegisterRequest{Email: "pw@example.com", Password: "hunter2hunter2"})
		require.NoError(t, err)
		_, err = svc.Verify(ctx, user.VerificationToken)
		require.NoError(t, err)

		_, err = svc.Login(ctx, &models.LoginRequest{Email: "pw@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		_, err := svc.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_LinkPlatformAccount(t *testing.T) {
	ctx := context.Background()

	newFixture := func(t *testing.T) (*UserService, *fakeUserRepo, *fakeBlacklistRepo, *models.User) {
		t.Helper()
		userRepo := newFakeUserRepo()
		blackRepo := newFakeBlacklistRepo()
		user := &models.User{Email: "link@example.com", Role: models.RoleUser}
		require.NoError(t, userRepo.Create(ctx, user))
		return NewUserService(userRepo, blackRepo), userRepo, blackRepo, user
	}

	t.Run("links and normalizes the ID", func(t *testing.T) {
		svc, _, _, user := newFixture(t)
		linked, err := svc.LinkPlatformAccount(ctx, user.ID, "  player_one ")
		require.NoError(t, err)
		assert.Equal(t, "PLAYER_ONE", linked.PlatformID)
		assert.False(t, linked.PlatformLinkedAt.IsZero())
	})

	t.Run("relinking the same account is idempotent", func(t *testing.T) {
		svc, _, _, user := newFixture(t)
		_, err := svc.LinkPlatformAccount(ctx, user.ID, "PLAYER_ONE")
		require.NoError(t, err)
		_, err = svc.LinkPlatformAccount(ctx, user.ID, "player_one")
		assert.NoError(t, err)
	})

	t.Run("account already linked to another user", func(t *testing.T) {
		svc, userRepo, _, user := newFixture(t)
		other := &models.User{Email: "other@example.com", PlatformID: "PLAYER_ONE"}
		require.NoError(t, userRepo.Create(ctx, other))

		_, err := svc.LinkPlatformAccount(ctx, user.ID, "PLAYER_ONE")
		assert.ErrorIs(t, err, ErrPlatformIDTaken)
	})

	t.Run("blacklisted account cannot be linked", func(t *testing.T) {
		svc, _, blackRepo, user := newFixture(t)
		require.NoError(t, blackRepo.Add(ctx, "PLAYER_ONE", "abuse", "admin"))

		_, err := svc.LinkPlatformAccount(ctx, user.ID, "player_one")
		assert.ErrorIs(t, err, ErrBlacklisted)
	})
}
