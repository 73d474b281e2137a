package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/wagerspin-backend/api/routes"
	"github.com/ArowuTest/wagerspin-backend/internal/cache"
	"github.com/ArowuTest/wagerspin-backend/internal/config"
	"github.com/ArowuTest/wagerspin-backend/internal/handlers"
	"github.com/ArowuTest/wagerspin-backend/internal/middleware"
	"github.com/ArowuTest/wagerspin-backend/internal/repositories"
	mongorepo "github.com/ArowuTest/wagerspin-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/wagerspin-backend/internal/scheduler"
	"github.com/ArowuTest/wagerspin-backend/internal/services"
	"github.com/ArowuTest/wagerspin-backend/pkg/mailer"
	"github.com/ArowuTest/wagerspin-backend/pkg/mongodb"
	"github.com/ArowuTest/wagerspin-backend/pkg/sheets"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments configure via the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.LogLevel)

	// MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	// Cache: Redis when configured, in-process TTL cache otherwise
	var store cache.Store
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		store = cache.NewMemoryStore()
	}

	// Wager feed
	var feed sheets.Feed
	if cfg.Feed.MockFeed {
		feed = sheets.NewMockFeed()
	} else {
		feed = sheets.NewClient(cfg.Feed.URL)
	}

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var walletRepo repositories.WalletRepository = mongorepo.NewWalletRepository(db)
	var txnRepo repositories.WalletTransactionRepository = mongorepo.NewWalletTransactionRepository(db)
	var withdrawalRepo repositories.WithdrawalRepository = mongorepo.NewWithdrawalRepository(db)
	var spinRepo repositories.SpinRepository = mongorepo.NewSpinRepository(db)
	var balanceRepo repositories.SpinBalanceRepository = mongorepo.NewSpinBalanceRepository(db)
	var wagerRepo repositories.WagerRepository = mongorepo.NewWagerRepository(db)
	var blackRepo repositories.BlacklistRepository = mongorepo.NewBlacklistRepository(db)
	var flagRepo repositories.FeatureFlagRepository = mongorepo.NewFeatureFlagRepository(db)
	var configRepo repositories.SystemConfigRepository = mongorepo.NewSystemConfigRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, flagRepo, mailer.New(cfg), cfg)
	userService := services.NewUserService(userRepo, blackRepo)
	wagerService := services.NewWagerService(wagerRepo, feed, store, time.Duration(cfg.Feed.CacheTTL)*time.Second)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	spinService := services.NewSpinService(spinRepo, balanceRepo, walletRepo, txnRepo, userRepo, blackRepo, flagRepo, configRepo, wagerService, rng, cfg.Spin.TicketUnit)
	walletService := services.NewWalletService(walletRepo, withdrawalRepo, txnRepo, userRepo, blackRepo, flagRepo)
	adminService := services.NewAdminService(userRepo, wagerRepo, spinRepo, walletRepo, withdrawalRepo, blackRepo, flagRepo, cfg.Spin.TicketUnit, cfg.Backup.Dir)

	// Any admin-overridden prize table must still sum to 100 before we serve spins
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if err := spinService.ValidateTables(startupCtx); err != nil {
		cancelStartup()
		log.Fatalf("Prize table validation failed: %v", err)
	}
	cancelStartup()

	// Scheduler: feed polling and nightly backups
	sched := scheduler.New(wagerService, adminService)
	if err := sched.Start(cfg.Feed.PollSchedule, cfg.Backup.Schedule); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Rate limiting on the auth and spin endpoints
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(stopCleanup)
	defer close(stopCleanup)

	// Handlers
	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		User:   handlers.NewUserHandler(userService),
		Spin:   handlers.NewSpinHandler(spinService),
		Wallet: handlers.NewWalletHandler(walletService),
		Admin:  handlers.NewAdminHandler(adminService, walletService, wagerService),
	}

	router := routes.SetupRouter(cfg, h, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
