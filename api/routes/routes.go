package routes

import (
	"github.com/ArowuTest/wagerspin-backend/internal/config"
	"github.com/ArowuTest/wagerspin-backend/internal/handlers"
	"github.com/ArowuTest/wagerspin-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers wired in main
type Handlers struct {
	Auth   *handlers.AuthHandler
	User   *handlers.UserHandler
	Spin   *handlers.SpinHandler
	Wallet *handlers.WalletHandler
	Admin  *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers, limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		auth.Use(limiter.Middleware())
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/verify", h.Auth.Verify)
			auth.POST("/login", h.Auth.Login)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWT.Secret))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", h.User.GetMe)
			users.POST("/me/link", h.User.LinkAccount)
		}

		spins := protected.Group("/spins")
		{
			spins.POST("", limiter.Middleware(), h.Spin.Spin)
			spins.GET("", h.Spin.GetSpins)
			spins.GET("/tickets", h.Spin.GetTickets)
			spins.GET("/prizes/:tier", h.Spin.GetPrizeTable)
		}

		wallet := protected.Group("/wallet")
		{
			wallet.GET("", h.Wallet.GetWallet)
			wallet.GET("/transactions", h.Wallet.GetTransactions)
			wallet.POST("/withdrawals", h.Wallet.Withdraw)
			wallet.GET("/withdrawals", h.Wallet.GetWithdrawals)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWT.Secret), middleware.AdminRequired())
	{
		admin.GET("/users", h.User.GetAllUsers)
		admin.GET("/users/:id", h.User.GetUserByID)
		admin.DELETE("/users/:id", h.User.DeleteUser)
		admin.POST("/users/:id/adjust", h.Admin.AdjustWallet)
		admin.GET("/users/:id/wallet", h.Admin.AuditWallet)
		admin.POST("/users/:id/spins", h.Spin.GrantSpins)

		admin.GET("/withdrawals", h.Admin.GetPayoutQueue)
		admin.POST("/withdrawals/:id/approve", h.Admin.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", h.Admin.RejectWithdrawal)

		admin.PUT("/prizes/:tier", h.Spin.UpdatePrizeTable)

		admin.GET("/raffle/export", h.Admin.ExportRaffle)
		admin.POST("/raffle/draw", h.Admin.DrawRaffle)

		admin.GET("/flags", h.Admin.GetFeatureFlags)
		admin.PUT("/flags/:key", h.Admin.SetFeatureFlag)

		admin.GET("/blacklist", h.Admin.GetBlacklist)
		admin.POST("/blacklist", h.Admin.AddToBlacklist)
		admin.DELETE("/blacklist/:platformId", h.Admin.RemoveFromBlacklist)

		admin.POST("/feed/refresh", h.Admin.RefreshFeed)
		admin.POST("/backup", h.Admin.RunBackup)
	}

	return router
}
