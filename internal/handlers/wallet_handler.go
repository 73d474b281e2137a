package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ArowuTest/wagerspin-backend/internal/middleware"
	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet and withdrawal HTTP requests
type WalletHandler struct {
	walletService *services.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetWallet handles GET /wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":   wallet.Balance,
		"held":      wallet.Held,
		"available": wallet.Available(),
	})
}

// GetTransactions handles GET /wallet/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	txns, err := h.walletService.GetTransactions(c.Request.Context(), p.UserID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get transactions"})
		return
	}

	c.JSON(http.StatusOK, txns)
}

// Withdraw handles POST /wallet/withdrawals
func (h *WalletHandler) Withdraw(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.walletService.RequestWithdrawal(c.Request.Context(), p.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFeatureDisabled):
			c.JSON(http.StatusForbidden, gin.H{"error": "Withdrawals are currently disabled"})
		case errors.Is(err, services.ErrBlacklisted):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is not eligible"})
		case errors.Is(err, services.ErrInsufficientBalance):
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient available balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request withdrawal"})
		}
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// GetWithdrawals handles GET /wallet/withdrawals
func (h *WalletHandler) GetWithdrawals(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	withdrawals, err := h.walletService.GetWithdrawals(c.Request.Context(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get withdrawals"})
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}
