package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ArowuTest/wagerspin-backend/internal/middleware"
	"github.com/ArowuTest/wagerspin-backend/internal/services"
	"github.com/ArowuTest/wagerspin-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminHandler handles back-office HTTP requests
type AdminHandler struct {
	adminService  *services.AdminService
	walletService *services.WalletService
	wagerService  *services.WagerService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService, walletService *services.WalletService, wagerService *services.WagerService) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		walletService: walletService,
		wagerService:  wagerService,
	}
}

// --- Payout queue ---

// GetPayoutQueue handles GET /admin/withdrawals
func (h *AdminHandler) GetPayoutQueue(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	withdrawals, err := h.walletService.GetPayoutQueue(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payout queue"})
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}

// ApproveWithdrawal handles POST /admin/withdrawals/:id/approve
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	withdrawal, err := h.walletService.ApproveWithdrawal(c.Request.Context(), id, p.Email, req.Note)
	if err != nil {
		if errors.Is(err, services.ErrWithdrawalNotPending) {
			c.JSON(http.StatusConflict, gin.H{"error": "Withdrawal has already been processed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve withdrawal"})
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}

// RejectWithdrawal handles POST /admin/withdrawals/:id/reject
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	withdrawal, err := h.walletService.RejectWithdrawal(c.Request.Context(), id, p.Email, req.Note)
	if err != nil {
		if errors.Is(err, services.ErrWithdrawalNotPending) {
			c.JSON(http.StatusConflict, gin.H{"error": "Withdrawal has already been processed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject withdrawal"})
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}

// AdjustWallet handles POST /admin/users/:id/adjust
func (h *AdminHandler) AdjustWallet(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
		Note   string  `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.walletService.Adjust(c.Request.Context(), userID, req.Amount, p.Email, req.Note); err != nil {
		if errors.Is(err, services.ErrInsufficientBalance) {
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient available balance for debit"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wallet adjusted"})
}

// AuditWallet handles GET /admin/users/:id/wallet
func (h *AdminHandler) AuditWallet(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	audit, err := h.adminService.AuditWallet(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to audit wallet"})
		return
	}

	c.JSON(http.StatusOK, audit)
}

// --- Raffle ---

// ExportRaffle handles GET /admin/raffle/export as a CSV download
func (h *AdminHandler) ExportRaffle(c *gin.Context) {
	entries, err := h.adminService.RaffleEntries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build raffle export"})
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.UserID, e.Email, e.PlatformID, strconv.Itoa(e.Tickets)})
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="raffle_entries.csv"`)
	if err := utils.WriteCSV(c.Writer, []string{"user_id", "email", "platform_id", "tickets"}, rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV"})
	}
}

// DrawRaffle handles POST /admin/raffle/draw
func (h *AdminHandler) DrawRaffle(c *gin.Context) {
	var req struct {
		Winners int `json:"winners" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	winners, err := h.adminService.DrawRaffle(c.Request.Context(), req.Winners)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Raffle draw failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"winners": winners})
}

// --- Feature flags ---

// GetFeatureFlags handles GET /admin/flags
func (h *AdminHandler) GetFeatureFlags(c *gin.Context) {
	flags, err := h.adminService.GetFeatureFlags(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feature flags"})
		return
	}

	c.JSON(http.StatusOK, flags)
}

// SetFeatureFlag handles PUT /admin/flags/:key
func (h *AdminHandler) SetFeatureFlag(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.SetFeatureFlag(c.Request.Context(), c.Param("key"), *req.Enabled, p.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set feature flag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feature flag updated"})
}

// --- Blacklist ---

// GetBlacklist handles GET /admin/blacklist
func (h *AdminHandler) GetBlacklist(c *gin.Context) {
	entries, err := h.adminService.GetBlacklist(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get blacklist"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// AddToBlacklist handles POST /admin/blacklist
func (h *AdminHandler) AddToBlacklist(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req struct {
		PlatformID string `json:"platformId" binding:"required"`
		Reason     string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.Blacklist(c.Request.Context(), req.PlatformID, req.Reason, p.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add blacklist entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Platform account blacklisted"})
}

// RemoveFromBlacklist handles DELETE /admin/blacklist/:platformId
func (h *AdminHandler) RemoveFromBlacklist(c *gin.Context) {
	if err := h.adminService.Unblacklist(c.Request.Context(), c.Param("platformId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove blacklist entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Platform account unblacklisted"})
}

// --- Operations ---

// RefreshFeed handles POST /admin/feed/refresh
func (h *AdminHandler) RefreshFeed(c *gin.Context) {
	imported, err := h.wagerService.RefreshFromFeed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feed refresh failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

// RunBackup handles POST /admin/backup
func (h *AdminHandler) RunBackup(c *gin.Context) {
	result, err := h.adminService.Backup(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
