package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ArowuTest/wagerspin-backend/internal/middleware"
	"github.com/ArowuTest/wagerspin-backend/internal/models"
	"github.com/ArowuTest/wagerspin-backend/internal/prizes"
	"github.com/ArowuTest/wagerspin-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpinHandler handles spin and ticket related HTTP requests
type SpinHandler struct {
	spinService *services.SpinService
}

// NewSpinHandler creates a new SpinHandler
func NewSpinHandler(spinService *services.SpinService) *SpinHandler {
	return &SpinHandler{spinService: spinService}
}

// Spin handles POST /spins
func (h *SpinHandler) Spin(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spin, err := h.spinService.Spin(c.Request.Context(), p.UserID, req.Tier)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFeatureDisabled):
			c.JSON(http.StatusForbidden, gin.H{"error": "Spins are currently disabled"})
		case errors.Is(err, services.ErrUnknownTier):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown spin tier"})
		case errors.Is(err, services.ErrNoPlatformLink):
			c.JSON(http.StatusForbidden, gin.H{"error": "No platform account linked"})
		case errors.Is(err, services.ErrBlacklisted):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is not eligible"})
		case errors.Is(err, services.ErrNoSpinsAvailable):
			c.JSON(http.StatusConflict, gin.H{"error": "No spins available for this tier"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to spin"})
		}
		return
	}

	c.JSON(http.StatusOK, spin)
}

// GetSpins handles GET /spins
func (h *SpinHandler) GetSpins(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	spins, err := h.spinService.GetSpins(c.Request.Context(), p.UserID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get spin history"})
		return
	}

	c.JSON(http.StatusOK, spins)
}

// GetTickets handles GET /spins/tickets
func (h *SpinHandler) GetTickets(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	status, err := h.spinService.TicketStatus(c.Request.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNoPlatformLink) {
			c.JSON(http.StatusForbidden, gin.H{"error": "No platform account linked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ticket status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetPrizeTable handles GET /spins/prizes/:tier
func (h *SpinHandler) GetPrizeTable(c *gin.Context) {
	table, err := h.spinService.GetPrizeTable(c.Request.Context(), c.Param("tier"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownTier) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown spin tier"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get prize table"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tier": c.Param("tier"), "prizes": table})
}

// UpdatePrizeTable handles PUT /admin/prizes/:tier
func (h *SpinHandler) UpdatePrizeTable(c *gin.Context) {
	var table prizes.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.spinService.UpdatePrizeTable(c.Request.Context(), c.Param("tier"), table); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownTier):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown spin tier"})
		case errors.Is(err, prizes.ErrBadProbabilitySum), errors.Is(err, prizes.ErrEmptyTable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prize table"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prize table updated"})
}

// GrantSpins handles POST /admin/users/:id/spins
func (h *SpinHandler) GrantSpins(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req struct {
		Tier  string `json:"tier" binding:"required"`
		Count int    `json:"count" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.spinService.GrantSpins(c.Request.Context(), userID, req.Tier, req.Count); err != nil {
		if errors.Is(err, services.ErrUnknownTier) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown spin tier"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant spins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Spins granted"})
}
