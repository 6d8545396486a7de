package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/internal/service"
)

type InsightHandler struct {
	service *service.InsightService
}

func NewInsightHandler(service *service.InsightService) *InsightHandler {
	return &InsightHandler{service: service}
}

type mineRequest struct {
	ProductID string                `json:"product_id" binding:"required"`
	Sales     []domain.SaleLogEntry `json:"sales"`
}

func (h *InsightHandler) MinePatterns(c *gin.Context) {
	var req mineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	patterns := h.service.Mine(req.ProductID, req.Sales)
	if patterns == nil {
		patterns = make([]domain.OraclePattern, 0)
	}

	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

type salesRequest struct {
	Sales []domain.SaleLogEntry `json:"sales"`
}

func (h *InsightHandler) FindCombos(c *gin.Context) {
	var req salesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	combos := h.service.Combos(req.Sales)
	if combos == nil {
		combos = make([]domain.ComboResult, 0)
	}

	c.JSON(http.StatusOK, gin.H{"combos": combos})
}

func (h *InsightHandler) FindCannibalization(c *gin.Context) {
	var req salesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	hits := h.service.Cannibalization(req.Sales)
	if hits == nil {
		hits = make([]domain.CannibalResult, 0)
	}

	c.JSON(http.StatusOK, gin.H{"cannibalization": hits})
}

// GetInsights runs all three analyzers over one dataset and returns the
// merged bundle. Results are cached by dataset digest.
func (h *InsightHandler) GetInsights(c *gin.Context) {
	var req salesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	bundle, err := h.service.Bundle(c.Request.Context(), req.Sales)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute insights", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bundle)
}
