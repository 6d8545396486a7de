package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ovenpilot/analytics/internal/allocation"
	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/internal/forecast"
	"github.com/ovenpilot/analytics/internal/service"
)

type PlannerHandler struct {
	service *service.PlannerService
}

func NewPlannerHandler(service *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{service: service}
}

type forecastRequest struct {
	ProductID     string                     `json:"product_id" binding:"required"`
	TargetDate    string                     `json:"target_date" binding:"required"`
	Weather       string                     `json:"weather"`
	MarketID      string                     `json:"market_id"`
	History       []domain.SaleLogEntry      `json:"history"`
	MarketReports []domain.MarketDailyReport `json:"market_reports"`
}

func (h *PlannerHandler) Forecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_date must be YYYY-MM-DD", "details": err.Error()})
		return
	}

	result := h.service.Forecast(req.ProductID, targetDate, req.History, forecast.Options{
		Weather:       req.Weather,
		MarketID:      req.MarketID,
		MarketReports: req.MarketReports,
	})

	c.JSON(http.StatusOK, result)
}

type productionRequest struct {
	CurrentStock int `json:"current_stock"`
	DailyTarget  int `json:"daily_target"`
	BatchSize    int `json:"batch_size"`
}

func (h *PlannerHandler) PlanProduction(c *gin.Context) {
	var req productionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	plan, err := h.service.PlanProduction(req.CurrentStock, req.DailyTarget, req.BatchSize)
	if err != nil {
		if errors.Is(err, allocation.ErrInvalidBatchSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to plan production", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

type transferRequest struct {
	TotalAvailable int `json:"total_available"`
	ShopCapacity   int `json:"shop_capacity"`
}

func (h *PlannerHandler) PlanTransfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	plan, err := h.service.PlanTransfer(req.TotalAvailable, req.ShopCapacity)
	if err != nil {
		if errors.Is(err, allocation.ErrInvalidShopCapacity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to plan transfer", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

type reconcileRequest struct {
	Forecasts []domain.ForecastRecord       `json:"forecasts"`
	Sales     []domain.SaleLogEntry         `json:"sales"`
	Products  []domain.Product              `json:"products"`
	Inventory []domain.DailyInventoryRecord `json:"inventory"`
}

func (h *PlannerHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result := h.service.Reconcile(req.Forecasts, req.Sales, req.Products, req.Inventory)

	c.JSON(http.StatusOK, result)
}
