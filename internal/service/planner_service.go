package service

import (
	"time"

	"github.com/ovenpilot/analytics/internal/accuracy"
	"github.com/ovenpilot/analytics/internal/allocation"
	"github.com/ovenpilot/analytics/internal/config"
	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/internal/forecast"
)

// PlannerService fronts the planning side of the engine: demand forecasts,
// production and transfer allocation, and forecast-vs-actual reconciliation.
type PlannerService struct {
	engine config.EngineConfig
}

func NewPlannerService(engine config.EngineConfig) *PlannerService {
	return &PlannerService{engine: engine}
}

func (s *PlannerService) Forecast(productID string, targetDate time.Time, history []domain.SaleLogEntry, opts forecast.Options) domain.ForecastResult {
	return forecast.Generate(productID, targetDate, history, opts)
}

// PlanProduction falls back to the configured batch size when the caller
// passes zero.
func (s *PlannerService) PlanProduction(currentStock, dailyTarget, batchSize int) (allocation.ProductionPlan, error) {
	if batchSize == 0 {
		batchSize = s.engine.DefaultBatchSize
	}
	return allocation.PlanDailyProduction(currentStock, dailyTarget, batchSize)
}

// PlanTransfer falls back to the configured shop capacity when the caller
// passes zero.
func (s *PlannerService) PlanTransfer(totalAvailable, shopCapacity int) (allocation.TransferPlan, error) {
	if shopCapacity == 0 {
		shopCapacity = s.engine.DefaultShopCapacity
	}
	return allocation.PlanStockTransfer(totalAvailable, shopCapacity)
}

func (s *PlannerService) Reconcile(forecasts []domain.ForecastRecord, sales []domain.SaleLogEntry, products []domain.Product, inventory []domain.DailyInventoryRecord) domain.ReconciliationResult {
	return accuracy.Reconcile(forecasts, sales, products, inventory)
}
