package allocation

import (
	"errors"
	"math"
)

// ProductionStatus reports whether production is needed to hit the daily target.
type ProductionStatus string

const (
	StatusStockSufficient  ProductionStatus = "stock_sufficient"
	StatusProductionNeeded ProductionStatus = "production_needed"
)

var (
	// ErrInvalidBatchSize is returned when batch size is zero or negative.
	ErrInvalidBatchSize = errors.New("allocation: batch size must be positive")
	// ErrInvalidShopCapacity is returned when shop capacity is negative.
	ErrInvalidShopCapacity = errors.New("allocation: shop capacity must not be negative")
)

// ProductionPlan holds the batch math for one product's daily production.
type ProductionPlan struct {
	BatchesToBake  int              `json:"batches_to_bake"`
	ProducedQty    int              `json:"produced_qty"`
	TotalAvailable int              `json:"total_available"`
	Shortfall      int              `json:"shortfall"`
	Surplus        int              `json:"surplus"`
	Status         ProductionStatus `json:"status"`
}

// TransferPlan splits available stock between the shop and storage.
type TransferPlan struct {
	TransferQty int  `json:"transfer_qty"`
	KeepAtHome  int  `json:"keep_at_home"`
	ShopFull    bool `json:"shop_full"`
}

// PlanDailyProduction computes how many production batches to run so that
// current stock plus production covers the daily target. Batches are always
// rounded up; under-producing against the target is not allowed.
func PlanDailyProduction(currentStock, dailyTarget, batchSize int) (ProductionPlan, error) {
	if batchSize <= 0 {
		return ProductionPlan{}, ErrInvalidBatchSize
	}

	plan := ProductionPlan{}

	// 1. Shortfall against the target given what is already on hand
	shortfall := dailyTarget - currentStock
	plan.Shortfall = shortfall

	if shortfall <= 0 {
		plan.TotalAvailable = currentStock
		plan.Surplus = currentStock - dailyTarget
		plan.Status = StatusStockSufficient
		return plan, nil
	}

	// 2. Round batches up so total never falls below the target
	plan.BatchesToBake = int(math.Ceil(float64(shortfall) / float64(batchSize)))
	plan.ProducedQty = plan.BatchesToBake * batchSize
	plan.TotalAvailable = currentStock + plan.ProducedQty
	plan.Surplus = plan.TotalAvailable - dailyTarget
	plan.Status = StatusProductionNeeded

	return plan, nil
}

// PlanStockTransfer splits available stock between the shop and home
// storage, capped by the shop's display capacity.
func PlanStockTransfer(totalAvailable, shopCapacity int) (TransferPlan, error) {
	if shopCapacity < 0 {
		return TransferPlan{}, ErrInvalidShopCapacity
	}

	transfer := totalAvailable
	if transfer > shopCapacity {
		transfer = shopCapacity
	}

	return TransferPlan{
		TransferQty: transfer,
		KeepAtHome:  totalAvailable - transfer,
		ShopFull:    transfer >= shopCapacity,
	}, nil
}
