package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ovenpilot/analytics/internal/domain"
)

// HistoryRepository loads the read-only collections the analytics engine
// consumes. The engine itself never touches the database; callers fetch
// here and pass the slices in.
type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// GetSaleLogs returns all sale log entries in [from, to), oldest first.
func (r *HistoryRepository) GetSaleLogs(ctx context.Context, from, to time.Time) ([]domain.SaleLogEntry, error) {
	query := `
		SELECT product_id, COALESCE(variant_id, '') AS variant_id,
		       COALESCE(product_name, '') AS product_name, market_id, sale_date,
		       quantity_sold, price_per_unit, cost_per_unit,
		       COALESCE(weather_condition, '') AS weather_condition
		FROM sale_logs
		WHERE sale_date >= $1 AND sale_date < $2
		ORDER BY sale_date ASC`

	var logs []domain.SaleLogEntry
	if err := r.db.SelectContext(ctx, &logs, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to load sale logs: %w", err)
	}
	return logs, nil
}

// GetInventoryRecords returns inventory movements in [from, to).
func (r *HistoryRepository) GetInventoryRecords(ctx context.Context, from, to time.Time) ([]domain.DailyInventoryRecord, error) {
	query := `
		SELECT business_date, product_id, COALESCE(variant_id, '') AS variant_id,
		       stock_yesterday, produced_qty, to_shop_qty, sold_qty, waste_qty, unsold_shop
		FROM daily_inventory
		WHERE business_date >= $1 AND business_date < $2
		ORDER BY business_date ASC`

	var records []domain.DailyInventoryRecord
	if err := r.db.SelectContext(ctx, &records, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to load inventory records: %w", err)
	}
	return records, nil
}

// GetForecasts returns forecast records whose target date lies in [from, to).
func (r *HistoryRepository) GetForecasts(ctx context.Context, from, to time.Time) ([]domain.ForecastRecord, error) {
	query := `
		SELECT product_id, COALESCE(variant_id, '') AS variant_id,
		       COALESCE(product_name, '') AS product_name,
		       COALESCE(market_id, '') AS market_id,
		       forecast_for_date, optimal_quantity, confidence_level
		FROM forecasts
		WHERE forecast_for_date >= $1 AND forecast_for_date < $2
		ORDER BY forecast_for_date ASC`

	var forecasts []domain.ForecastRecord
	if err := r.db.SelectContext(ctx, &forecasts, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to load forecasts: %w", err)
	}
	return forecasts, nil
}

// GetProducts returns the product catalog with variants attached.
func (r *HistoryRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products,
		`SELECT id, name, category, price, cost FROM products ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	type variantRow struct {
		ProductID string  `db:"product_id"`
		ID        string  `db:"id"`
		Name      string  `db:"name"`
		Price     float64 `db:"price"`
		Cost      float64 `db:"cost"`
	}
	var variants []variantRow
	if err := r.db.SelectContext(ctx, &variants,
		`SELECT product_id, id, name, price, cost FROM product_variants ORDER BY product_id, id`); err != nil {
		return nil, fmt.Errorf("failed to load product variants: %w", err)
	}

	byProduct := make(map[string][]domain.ProductVariant)
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], domain.ProductVariant{
			ID: v.ID, Name: v.Name, Price: v.Price, Cost: v.Cost,
		})
	}
	for i := range products {
		products[i].Variants = byProduct[products[i].ID]
	}
	return products, nil
}

// GetMarketReports returns one market's historical daily reports, oldest first.
func (r *HistoryRepository) GetMarketReports(ctx context.Context, marketID string) ([]domain.MarketDailyReport, error) {
	query := `
		SELECT market_id, report_date, revenue, net_profit, waste_cost
		FROM market_daily_reports
		WHERE market_id = $1
		ORDER BY report_date ASC`

	var reports []domain.MarketDailyReport
	if err := r.db.SelectContext(ctx, &reports, query, marketID); err != nil {
		return nil, fmt.Errorf("failed to load market reports: %w", err)
	}
	return reports, nil
}
