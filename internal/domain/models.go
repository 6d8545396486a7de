// internal/domain/models.go
package domain

import "time"

// Product represents one catalog item, optionally with sellable variants.
type Product struct {
	ID       string           `json:"id" db:"id"`
	Name     string           `json:"name" db:"name"`
	Category string           `json:"category" db:"category"`
	Price    float64          `json:"price" db:"price"`
	Cost     float64          `json:"cost" db:"cost"`
	Variants []ProductVariant `json:"variants,omitempty" db:"-"`
}

// ProductVariant is a sellable variation of a product with its own pricing.
type ProductVariant struct {
	ID    string  `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Price float64 `json:"price" db:"price"`
	Cost  float64 `json:"cost" db:"cost"`
}

// SaleLogEntry is one realized sale observation for a product (or variant)
// on a date at a market. Immutable once recorded; all analytics consume it
// read-only.
type SaleLogEntry struct {
	ProductID        string    `json:"product_id" db:"product_id"`
	VariantID        string    `json:"variant_id,omitempty" db:"variant_id"`
	ProductName      string    `json:"product_name,omitempty" db:"product_name"`
	MarketID         string    `json:"market_id" db:"market_id"`
	SaleDate         time.Time `json:"sale_date" db:"sale_date"`
	QuantitySold     int       `json:"quantity_sold" db:"quantity_sold"`
	PricePerUnit     float64   `json:"price_per_unit" db:"price_per_unit"`
	CostPerUnit      float64   `json:"cost_per_unit" db:"cost_per_unit"`
	WeatherCondition string    `json:"weather_condition,omitempty" db:"weather_condition"`
}

// DailyInventoryRecord is the ground-truth stock movement for a
// product/variant on a business date, upserted by the inventory collaborator.
type DailyInventoryRecord struct {
	BusinessDate   time.Time `json:"business_date" db:"business_date"`
	ProductID      string    `json:"product_id" db:"product_id"`
	VariantID      string    `json:"variant_id,omitempty" db:"variant_id"`
	StockYesterday int       `json:"stock_yesterday" db:"stock_yesterday"`
	ProducedQty    int       `json:"produced_qty" db:"produced_qty"`
	ToShopQty      int       `json:"to_shop_qty" db:"to_shop_qty"`
	SoldQty        int       `json:"sold_qty" db:"sold_qty"`
	WasteQty       int       `json:"waste_qty" db:"waste_qty"`
	UnsoldShop     int       `json:"unsold_shop" db:"unsold_shop"`
}

// ForecastRecord is a prediction made before a given date. Created once,
// never mutated.
type ForecastRecord struct {
	ProductID       string    `json:"product_id" db:"product_id"`
	VariantID       string    `json:"variant_id,omitempty" db:"variant_id"`
	ProductName     string    `json:"product_name,omitempty" db:"product_name"`
	MarketID        string    `json:"market_id,omitempty" db:"market_id"`
	ForecastForDate time.Time `json:"forecast_for_date" db:"forecast_for_date"`
	OptimalQuantity int       `json:"optimal_quantity" db:"optimal_quantity"`
	ConfidenceLevel int       `json:"confidence_level" db:"confidence_level"`
}

// MarketDailyReport is one market's realized daily totals, used by the
// market performance scoring.
type MarketDailyReport struct {
	MarketID   string    `json:"market_id" db:"market_id"`
	ReportDate time.Time `json:"report_date" db:"report_date"`
	Revenue    float64   `json:"revenue" db:"revenue"`
	NetProfit  float64   `json:"net_profit" db:"net_profit"`
	WasteCost  float64   `json:"waste_cost" db:"waste_cost"`
}
