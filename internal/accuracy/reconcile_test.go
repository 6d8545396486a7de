package accuracy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenpilot/analytics/internal/domain"
)

var (
	day1 = time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC) // Monday
	day2 = time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC) // Tuesday

	catalog = []domain.Product{
		{ID: "croissant", Name: "Croissant", Price: 4, Cost: 1},
		{ID: "baguette", Name: "Baguette", Price: 5, Cost: 2},
	}
)

func forecastFor(productID string, date time.Time, qty int) domain.ForecastRecord {
	return domain.ForecastRecord{
		ProductID:       productID,
		ProductName:     productID,
		MarketID:        "downtown",
		ForecastForDate: date,
		OptimalQuantity: qty,
		ConfidenceLevel: 80,
	}
}

func TestReconcileSalesOnly(t *testing.T) {
	forecasts := []domain.ForecastRecord{forecastFor("croissant", day1, 20)}
	sales := []domain.SaleLogEntry{
		{ProductID: "croissant", SaleDate: day1, QuantitySold: 15},
	}

	result := Reconcile(forecasts, sales, catalog, nil)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, 15, rec.ActualQty)
	assert.Equal(t, 5, rec.Diff)
	assert.Equal(t, 5, rec.Waste)
	assert.Equal(t, 0, rec.Stockout)
	assert.Equal(t, 5.0, rec.WasteCost) // 5 units * cost 1
	assert.Equal(t, domain.ComparisonWaste, rec.Status)
	assert.InDelta(t, 66.67, rec.Accuracy, 0.01)
}

func TestReconcileUnderForecastIsStockout(t *testing.T) {
	forecasts := []domain.ForecastRecord{forecastFor("croissant", day1, 10)}
	sales := []domain.SaleLogEntry{
		{ProductID: "croissant", SaleDate: day1, QuantitySold: 16},
	}

	result := Reconcile(forecasts, sales, catalog, nil)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, 6, rec.Stockout)
	assert.Equal(t, 0, rec.Waste)
	assert.Equal(t, 18.0, rec.StockoutRevenue) // 6 * (4 - 1) margin
	assert.Equal(t, domain.ComparisonStockout, rec.Status)
}

func TestReconcileInventoryGroundTruth(t *testing.T) {
	t.Run("unsold stock rules out stockout", func(t *testing.T) {
		forecasts := []domain.ForecastRecord{forecastFor("croissant", day1, 30)}
		inventory := []domain.DailyInventoryRecord{
			{BusinessDate: day1, ProductID: "croissant", ToShopQty: 25, SoldQty: 20, UnsoldShop: 5},
		}

		result := Reconcile(forecasts, nil, catalog, inventory)
		require.Len(t, result.Records, 1)

		rec := result.Records[0]
		assert.Equal(t, 20, rec.ActualQty) // inventory sold qty, no sales log
		assert.Equal(t, 5, rec.Waste)
		assert.Equal(t, 0, rec.Stockout)
		assert.Equal(t, domain.ComparisonWaste, rec.Status)
	})

	t.Run("sold out shelf reports stockout", func(t *testing.T) {
		forecasts := []domain.ForecastRecord{forecastFor("croissant", day1, 30)}
		inventory := []domain.DailyInventoryRecord{
			{BusinessDate: day1, ProductID: "croissant", ToShopQty: 25, SoldQty: 25, UnsoldShop: 0},
		}

		result := Reconcile(forecasts, nil, catalog, inventory)
		require.Len(t, result.Records, 1)

		rec := result.Records[0]
		assert.Equal(t, 5, rec.Stockout)
		assert.Equal(t, 0, rec.Waste)
		assert.Equal(t, domain.ComparisonStockout, rec.Status)
	})

	t.Run("sales log quantity preferred over inventory", func(t *testing.T) {
		forecasts := []domain.ForecastRecord{forecastFor("croissant", day1, 30)}
		sales := []domain.SaleLogEntry{
			{ProductID: "croissant", SaleDate: day1, QuantitySold: 28},
		}
		inventory := []domain.DailyInventoryRecord{
			{BusinessDate: day1, ProductID: "croissant", ToShopQty: 30, SoldQty: 27, UnsoldShop: 0},
		}

		result := Reconcile(forecasts, sales, catalog, inventory)
		require.Len(t, result.Records, 1)
		assert.Equal(t, 28, result.Records[0].ActualQty)
	})

	t.Run("nothing sent to shop and no sales is skipped", func(t *testing.T) {
		forecasts := []domain.ForecastRecord{forecastFor("croissant", day1, 30)}
		inventory := []domain.DailyInventoryRecord{
			{BusinessDate: day1, ProductID: "croissant", ToShopQty: 0, SoldQty: 0, UnsoldShop: 0},
		}

		result := Reconcile(forecasts, nil, catalog, inventory)
		assert.Empty(t, result.Records)
	})
}

func TestReconcilePendingWithoutAnyData(t *testing.T) {
	forecasts := []domain.ForecastRecord{forecastFor("croissant", day1, 30)}

	result := Reconcile(forecasts, nil, catalog, nil)
	require.Len(t, result.Records, 1)
	assert.Equal(t, domain.ComparisonPending, result.Records[0].Status)

	// pending records are excluded from accuracy aggregates
	assert.Empty(t, result.ByMarket)
	assert.Empty(t, result.ByProduct)
}

func TestReconcileNameFallbackMatch(t *testing.T) {
	forecasts := []domain.ForecastRecord{
		{ProductID: "legacy-id", ProductName: "Croissant", ForecastForDate: day1, OptimalQuantity: 10},
	}
	sales := []domain.SaleLogEntry{
		{ProductID: "croissant", ProductName: "Croissant", SaleDate: day1, QuantitySold: 10},
	}

	result := Reconcile(forecasts, sales, catalog, nil)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 10, result.Records[0].ActualQty)
	assert.Equal(t, domain.ComparisonSuccess, result.Records[0].Status)
	assert.Equal(t, 100.0, result.Records[0].Accuracy)
}

func TestReconcileAggregatesAndRecommendations(t *testing.T) {
	forecasts := []domain.ForecastRecord{
		forecastFor("croissant", day1, 30),
		forecastFor("croissant", day2, 30),
		forecastFor("baguette", day1, 10),
	}
	sales := []domain.SaleLogEntry{
		// croissant grossly over-forecasted on both days
		{ProductID: "croissant", SaleDate: day1, QuantitySold: 10},
		{ProductID: "croissant", SaleDate: day2, QuantitySold: 12},
		{ProductID: "baguette", SaleDate: day1, QuantitySold: 10},
	}

	result := Reconcile(forecasts, sales, catalog, nil)
	require.Len(t, result.Records, 3)

	var croissant domain.AccuracySummary
	for _, s := range result.ByProduct {
		if s.Key == "croissant" {
			croissant = s
		}
	}
	assert.Equal(t, 2, croissant.Samples)
	assert.Equal(t, 38, croissant.TotalWaste)
	// bias percent: (20+18)/(10+12) = ~172%
	assert.Greater(t, croissant.BiasPercent, 100.0)

	var productRec *domain.Recommendation
	for i := range result.Recommendations {
		if result.Recommendations[i].Scope == "product" && result.Recommendations[i].Key == "croissant" {
			productRec = &result.Recommendations[i]
		}
	}
	require.NotNil(t, productRec, "heavily over-forecasted product must be flagged")
	assert.Equal(t, domain.PriorityHigh, productRec.Priority)
	assert.Contains(t, productRec.Message, "reduce")

	// downtown market accuracy is dragged below 60 by the croissant misses
	var marketRec *domain.Recommendation
	for i := range result.Recommendations {
		if result.Recommendations[i].Scope == "market" {
			marketRec = &result.Recommendations[i]
		}
	}
	require.NotNil(t, marketRec)
	assert.Equal(t, "downtown", marketRec.Key)
}

func TestReconcileVariantInventoryMatch(t *testing.T) {
	products := []domain.Product{
		{ID: "loaf", Name: "Loaf", Price: 6, Cost: 2, Variants: []domain.ProductVariant{
			{ID: "half", Name: "Half Loaf", Price: 3.5, Cost: 1},
		}},
	}
	forecasts := []domain.ForecastRecord{
		{ProductID: "loaf", VariantID: "half", ForecastForDate: day1, OptimalQuantity: 8},
	}
	inventory := []domain.DailyInventoryRecord{
		{BusinessDate: day1, ProductID: "loaf", VariantID: "half", ToShopQty: 8, SoldQty: 6, UnsoldShop: 2},
	}

	result := Reconcile(forecasts, nil, products, inventory)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, 2, rec.Waste)
	assert.Equal(t, 2.0, rec.WasteCost) // variant cost 1
}

func TestReconcileAvgBiasCountsZeroActualDays(t *testing.T) {
	forecasts := []domain.ForecastRecord{
		forecastFor("croissant", day1, 10),
		forecastFor("croissant", day2, 6),
	}
	sales := []domain.SaleLogEntry{
		{ProductID: "croissant", SaleDate: day1, QuantitySold: 10},
	}
	// Day two went to the shop but sold nothing, so it still counts
	// against the bias even though accuracy skips it.
	inventory := []domain.DailyInventoryRecord{
		{BusinessDate: day2, ProductID: "croissant", ToShopQty: 6, SoldQty: 0, UnsoldShop: 6},
	}

	result := Reconcile(forecasts, sales, catalog, inventory)
	require.Len(t, result.Records, 2)

	require.Len(t, result.ByProduct, 1)
	summary := result.ByProduct[0]
	assert.Equal(t, "croissant", summary.Key)
	assert.Equal(t, 1, summary.Samples)
	assert.InDelta(t, 3.0, summary.AvgBias, 1e-9) // (0 + 6) / 2 records
	assert.InDelta(t, 60.0, summary.BiasPercent, 1e-9)
}
