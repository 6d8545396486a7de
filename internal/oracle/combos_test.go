package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenpilot/analytics/internal/domain"
)

func pairedSales(qtyA, qtyB []int) []domain.SaleLogEntry {
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	sales := make([]domain.SaleLogEntry, 0, len(qtyA)*2)
	for i := range qtyA {
		date := start.AddDate(0, 0, i)
		sales = append(sales,
			domain.SaleLogEntry{ProductID: "coffee", MarketID: "downtown", SaleDate: date, QuantitySold: qtyA[i]},
			domain.SaleLogEntry{ProductID: "scone", MarketID: "downtown", SaleDate: date, QuantitySold: qtyB[i]},
		)
	}
	return sales
}

func TestFindCombosPowerCouple(t *testing.T) {
	sales := pairedSales(
		[]int{10, 20, 30, 40, 50, 60},
		[]int{5, 10, 15, 20, 25, 30},
	)

	results := FindCombos(sales)
	require.Len(t, results, 1)

	combo := results[0]
	assert.Equal(t, "coffee", combo.ProductA)
	assert.Equal(t, "scone", combo.ProductB)
	assert.Equal(t, domain.PatternPowerCouple, combo.Type)
	assert.InDelta(t, 1.0, combo.Correlation, 1e-9)
	assert.Equal(t, 6, combo.Occurrence)
}

func TestFindCombosCompetitor(t *testing.T) {
	sales := pairedSales(
		[]int{10, 20, 30, 40, 50},
		[]int{50, 40, 30, 20, 10},
	)

	results := FindCombos(sales)
	require.Len(t, results, 1)
	assert.Equal(t, domain.PatternCompetitor, results[0].Type)
	assert.InDelta(t, -1.0, results[0].Correlation, 1e-9)
}

func TestFindCombosRequiresOverlap(t *testing.T) {
	// Only 4 shared dates: below the minimum.
	sales := pairedSales(
		[]int{10, 20, 30, 40},
		[]int{5, 10, 15, 20},
	)
	assert.Empty(t, FindCombos(sales))
}

func TestFindCombosSkipsFlatSeries(t *testing.T) {
	sales := pairedSales(
		[]int{10, 10, 10, 10, 10, 10},
		[]int{5, 10, 15, 20, 25, 30},
	)
	assert.Empty(t, FindCombos(sales))
}

func TestFindCombosIgnoresWeakCorrelation(t *testing.T) {
	sales := pairedSales(
		[]int{10, 30, 10, 30, 10, 30, 10, 30},
		[]int{7, 9, 12, 5, 11, 8, 13, 6},
	)

	for _, r := range FindCombos(sales) {
		assert.GreaterOrEqual(t, abs(r.Correlation), minCorrelation)
	}
}
