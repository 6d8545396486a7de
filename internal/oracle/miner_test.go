package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenpilot/analytics/internal/domain"
)

// weekdaySkewedHistory builds consecutive daily sales where Saturdays sell
// exactly triple the weekday quantity.
func weekdaySkewedHistory(productID string, days int) []domain.SaleLogEntry {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday
	sales := make([]domain.SaleLogEntry, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		qty := 10
		if date.Weekday() == time.Saturday {
			qty = 30
		}
		sales = append(sales, domain.SaleLogEntry{
			ProductID:    productID,
			MarketID:     "downtown",
			SaleDate:     date,
			QuantitySold: qty,
		})
	}
	return sales
}

func TestMineDetectsPerfectStorm(t *testing.T) {
	sales := weekdaySkewedHistory("croissant", 90)
	// Steady second product keeps store traffic from aliasing the weekday.
	for i := 0; i < 90; i++ {
		sales = append(sales, domain.SaleLogEntry{
			ProductID:    "baguette",
			MarketID:     "downtown",
			SaleDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			QuantitySold: 50,
		})
	}

	patterns := Mine("croissant", sales, MinerConfig{})
	require.NotEmpty(t, patterns)

	// Expected lift of the Saturday condition given the diluted baseline.
	var total float64
	var count int
	for _, s := range sales {
		if s.ProductID == "croissant" {
			total += float64(s.QuantitySold)
			count++
		}
	}
	base := total / float64(count)
	expectedLift := (30 - base) / base

	var saturday *domain.OraclePattern
	for i := range patterns {
		for _, d := range patterns[i].Dimensions {
			if d.Dimension == DimWeekday && d.Value == "Saturday" {
				saturday = &patterns[i]
			}
		}
	}
	require.NotNil(t, saturday, "Saturday uplift must surface as a pattern")

	assert.Equal(t, domain.PatternPerfectStorm, saturday.Type)
	assert.InDelta(t, expectedLift, saturday.Metrics.Lift, 0.01)
	assert.Greater(t, saturday.Metrics.Lift, perfectStormLift)
	assert.GreaterOrEqual(t, saturday.Metrics.Occurrence, 3)
	assert.InDelta(t, 30, saturday.Metrics.AvgSales, 0.01)

	// Analysis text must state baseline, observed average, lift, confidence.
	assert.Contains(t, saturday.Analysis, "30.0")
	assert.Contains(t, saturday.Analysis, "lift")
	assert.Contains(t, saturday.Analysis, "confidence")
}

func TestMineRequiresMinimumHistory(t *testing.T) {
	sales := weekdaySkewedHistory("croissant", 9)
	assert.Empty(t, Mine("croissant", sales, MinerConfig{}))
}

func TestMineCapsResultCount(t *testing.T) {
	sales := weekdaySkewedHistory("croissant", 120)
	patterns := Mine("croissant", sales, MinerConfig{})
	assert.LessOrEqual(t, len(patterns), maxPatterns)
}

func TestMineExcludesEventMarkets(t *testing.T) {
	sales := weekdaySkewedHistory("croissant", 30)
	// A festival day with a wild quantity would otherwise dominate.
	festival := domain.SaleLogEntry{
		ProductID:    "croissant",
		MarketID:     "spring-festival",
		SaleDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		QuantitySold: 500,
	}
	sales = append(sales, festival, festival, festival)

	patterns := Mine("croissant", sales, MinerConfig{ExcludedMarkets: []string{"Spring-Festival"}})
	for _, p := range patterns {
		for _, d := range p.Dimensions {
			if d.Dimension == DimMarket {
				assert.NotEqual(t, "spring-festival", d.Value)
			}
		}
	}
}

func TestMineDeterministicIDs(t *testing.T) {
	sales := weekdaySkewedHistory("croissant", 60)

	first := Mine("croissant", sales, MinerConfig{})
	second := Mine("croissant", sales, MinerConfig{})
	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Len(t, first[i].ID, 40) // sha1 hex
	}
}

func TestMineRespectsBudget(t *testing.T) {
	sales := weekdaySkewedHistory("croissant", 60)

	// A clock that leaps past the deadline after it is set aborts
	// accumulation before the first observation.
	calls := 0
	cfg := MinerConfig{
		Budget: time.Second,
		now: func() time.Time {
			calls++
			if calls == 1 {
				return time.Unix(0, 0)
			}
			return time.Unix(10, 0)
		},
	}

	assert.Empty(t, Mine("croissant", sales, cfg))
}
