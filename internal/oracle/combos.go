package oracle

import (
	"fmt"
	"sort"

	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/pkg/formulas"
)

const (
	minOverlapDates = 5
	minCorrelation  = 0.5
	maxComboResults = 3
)

// FindCombos correlates every product pair's daily sales over the dates
// where both have a logged quantity (an explicit zero counts). Pairs with
// strong positive correlation sell together; strong negative correlation
// marks substitutes competing for the same customers. Returns at most the
// top 3 pairs by absolute correlation.
func FindCombos(sales []domain.SaleLogEntry) []domain.ComboResult {
	series := buildDailySeries(sales)

	productIDs := make([]string, 0, len(series))
	for id := range series {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	results := make([]domain.ComboResult, 0)
	for i := 0; i < len(productIDs); i++ {
		for j := i + 1; j < len(productIDs); j++ {
			a, b := productIDs[i], productIDs[j]

			xs, ys := overlap(series[a], series[b])
			if len(xs) < minOverlapDates {
				continue
			}
			// Flat series carry no pairing signal and make Pearson undefined.
			if formulas.Variance(xs) == 0 || formulas.Variance(ys) == 0 {
				continue
			}

			corr := formulas.Correlation(xs, ys)
			if abs(corr) < minCorrelation {
				continue
			}

			ptype := domain.PatternPowerCouple
			verb := "sell together"
			if corr < 0 {
				ptype = domain.PatternCompetitor
				verb = "cannibalize each other's demand"
			}

			results = append(results, domain.ComboResult{
				ProductA:    a,
				ProductB:    b,
				Type:        ptype,
				Correlation: corr,
				Occurrence:  len(xs),
				Analysis: fmt.Sprintf("%s and %s %s (correlation %+.2f over %d shared days).",
					a, b, verb, corr, len(xs)),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return abs(results[i].Correlation) > abs(results[j].Correlation)
	})
	if len(results) > maxComboResults {
		results = results[:maxComboResults]
	}
	return results
}

// buildDailySeries folds sales into per-product date-to-quantity maps. An
// entry with quantity zero still registers the date as observed.
func buildDailySeries(sales []domain.SaleLogEntry) map[string]map[string]float64 {
	series := make(map[string]map[string]float64)
	for _, s := range sales {
		m, ok := series[s.ProductID]
		if !ok {
			m = make(map[string]float64)
			series[s.ProductID] = m
		}
		m[dateKey(s.SaleDate)] += float64(s.QuantitySold)
	}
	return series
}

// overlap aligns two daily series on their shared dates, sorted by date so
// the pairing is deterministic.
func overlap(a, b map[string]float64) ([]float64, []float64) {
	dates := make([]string, 0)
	for d := range a {
		if _, ok := b[d]; ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	xs := make([]float64, len(dates))
	ys := make([]float64, len(dates))
	for i, d := range dates {
		xs[i] = a[d]
		ys[i] = b[d]
	}
	return xs, ys
}
