package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/internal/impact"
	"github.com/ovenpilot/analytics/pkg/formulas"
)

const (
	// safetyBuffer is applied after all multipliers so a slightly hot day
	// does not immediately sell out.
	safetyBuffer = 1.05

	maxObservations = 4

	minConfidence = 50
	maxConfidence = 95
)

// Options narrows the historical selection and supplies external signals.
type Options struct {
	// Weather is the expected condition label for the target date, if known.
	Weather string
	// MarketID restricts history to one market when set.
	MarketID string
	// MarketReports feed the market performance score. Optional.
	MarketReports []domain.MarketDailyReport
}

// Generate predicts how many units of a product will sell on targetDate.
// It combines a same-weekday historical baseline with weather, trend,
// market, and calendar adjustments. With no matching history it returns a
// well-formed zero result rather than an error.
func Generate(productID string, targetDate time.Time, history []domain.SaleLogEntry, opts Options) domain.ForecastResult {
	selected := selectObservations(productID, targetDate, history, opts.MarketID)

	if len(selected) == 0 {
		return domain.ForecastResult{
			Quantity:   0,
			Confidence: 0,
			Insights:   []string{"no sales history for this product on this weekday yet"},
		}
	}

	quantities := make([]float64, len(selected))
	for i, s := range selected {
		quantities[i] = float64(s.QuantitySold)
	}

	baseAvg := formulas.Mean(quantities)

	trendMult := impact.TrendMultiplier(quantities)
	weatherMult := impact.WeatherMultiplier(opts.Weather)
	marketMult := impact.MarketScore(opts.MarketReports)
	dayMult := impact.DayMultiplier(targetDate.Weekday())

	raw := baseAvg * trendMult * weatherMult * marketMult * dayMult
	quantity := int(math.Ceil(raw * safetyBuffer))

	confidence := 100
	insights := make([]string, 0, 4)

	if len(selected) < 3 {
		confidence -= 30
		insights = append(insights, fmt.Sprintf("only %d past observations, forecast is rough", len(selected)))
	}

	cv := formulas.CoefficientOfVariation(quantities)
	if cv > 0.5 {
		confidence -= 20
	}

	switch {
	case trendMult > 1.0:
		insights = append(insights, "sales on this weekday are trending up")
	case trendMult < 1.0:
		insights = append(insights, "sales on this weekday are trending down")
	}

	if impact.IsAdverseWeather(opts.Weather) {
		confidence -= 15
		insights = append(insights, fmt.Sprintf("adverse weather (%s) expected to cut demand", opts.Weather))
	}

	if dayMult > 1.0 {
		insights = append(insights, "weekend uplift applied")
	}

	if marketMult > 1.1 {
		insights = append(insights, "strong market, baseline scaled up")
	}

	if confidence < minConfidence {
		confidence = minConfidence
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return domain.ForecastResult{
		Quantity:   quantity,
		Confidence: confidence,
		Insights:   insights,
	}
}

// selectObservations picks up to the four most recent same-product,
// same-weekday sales strictly before the target date, newest first.
func selectObservations(productID string, targetDate time.Time, history []domain.SaleLogEntry, marketID string) []domain.SaleLogEntry {
	weekday := targetDate.Weekday()

	matched := make([]domain.SaleLogEntry, 0, maxObservations)
	for _, s := range history {
		if s.ProductID != productID {
			continue
		}
		if marketID != "" && s.MarketID != marketID {
			continue
		}
		if !s.SaleDate.Before(targetDate) {
			continue
		}
		if s.SaleDate.Weekday() != weekday {
			continue
		}
		matched = append(matched, s)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SaleDate.After(matched[j].SaleDate)
	})

	if len(matched) > maxObservations {
		matched = matched[:maxObservations]
	}
	return matched
}
