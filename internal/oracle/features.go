package oracle

import (
	"time"

	"github.com/ovenpilot/analytics/internal/domain"
)

// Dimension keys extracted for every sale observation. The calendar signal
// contributes two keys (phase and weekday); the rest map one to one.
const (
	DimPhase    = "phase"
	DimWeekday  = "weekday"
	DimWeather  = "weather"
	DimMomentum = "momentum"
	DimVelocity = "velocity"
	DimGap      = "gap"
	DimTraffic  = "traffic"
	DimMarket   = "market"
)

// Calendar phase labels.
const (
	PhasePayday = "Payday-Phase"
	PhaseEarly  = "Early-Month"
	PhaseMid    = "Mid-Month"
	PhaseNormal = "Normal-Phase"
)

// Momentum, velocity, gap, and traffic labels.
const (
	MomentumUp     = "Trend-Up"
	MomentumDown   = "Trend-Down"
	MomentumStable = "Stable"

	VelocityFast   = "Fast-Velocity"
	VelocityDead   = "Dead-Velocity"
	VelocityNormal = "Normal-Velocity"

	GapShort = "Gap-0-1-Days"
	GapMid   = "Gap-2-3-Days"
	GapLong  = "Gap-4-Plus-Days"
	GapFirst = "First-Sale"

	TrafficHigh   = "High-Traffic"
	TrafficLow    = "Low-Traffic"
	TrafficNormal = "Normal-Traffic"
)

// featureContext holds the cross-observation lookups needed to label a
// single sale: the product's own daily quantities and store-wide daily
// totals.
type featureContext struct {
	productDaily map[string]int // dateKey -> product quantity
	storeDaily   map[string]int // dateKey -> all-product quantity
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// buildFeatureContext indexes the full sales history once so per-sale
// feature extraction stays O(1).
func buildFeatureContext(productID string, allSales []domain.SaleLogEntry) featureContext {
	fc := featureContext{
		productDaily: make(map[string]int),
		storeDaily:   make(map[string]int),
	}
	for _, s := range allSales {
		key := dateKey(s.SaleDate)
		fc.storeDaily[key] += s.QuantitySold
		if s.ProductID == productID {
			fc.productDaily[key] += s.QuantitySold
		}
	}
	return fc
}

// extractFeatures labels one sale observation along every dimension. The
// returned map always contains all eight keys, with empty weather omitted.
func (fc featureContext) extractFeatures(s domain.SaleLogEntry) map[string]string {
	dims := map[string]string{
		DimPhase:    calendarPhase(s.SaleDate.Day()),
		DimWeekday:  s.SaleDate.Weekday().String(),
		DimMomentum: fc.momentum(s),
		DimVelocity: fc.velocity(s),
		DimGap:      fc.gap(s),
		DimTraffic:  fc.traffic(s),
		DimMarket:   s.MarketID,
	}
	if s.WeatherCondition != "" {
		dims[DimWeather] = s.WeatherCondition
	}
	return dims
}

func calendarPhase(day int) string {
	switch {
	case day >= 25 || day <= 5:
		return PhasePayday
	case day <= 7:
		return PhaseEarly
	case day >= 13 && day <= 17:
		return PhaseMid
	default:
		return PhaseNormal
	}
}

// momentum compares today's quantity to yesterday's for the same product.
func (fc featureContext) momentum(s domain.SaleLogEntry) string {
	yesterday := fc.productDaily[dateKey(s.SaleDate.AddDate(0, 0, -1))]
	if yesterday == 0 {
		return MomentumStable
	}
	ratio := float64(s.QuantitySold) / float64(yesterday)
	switch {
	case ratio > 1.2:
		return MomentumUp
	case ratio < 0.8:
		return MomentumDown
	default:
		return MomentumStable
	}
}

// velocity counts how many of the prior 3 calendar days had any sale.
func (fc featureContext) velocity(s domain.SaleLogEntry) string {
	active := 0
	for i := 1; i <= 3; i++ {
		if fc.productDaily[dateKey(s.SaleDate.AddDate(0, 0, -i))] > 0 {
			active++
		}
	}
	switch active {
	case 3:
		return VelocityFast
	case 0:
		return VelocityDead
	default:
		return VelocityNormal
	}
}

// gap measures calendar days since the last positive sale before this one.
// Lookback is capped; anything beyond it counts as a first sale.
func (fc featureContext) gap(s domain.SaleLogEntry) string {
	const lookback = 60
	for i := 1; i <= lookback; i++ {
		if fc.productDaily[dateKey(s.SaleDate.AddDate(0, 0, -i))] > 0 {
			switch {
			case i <= 1:
				return GapShort
			case i <= 3:
				return GapMid
			default:
				return GapLong
			}
		}
	}
	return GapFirst
}

// traffic classifies store-wide volume on the sale date.
func (fc featureContext) traffic(s domain.SaleLogEntry) string {
	total := fc.storeDaily[dateKey(s.SaleDate)]
	switch {
	case total > 100:
		return TrafficHigh
	case total < 30:
		return TrafficLow
	default:
		return TrafficNormal
	}
}
