package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ovenpilot/analytics/internal/domain"
)

func TestCalendarPhase(t *testing.T) {
	assert.Equal(t, PhasePayday, calendarPhase(25))
	assert.Equal(t, PhasePayday, calendarPhase(31))
	assert.Equal(t, PhasePayday, calendarPhase(1))
	assert.Equal(t, PhasePayday, calendarPhase(5))
	assert.Equal(t, PhaseEarly, calendarPhase(6))
	assert.Equal(t, PhaseEarly, calendarPhase(7))
	assert.Equal(t, PhaseMid, calendarPhase(13))
	assert.Equal(t, PhaseMid, calendarPhase(17))
	assert.Equal(t, PhaseNormal, calendarPhase(10))
	assert.Equal(t, PhaseNormal, calendarPhase(20))
}

func TestExtractFeatures(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	sales := []domain.SaleLogEntry{
		{ProductID: "croissant", MarketID: "downtown", SaleDate: day(0), QuantitySold: 10},
		{ProductID: "croissant", MarketID: "downtown", SaleDate: day(1), QuantitySold: 10},
		{ProductID: "croissant", MarketID: "downtown", SaleDate: day(2), QuantitySold: 10},
		{ProductID: "croissant", MarketID: "downtown", SaleDate: day(3), QuantitySold: 15, WeatherCondition: "sunny"},
		{ProductID: "baguette", MarketID: "downtown", SaleDate: day(3), QuantitySold: 120},
	}

	fc := buildFeatureContext("croissant", sales)
	dims := fc.extractFeatures(sales[3])

	assert.Equal(t, "Thursday", dims[DimWeekday])
	assert.Equal(t, "sunny", dims[DimWeather])
	assert.Equal(t, "downtown", dims[DimMarket])
	assert.Equal(t, MomentumUp, dims[DimMomentum])     // 15 vs 10 the day before
	assert.Equal(t, VelocityFast, dims[DimVelocity])   // sold on all prior 3 days
	assert.Equal(t, GapShort, dims[DimGap])            // sold yesterday
	assert.Equal(t, TrafficHigh, dims[DimTraffic])     // 135 units store-wide
}

func TestExtractFeaturesSparseHistory(t *testing.T) {
	day := time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)
	sales := []domain.SaleLogEntry{
		{ProductID: "croissant", MarketID: "downtown", SaleDate: day, QuantitySold: 8},
	}

	fc := buildFeatureContext("croissant", sales)
	dims := fc.extractFeatures(sales[0])

	assert.Equal(t, MomentumStable, dims[DimMomentum])
	assert.Equal(t, VelocityDead, dims[DimVelocity])
	assert.Equal(t, GapFirst, dims[DimGap])
	assert.Equal(t, TrafficLow, dims[DimTraffic])
	_, hasWeather := dims[DimWeather]
	assert.False(t, hasWeather)
}
