package impact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ovenpilot/analytics/internal/domain"
)

func TestWeatherMultiplier(t *testing.T) {
	assert.Equal(t, 1.15, WeatherMultiplier("sunny"))
	assert.Equal(t, 1.15, WeatherMultiplier("  Sunny "))
	assert.Equal(t, 0.40, WeatherMultiplier("STORM"))
	assert.Equal(t, 0.65, WeatherMultiplier("rain"))
	assert.Equal(t, 1.10, WeatherMultiplier("cold"))
	assert.Equal(t, 1.0, WeatherMultiplier("hail"))
	assert.Equal(t, 1.0, WeatherMultiplier(""))
}

func TestIsAdverseWeather(t *testing.T) {
	assert.True(t, IsAdverseWeather("storm"))
	assert.True(t, IsAdverseWeather("Rain"))
	assert.False(t, IsAdverseWeather("sunny"))
	assert.False(t, IsAdverseWeather(""))
}

func TestMarketScore(t *testing.T) {
	t.Run("neutral without history", func(t *testing.T) {
		assert.Equal(t, 1.0, MarketScore(nil))
	})

	t.Run("clamped to upper bound", func(t *testing.T) {
		reports := []domain.MarketDailyReport{
			{Revenue: 5000, NetProfit: 2000},
			{Revenue: 6000, NetProfit: 2500},
		}
		assert.Equal(t, 1.5, MarketScore(reports))
	})

	t.Run("clamped to lower bound", func(t *testing.T) {
		reports := []domain.MarketDailyReport{
			{Revenue: 100, NetProfit: 10},
		}
		assert.Equal(t, 0.5, MarketScore(reports))
	})

	t.Run("mid-range score", func(t *testing.T) {
		reports := []domain.MarketDailyReport{
			{Revenue: 800, NetProfit: 200},
		}
		// (800/1000) * (1 + 200/800) = 0.8 * 1.25 = 1.0
		assert.InDelta(t, 1.0, MarketScore(reports), 1e-9)
	})

	t.Run("neutral on zero revenue", func(t *testing.T) {
		reports := []domain.MarketDailyReport{{Revenue: 0, NetProfit: 0}}
		assert.Equal(t, 1.0, MarketScore(reports))
	})
}

func TestTrendMultiplier(t *testing.T) {
	// Input is newest first: decreasing values mean sales are rising.
	assert.Equal(t, 1.10, TrendMultiplier([]float64{30, 20, 10}))
	assert.Equal(t, 0.90, TrendMultiplier([]float64{10, 20, 30}))
	assert.Equal(t, 1.0, TrendMultiplier([]float64{10, 30, 20}))
	assert.Equal(t, 1.0, TrendMultiplier([]float64{10, 10, 10}))
	assert.Equal(t, 1.0, TrendMultiplier([]float64{30, 20}))
}

func TestDayMultiplier(t *testing.T) {
	assert.Equal(t, 1.25, DayMultiplier(time.Saturday))
	assert.Equal(t, 1.25, DayMultiplier(time.Sunday))
	assert.Equal(t, 1.0, DayMultiplier(time.Wednesday))
}
