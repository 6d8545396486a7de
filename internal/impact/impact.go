package impact

import (
	"strings"
	"time"

	"github.com/ovenpilot/analytics/internal/domain"
)

// weatherMultipliers maps normalized weather labels to demand adjustments.
// Unknown labels fall back to 1.0.
var weatherMultipliers = map[string]float64{
	"sunny":  1.15,
	"cloudy": 1.0,
	"rain":   0.65,
	"storm":  0.40,
	"wind":   0.85,
	"cold":   1.10,
}

// WeatherMultiplier returns the demand adjustment for a weather condition
// label. Lookup is case-insensitive; unknown conditions are neutral.
func WeatherMultiplier(condition string) float64 {
	if m, ok := weatherMultipliers[strings.ToLower(strings.TrimSpace(condition))]; ok {
		return m
	}
	return 1.0
}

// IsAdverseWeather reports whether the condition depresses foot traffic
// enough to warrant a confidence penalty.
func IsAdverseWeather(condition string) bool {
	switch strings.ToLower(strings.TrimSpace(condition)) {
	case "storm", "rain":
		return true
	}
	return false
}

// MarketScore rates a market from its historical daily reports. The score
// blends average revenue with profitability and is clamped to [0.5, 1.5].
// A market with no history scores neutral 1.0.
func MarketScore(reports []domain.MarketDailyReport) float64 {
	if len(reports) == 0 {
		return 1.0
	}

	var totalRevenue, totalProfit float64
	for _, r := range reports {
		totalRevenue += r.Revenue
		totalProfit += r.NetProfit
	}

	avgRevenue := totalRevenue / float64(len(reports))
	avgProfit := totalProfit / float64(len(reports))
	if avgRevenue <= 0 {
		return 1.0
	}

	score := (avgRevenue / 1000) * (1 + avgProfit/avgRevenue)
	if score < 0.5 {
		return 0.5
	}
	if score > 1.5 {
		return 1.5
	}
	return score
}

// TrendMultiplier inspects the three most recent same-weekday quantities,
// ordered newest first. Because index 0 is the newest observation, values
// that strictly decrease with increasing index mean sales are rising.
func TrendMultiplier(recentNewestFirst []float64) float64 {
	if len(recentNewestFirst) < 3 {
		return 1.0
	}

	q := recentNewestFirst[:3]
	if q[0] > q[1] && q[1] > q[2] {
		return 1.10 // rising
	}
	if q[0] < q[1] && q[1] < q[2] {
		return 0.90 // falling
	}
	return 1.0
}

// DayMultiplier boosts weekend demand.
func DayMultiplier(day time.Weekday) float64 {
	if day == time.Saturday || day == time.Sunday {
		return 1.25
	}
	return 1.0
}
