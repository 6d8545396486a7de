// internal/domain/results.go
package domain

import "time"

// ComparisonStatus classifies how a single forecast played out.
type ComparisonStatus string

const (
	ComparisonPending  ComparisonStatus = "pending"
	ComparisonSuccess  ComparisonStatus = "success"
	ComparisonWaste    ComparisonStatus = "waste"
	ComparisonStockout ComparisonStatus = "stockout"
)

// ComparisonRecord reconciles one ForecastRecord against realized outcomes.
// Derived per reconciliation run; the engine never persists it.
type ComparisonRecord struct {
	ProductID       string           `json:"product_id"`
	VariantID       string           `json:"variant_id,omitempty"`
	ProductName     string           `json:"product_name,omitempty"`
	MarketID        string           `json:"market_id,omitempty"`
	ForecastForDate time.Time        `json:"forecast_for_date"`
	ForecastQty     int              `json:"forecast_qty"`
	ActualQty       int              `json:"actual_qty"`
	Diff            int              `json:"diff"`
	Accuracy        float64          `json:"accuracy"`
	Waste           int              `json:"waste"`
	Stockout        int              `json:"stockout"`
	WasteCost       float64          `json:"waste_cost"`
	StockoutRevenue float64          `json:"stockout_revenue"`
	Status          ComparisonStatus `json:"status"`
}

// AccuracySummary aggregates comparison records along one dimension
// (market, weekday, product, or calendar date).
type AccuracySummary struct {
	Key           string  `json:"key"`
	Samples       int     `json:"samples"`
	Accuracy      float64 `json:"accuracy"`
	TotalWaste    int     `json:"total_waste"`
	TotalStockout int     `json:"total_stockout"`
	WasteCost     float64 `json:"waste_cost"`
	StockoutCost  float64 `json:"stockout_cost"`
	AvgBias       float64 `json:"avg_bias"`
	BiasPercent   float64 `json:"bias_percent"`
}

// RecommendationPriority orders reconciliation advice.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
)

// Recommendation is one prioritized piece of advice produced by the
// reconciliation engine.
type Recommendation struct {
	Scope    string                 `json:"scope"` // market, product, weekday
	Key      string                 `json:"key"`
	Priority RecommendationPriority `json:"priority"`
	Message  string                 `json:"message"`
}

// ReconciliationResult is the full output of one reconciliation run.
type ReconciliationResult struct {
	Records         []ComparisonRecord `json:"records"`
	ByMarket        []AccuracySummary  `json:"by_market"`
	ByWeekday       []AccuracySummary  `json:"by_weekday"`
	ByProduct       []AccuracySummary  `json:"by_product"`
	ByDate          []AccuracySummary  `json:"by_date"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// ForecastResult is the engine's answer for one product/date/market combination.
type ForecastResult struct {
	Quantity   int      `json:"quantity"`
	Confidence int      `json:"confidence"`
	Insights   []string `json:"insights"`
}

// PatternType classifies a discovered relationship.
type PatternType string

const (
	PatternPerfectStorm PatternType = "PERFECT_STORM"
	PatternSilentKiller PatternType = "SILENT_KILLER"
	PatternOpportunity  PatternType = "OPPORTUNITY"
	PatternPowerCouple  PatternType = "POWER_COUPLE"
	PatternCompetitor   PatternType = "COMPETITOR"
	PatternCannibal     PatternType = "CANNIBAL"
)

// PatternDimension is one dimension=value condition of a mined pattern.
type PatternDimension struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
}

// PatternMetrics carries the statistics backing a mined pattern.
type PatternMetrics struct {
	Occurrence int     `json:"occurrence"`
	AvgSales   float64 `json:"avg_sales"`
	BaseSales  float64 `json:"base_sales"`
	Lift       float64 `json:"lift"`
	Confidence float64 `json:"confidence"`
}

// OraclePattern is a statistically significant recurring condition mined
// from the sales history. Recomputed from current history on every run;
// its ID is a deterministic hash of the inputs that produced it.
type OraclePattern struct {
	ID         string             `json:"id"`
	ProductID  string             `json:"product_id"`
	Type       PatternType        `json:"type"`
	Dimensions []PatternDimension `json:"dimensions"`
	Metrics    PatternMetrics     `json:"metrics"`
	Analysis   string             `json:"analysis"`
	Action     string             `json:"action"`
}

// ComboResult is a correlated product pair (substitutes or complements).
type ComboResult struct {
	ProductA    string      `json:"product_a"`
	ProductB    string      `json:"product_b"`
	Type        PatternType `json:"type"`
	Correlation float64     `json:"correlation"`
	Occurrence  int         `json:"occurrence"`
	Analysis    string      `json:"analysis"`
}

// CannibalResult flags an older product whose sales dropped after a newer
// product's introduction.
type CannibalResult struct {
	NewProduct    string    `json:"new_product"`
	OldProduct    string    `json:"old_product"`
	IntroducedAt  time.Time `json:"introduced_at"`
	ChangePercent float64   `json:"change_percent"`
	Confidence    float64   `json:"confidence"`
	BeforeSamples int       `json:"before_samples"`
	AfterSamples  int       `json:"after_samples"`
	Analysis      string    `json:"analysis"`
}
