package oracle

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/pkg/formulas"
)

// Mining thresholds. A combination has to recur, move the needle, and be
// consistent before it is worth telling anyone about.
const (
	minObservations = 10
	minOccurrence   = 3
	minAbsLift      = 0.25
	minMineConf     = 50.0
	baseAvgFloor    = 0.1

	perfectStormLift = 0.8
	perfectStormConf = 70.0
	silentKillerLift = -0.8
	silentKillerConf = 80.0

	maxPatterns = 3
	maxComboDim = 3
)

// DefaultBudget bounds a single mining run's wall clock time.
const DefaultBudget = 2 * time.Second

// MinerConfig tunes one mining run.
type MinerConfig struct {
	// ExcludedMarkets names non-recurring event markets whose observations
	// would poison recurring-condition statistics. Matched case-insensitively.
	ExcludedMarkets []string
	// Budget caps the accumulation wall clock; zero means DefaultBudget.
	Budget time.Duration
	// now is swappable for tests.
	now func() time.Time
}

func (c MinerConfig) clock() func() time.Time {
	if c.now != nil {
		return c.now
	}
	return time.Now
}

func (c MinerConfig) excluded(marketID string) bool {
	for _, m := range c.ExcludedMarkets {
		if strings.EqualFold(m, marketID) {
			return true
		}
	}
	return false
}

// combination accumulates statistics for one distinct dimension combination.
type combination struct {
	dims   []domain.PatternDimension
	count  int
	sum    float64
	values []float64
}

// Mine discovers statistically significant recurring conditions in one
// product's sales history. It enumerates every 1- to 3-dimension
// combination that each observation actually exhibits (no hypothetical
// values), gates the result statistically, and returns at most the top 3
// patterns by absolute lift. With fewer than 10 observations it returns
// nothing: there is no signal worth mining yet.
func Mine(productID string, sales []domain.SaleLogEntry, cfg MinerConfig) []domain.OraclePattern {
	fc := buildFeatureContext(productID, sales)

	observations := make([]domain.SaleLogEntry, 0)
	for _, s := range sales {
		if s.ProductID != productID || cfg.excluded(s.MarketID) {
			continue
		}
		observations = append(observations, s)
	}
	if len(observations) < minObservations {
		return nil
	}

	budget := cfg.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	now := cfg.clock()
	deadline := now().Add(budget)

	quantities := make([]float64, len(observations))
	for i, obs := range observations {
		quantities[i] = float64(obs.QuantitySold)
	}

	combos := make(map[string]*combination)
	for _, obs := range observations {
		// Cooperative budget check: keep whatever was gathered so far.
		if now().After(deadline) {
			break
		}

		dims := fc.extractFeatures(obs)
		accumulate(combos, dims, float64(obs.QuantitySold))
	}

	baseAvg := formulas.Mean(quantities)
	divisor := baseAvg
	if divisor < baseAvgFloor {
		divisor = baseAvgFloor
	}

	patterns := make([]domain.OraclePattern, 0)
	for _, c := range combos {
		if c.count < minOccurrence {
			continue
		}

		avg := c.sum / float64(c.count)
		lift := (avg - baseAvg) / divisor
		if lift < minAbsLift && lift > -minAbsLift {
			continue
		}

		confidence := 100 - formulas.CoefficientOfVariation(c.values)*100
		if confidence < 0 {
			confidence = 0
		}
		if confidence < minMineConf {
			continue
		}

		ptype, ok := classify(lift, confidence)
		if !ok {
			continue
		}

		metrics := domain.PatternMetrics{
			Occurrence: c.count,
			AvgSales:   avg,
			BaseSales:  baseAvg,
			Lift:       lift,
			Confidence: confidence,
		}
		patterns = append(patterns, domain.OraclePattern{
			ID:         patternID(productID, c.dims),
			ProductID:  productID,
			Type:       ptype,
			Dimensions: c.dims,
			Metrics:    metrics,
			Analysis:   analysisText(c.dims, metrics),
			Action:     actionText(ptype, metrics),
		})
	}

	// Ties are common when several dimensions alias the same condition,
	// so rank simple patterns first and fall back to the stable id.
	sort.Slice(patterns, func(i, j int) bool {
		li, lj := abs(patterns[i].Metrics.Lift), abs(patterns[j].Metrics.Lift)
		if li != lj {
			return li > lj
		}
		if len(patterns[i].Dimensions) != len(patterns[j].Dimensions) {
			return len(patterns[i].Dimensions) < len(patterns[j].Dimensions)
		}
		return patterns[i].ID < patterns[j].ID
	})
	if len(patterns) > maxPatterns {
		patterns = patterns[:maxPatterns]
	}
	return patterns
}

// accumulate folds one observation's own feature values into every 1-, 2-,
// and 3-dimension combination key.
func accumulate(combos map[string]*combination, dims map[string]string, qty float64) {
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := len(keys)
	for i := 0; i < n; i++ {
		addCombo(combos, dims, qty, keys[i:i+1])
		for j := i + 1; j < n; j++ {
			addCombo(combos, dims, qty, []string{keys[i], keys[j]})
			for k := j + 1; k < n; k++ {
				addCombo(combos, dims, qty, []string{keys[i], keys[j], keys[k]})
			}
		}
	}
}

func addCombo(combos map[string]*combination, dims map[string]string, qty float64, keys []string) {
	if len(keys) > maxComboDim {
		return
	}

	parts := make([]string, len(keys))
	pairs := make([]domain.PatternDimension, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + dims[k]
		pairs[i] = domain.PatternDimension{Dimension: k, Value: dims[k]}
	}
	key := strings.Join(parts, "&")

	c, ok := combos[key]
	if !ok {
		c = &combination{dims: pairs}
		combos[key] = c
	}
	c.count++
	c.sum += qty
	c.values = append(c.values, qty)
}

func classify(lift, confidence float64) (domain.PatternType, bool) {
	switch {
	case lift > perfectStormLift && confidence > perfectStormConf:
		return domain.PatternPerfectStorm, true
	case lift < silentKillerLift && confidence > silentKillerConf:
		return domain.PatternSilentKiller, true
	case lift > minAbsLift:
		return domain.PatternOpportunity, true
	default:
		return "", false
	}
}

// patternID derives a stable id from the inputs that produced the pattern,
// so repeated runs over unchanged history yield comparable ids.
func patternID(productID string, dims []domain.PatternDimension) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = d.Dimension + "=" + d.Value
	}
	sort.Strings(parts)

	h := sha1.Sum([]byte(productID + "|" + strings.Join(parts, "&")))
	return hex.EncodeToString(h[:])
}

func describeDims(dims []domain.PatternDimension) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = d.Value
	}
	return strings.Join(parts, " + ")
}

func analysisText(dims []domain.PatternDimension, m domain.PatternMetrics) string {
	return fmt.Sprintf(
		"Under %s, sales average %.1f units against a baseline of %.1f (%+.0f%% lift, %.0f%% confidence, seen %d times).",
		describeDims(dims), m.AvgSales, m.BaseSales, m.Lift*100, m.Confidence, m.Occurrence,
	)
}

func actionText(ptype domain.PatternType, m domain.PatternMetrics) string {
	switch ptype {
	case domain.PatternPerfectStorm:
		return fmt.Sprintf("Stock aggressively when these conditions line up, demand runs %+.0f%% above baseline.", m.Lift*100)
	case domain.PatternSilentKiller:
		return fmt.Sprintf("Cut production under these conditions, demand drops %.0f%% below baseline.", -m.Lift*100)
	default:
		return fmt.Sprintf("Consider a modest production increase, demand runs %+.0f%% above baseline.", m.Lift*100)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
