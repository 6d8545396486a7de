package accuracy

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ovenpilot/analytics/internal/domain"
)

// Thresholds for recommendation generation.
const (
	lowAccuracyThreshold = 60.0
	biasAlertPercent     = 20.0
	biasHighPercent      = 30.0
	minSamples           = 2
)

// Reconcile joins forecast records with realized sales and inventory
// movements and returns per-record comparisons, aggregates along market,
// weekday, product, and calendar-date dimensions, and prioritized
// recommendations. Sparse or ambiguous data never fails: unmatched records
// degrade to pending status or zero actuals.
func Reconcile(forecasts []domain.ForecastRecord, sales []domain.SaleLogEntry, products []domain.Product, inventory []domain.DailyInventoryRecord) domain.ReconciliationResult {
	catalog := buildCatalog(products)
	salesIdx := indexSales(sales)
	invIdx := indexInventory(inventory)

	records := make([]domain.ComparisonRecord, 0, len(forecasts))
	for _, f := range forecasts {
		rec, ok := compareOne(f, catalog, salesIdx, invIdx)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	byMarket := aggregate(records, func(r domain.ComparisonRecord) string {
		if r.MarketID == "" {
			return "unspecified"
		}
		return r.MarketID
	})
	byWeekday := aggregate(records, func(r domain.ComparisonRecord) string {
		return r.ForecastForDate.Weekday().String()
	})
	byProduct := aggregate(records, func(r domain.ComparisonRecord) string {
		return r.ProductID
	})
	byDate := aggregate(records, func(r domain.ComparisonRecord) string {
		return r.ForecastForDate.Format("2006-01-02")
	})

	return domain.ReconciliationResult{
		Records:         records,
		ByMarket:        byMarket,
		ByWeekday:       byWeekday,
		ByProduct:       byProduct,
		ByDate:          byDate,
		Recommendations: recommend(byMarket, byWeekday, byProduct),
	}
}

type productPricing struct {
	name  string
	price float64
	cost  float64
}

type catalogIndex struct {
	byID   map[string]productPricing
	byName map[string]string // name -> product id
}

func buildCatalog(products []domain.Product) catalogIndex {
	idx := catalogIndex{
		byID:   make(map[string]productPricing, len(products)),
		byName: make(map[string]string, len(products)),
	}
	for _, p := range products {
		idx.byID[p.ID] = productPricing{name: p.Name, price: p.Price, cost: p.Cost}
		idx.byName[p.Name] = p.ID
		for _, v := range p.Variants {
			idx.byID[variantKey(p.ID, v.ID)] = productPricing{name: v.Name, price: v.Price, cost: v.Cost}
		}
	}
	return idx
}

func variantKey(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + "#" + variantID
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

type salesIndex map[string]int // productID|date -> total quantity

func indexSales(sales []domain.SaleLogEntry) salesIndex {
	idx := make(salesIndex, len(sales))
	for _, s := range sales {
		idx[s.ProductID+"|"+dateKey(s.SaleDate)] += s.QuantitySold
		if s.ProductName != "" {
			idx["name:"+s.ProductName+"|"+dateKey(s.SaleDate)] += s.QuantitySold
		}
	}
	return idx
}

type inventoryIndex map[string]domain.DailyInventoryRecord

func indexInventory(inventory []domain.DailyInventoryRecord) inventoryIndex {
	idx := make(inventoryIndex, len(inventory))
	for _, inv := range inventory {
		idx[variantKey(inv.ProductID, inv.VariantID)+"|"+dateKey(inv.BusinessDate)] = inv
	}
	return idx
}

// compareOne reconciles a single forecast. The second return value is false
// when the record should be excluded entirely: inventory shows nothing was
// sent to the shop and there is no sales data, so the day was never tried.
func compareOne(f domain.ForecastRecord, catalog catalogIndex, salesIdx salesIndex, invIdx inventoryIndex) (domain.ComparisonRecord, bool) {
	day := dateKey(f.ForecastForDate)

	salesQty, salesFound := salesIdx[f.ProductID+"|"+day]
	if !salesFound && f.ProductName != "" {
		// Fall back to name matching when the sale log has no direct id match.
		salesQty, salesFound = salesIdx["name:"+f.ProductName+"|"+day]
	}

	inv, invFound := invIdx[variantKey(f.ProductID, f.VariantID)+"|"+day]

	if invFound && inv.ToShopQty == 0 && !salesFound {
		return domain.ComparisonRecord{}, false
	}

	rec := domain.ComparisonRecord{
		ProductID:       f.ProductID,
		VariantID:       f.VariantID,
		ProductName:     f.ProductName,
		MarketID:        f.MarketID,
		ForecastForDate: f.ForecastForDate,
		ForecastQty:     f.OptimalQuantity,
	}

	switch {
	case invFound:
		actual := inv.SoldQty
		if salesFound {
			actual = salesQty
		}
		rec.ActualQty = actual
		rec.Diff = f.OptimalQuantity - actual

		if inv.UnsoldShop > 0 {
			rec.Waste = inv.UnsoldShop
			// Leftover stock on the shelf rules out a stockout.
			rec.Stockout = 0
		} else if short := f.OptimalQuantity - inv.SoldQty; short > 0 {
			rec.Stockout = short
		}

	case salesFound:
		rec.ActualQty = salesQty
		rec.Diff = f.OptimalQuantity - salesQty
		if rec.Diff > 0 {
			rec.Waste = rec.Diff
		} else if rec.Diff < 0 {
			rec.Stockout = -rec.Diff
		}

	default:
		rec.Status = domain.ComparisonPending
		rec.Accuracy = recordAccuracy(rec.ForecastQty, 0, 0)
		return rec, true
	}

	price, cost := resolvePricing(f, catalog)
	rec.WasteCost = float64(rec.Waste) * cost
	rec.StockoutRevenue = float64(rec.Stockout) * (price - cost)
	rec.Accuracy = recordAccuracy(rec.ForecastQty, rec.ActualQty, rec.Diff)

	switch {
	case rec.Waste > 0:
		rec.Status = domain.ComparisonWaste
	case rec.Stockout > 0:
		rec.Status = domain.ComparisonStockout
	default:
		rec.Status = domain.ComparisonSuccess
	}

	return rec, true
}

func resolvePricing(f domain.ForecastRecord, catalog catalogIndex) (price, cost float64) {
	if p, ok := catalog.byID[variantKey(f.ProductID, f.VariantID)]; ok {
		return p.price, p.cost
	}
	if p, ok := catalog.byID[f.ProductID]; ok {
		return p.price, p.cost
	}
	if id, ok := catalog.byName[f.ProductName]; ok {
		if p, ok := catalog.byID[id]; ok {
			return p.price, p.cost
		}
	}
	return 0, 0
}

func recordAccuracy(forecast, actual, diff int) float64 {
	if forecast == 0 && actual == 0 {
		return 100
	}
	if actual == 0 {
		return 0
	}
	acc := (1 - math.Abs(float64(diff))/float64(actual)) * 100
	if acc < 0 {
		return 0
	}
	return acc
}

// aggregate folds comparison records into per-key summaries. Accuracy is
// averaged only over records with a positive actual quantity; pending
// records contribute nothing.
func aggregate(records []domain.ComparisonRecord, keyFn func(domain.ComparisonRecord) string) []domain.AccuracySummary {
	type bucket struct {
		accuracySum  float64
		samples      int
		records      int
		waste        int
		stockout     int
		wasteCost    float64
		stockoutCost float64
		diffSum      int
		actualSum    int
	}

	buckets := make(map[string]*bucket)
	for _, r := range records {
		if r.Status == domain.ComparisonPending {
			continue
		}
		key := keyFn(r)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		if r.ActualQty > 0 {
			b.accuracySum += r.Accuracy
			b.samples++
		}
		b.records++
		b.waste += r.Waste
		b.stockout += r.Stockout
		b.wasteCost += r.WasteCost
		b.stockoutCost += r.StockoutRevenue
		b.diffSum += r.Diff
		b.actualSum += r.ActualQty
	}

	summaries := make([]domain.AccuracySummary, 0, len(buckets))
	for key, b := range buckets {
		s := domain.AccuracySummary{
			Key:           key,
			Samples:       b.samples,
			TotalWaste:    b.waste,
			TotalStockout: b.stockout,
			WasteCost:     b.wasteCost,
			StockoutCost:  b.stockoutCost,
		}
		if b.samples > 0 {
			s.Accuracy = b.accuracySum / float64(b.samples)
		}
		// Diffs accumulate over every reconciled record, including days
		// that sold nothing, so the mean divides by the same population.
		if b.records > 0 {
			s.AvgBias = float64(b.diffSum) / float64(b.records)
		}
		if b.actualSum > 0 {
			s.BiasPercent = float64(b.diffSum) / float64(b.actualSum) * 100
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })
	return summaries
}

func recommend(byMarket, byWeekday, byProduct []domain.AccuracySummary) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0)

	for _, m := range byMarket {
		if m.Samples >= minSamples && m.Accuracy < lowAccuracyThreshold {
			recs = append(recs, domain.Recommendation{
				Scope:    "market",
				Key:      m.Key,
				Priority: domain.PriorityHigh,
				Message:  fmt.Sprintf("forecasts for market %s average %.0f%% accuracy over %d days, review its demand signals", m.Key, m.Accuracy, m.Samples),
			})
		}
	}

	for _, p := range byProduct {
		if p.Samples < minSamples || math.Abs(p.BiasPercent) <= biasAlertPercent {
			continue
		}
		priority := domain.PriorityMedium
		if math.Abs(p.BiasPercent) > biasHighPercent {
			priority = domain.PriorityHigh
		}
		advice := "reduce planned quantities"
		if p.BiasPercent < 0 {
			advice = "increase planned quantities"
		}
		recs = append(recs, domain.Recommendation{
			Scope:    "product",
			Key:      p.Key,
			Priority: priority,
			Message:  fmt.Sprintf("product %s is off by %.0f%% of actual volume, %s", p.Key, p.BiasPercent, advice),
		})
	}

	for _, d := range byWeekday {
		if d.Samples >= minSamples && d.Accuracy < lowAccuracyThreshold {
			recs = append(recs, domain.Recommendation{
				Scope:    "weekday",
				Key:      d.Key,
				Priority: domain.PriorityHigh,
				Message:  fmt.Sprintf("%s forecasts average %.0f%% accuracy, this weekday needs its own baseline", d.Key, d.Accuracy),
			})
		}
	}

	return recs
}
