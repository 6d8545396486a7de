package oracle

import (
	"fmt"
	"sort"
	"time"

	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/pkg/formulas"
)

const (
	minBeforeSamples = 7
	minAfterSamples  = 5
	cannibalDropPct  = -20.0
	maxCannibalConf  = 95.0
	maxCannibalHits  = 3
)

// FindCannibalization treats each product's first sale date as its
// introduction and checks whether established products sold measurably
// worse afterwards. A drop of more than 20% in mean daily quantity with
// enough samples on both sides flags the pair. Returns at most the top 3
// by most negative change.
func FindCannibalization(sales []domain.SaleLogEntry) []domain.CannibalResult {
	intro := firstSaleDates(sales)

	productIDs := make([]string, 0, len(intro))
	for id := range intro {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	results := make([]domain.CannibalResult, 0)
	for _, newcomer := range productIDs {
		introducedAt := intro[newcomer]

		for _, old := range productIDs {
			// Only products already on the menu can be cannibalized.
			if old == newcomer || !intro[old].Before(introducedAt) {
				continue
			}

			var before, after []float64
			for _, s := range sales {
				if s.ProductID != old {
					continue
				}
				if s.SaleDate.Before(introducedAt) {
					before = append(before, float64(s.QuantitySold))
				} else {
					after = append(after, float64(s.QuantitySold))
				}
			}
			if len(before) < minBeforeSamples || len(after) < minAfterSamples {
				continue
			}

			beforeAvg := formulas.Mean(before)
			if beforeAvg == 0 {
				continue
			}
			afterAvg := formulas.Mean(after)
			change := (afterAvg - beforeAvg) / beforeAvg * 100
			if change > cannibalDropPct {
				continue
			}

			confidence := 50 + float64(len(after))*5
			if confidence > maxCannibalConf {
				confidence = maxCannibalConf
			}

			results = append(results, domain.CannibalResult{
				NewProduct:    newcomer,
				OldProduct:    old,
				IntroducedAt:  introducedAt,
				ChangePercent: change,
				Confidence:    confidence,
				BeforeSamples: len(before),
				AfterSamples:  len(after),
				Analysis: fmt.Sprintf("%s sales dropped %.0f%% (%.1f to %.1f avg units) after %s launched.",
					old, -change, beforeAvg, afterAvg, newcomer),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ChangePercent < results[j].ChangePercent
	})
	if len(results) > maxCannibalHits {
		results = results[:maxCannibalHits]
	}
	return results
}

func firstSaleDates(sales []domain.SaleLogEntry) map[string]time.Time {
	intro := make(map[string]time.Time)
	for _, s := range sales {
		if first, ok := intro[s.ProductID]; !ok || s.SaleDate.Before(first) {
			intro[s.ProductID] = s.SaleDate
		}
	}
	return intro
}
