package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ovenpilot/analytics/internal/cache"
	"github.com/ovenpilot/analytics/internal/config"
	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/ovenpilot/analytics/internal/oracle"
)

// InsightService runs the discovery side of the engine: oracle pattern
// mining, combo detection, and cannibalization checks. Bundle results are
// memoized in the pattern cache keyed by a digest of the sales dataset.
type InsightService struct {
	engine config.EngineConfig
	cache  cache.PatternCache
}

func NewInsightService(engine config.EngineConfig, cacheImpl cache.PatternCache) *InsightService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPatternCache()
	}
	return &InsightService{engine: engine, cache: cacheImpl}
}

func (s *InsightService) minerConfig() oracle.MinerConfig {
	return oracle.MinerConfig{
		ExcludedMarkets: s.engine.ExcludedMarkets,
		Budget:          s.engine.MiningBudget,
	}
}

func (s *InsightService) Mine(productID string, sales []domain.SaleLogEntry) []domain.OraclePattern {
	return oracle.Mine(productID, sales, s.minerConfig())
}

func (s *InsightService) Combos(sales []domain.SaleLogEntry) []domain.ComboResult {
	return oracle.FindCombos(sales)
}

func (s *InsightService) Cannibalization(sales []domain.SaleLogEntry) []domain.CannibalResult {
	return oracle.FindCannibalization(sales)
}

// Bundle runs all three analyzers over the same dataset. Mining fans out
// per product; results are merged and ordered by product id so repeated
// calls over the same data produce the same bundle.
func (s *InsightService) Bundle(ctx context.Context, sales []domain.SaleLogEntry) (*cache.InsightBundle, error) {
	digest := cache.DatasetDigest(sales)

	if bundle, ok, err := s.cache.Get(ctx, digest); err == nil && ok {
		return bundle, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("insights: cache get bundle failed")
	}

	productIDs := distinctProducts(sales)
	cfg := s.minerConfig()

	var (
		mu       sync.Mutex
		byID     = make(map[string][]domain.OraclePattern, len(productIDs))
		combos   []domain.ComboResult
		cannibal []domain.CannibalResult
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, productID := range productIDs {
		productID := productID
		g.Go(func() error {
			patterns := oracle.Mine(productID, sales, cfg)
			mu.Lock()
			byID[productID] = patterns
			mu.Unlock()
			return ctx.Err()
		})
	}
	g.Go(func() error {
		combos = oracle.FindCombos(sales)
		return ctx.Err()
	})
	g.Go(func() error {
		cannibal = oracle.FindCannibalization(sales)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var patterns []domain.OraclePattern
	for _, productID := range productIDs {
		patterns = append(patterns, byID[productID]...)
	}

	bundle := &cache.InsightBundle{
		Patterns: patterns,
		Combos:   combos,
		Cannibal: cannibal,
	}

	if err := s.cache.Set(ctx, digest, bundle); err != nil {
		log.Warn().Err(err).Msg("insights: cache set bundle failed")
	}

	return bundle, nil
}

func distinctProducts(sales []domain.SaleLogEntry) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, s := range sales {
		if _, ok := seen[s.ProductID]; ok {
			continue
		}
		seen[s.ProductID] = struct{}{}
		ids = append(ids, s.ProductID)
	}
	sort.Strings(ids)
	return ids
}
