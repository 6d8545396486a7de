package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ovenpilot/analytics/internal/config"
	"github.com/ovenpilot/analytics/internal/domain"
	"github.com/redis/go-redis/v9"
)

const patternKeyPrefix = "patterns:insights"

// InsightBundle is the cached output of one combined discovery run.
type InsightBundle struct {
	Patterns []domain.OraclePattern  `json:"patterns"`
	Combos   []domain.ComboResult    `json:"combos"`
	Cannibal []domain.CannibalResult `json:"cannibal"`
}

// PatternCache memoizes discovery results keyed by a digest of the input
// dataset. The engine is pure, so an unchanged dataset always maps to the
// same output and the cache can never go stale within its TTL.
type PatternCache interface {
	Get(ctx context.Context, datasetDigest string) (*InsightBundle, bool, error)
	Set(ctx context.Context, datasetDigest string, bundle *InsightBundle) error
}

type redisPatternCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPatternCache struct{}

func NewPatternCache(cfg config.CacheConfig) (PatternCache, error) {
	if !cfg.Enabled {
		return &noopPatternCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPatternCache{client: client, ttl: ttl}, nil
}

func NewNoopPatternCache() PatternCache {
	return &noopPatternCache{}
}

func (c *redisPatternCache) Get(ctx context.Context, datasetDigest string) (*InsightBundle, bool, error) {
	payload, err := c.client.Get(ctx, patternKeyPrefix+":"+datasetDigest).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var bundle InsightBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, false, fmt.Errorf("decode insight cache: %w", err)
	}
	return &bundle, true, nil
}

func (c *redisPatternCache) Set(ctx context.Context, datasetDigest string, bundle *InsightBundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode insight cache: %w", err)
	}
	return c.client.Set(ctx, patternKeyPrefix+":"+datasetDigest, payload, c.ttl).Err()
}

func (c *noopPatternCache) Get(context.Context, string) (*InsightBundle, bool, error) {
	return nil, false, nil
}

func (c *noopPatternCache) Set(context.Context, string, *InsightBundle) error {
	return nil
}

// DatasetDigest hashes a sales dataset into a stable cache key. Entries are
// folded order-independently so callers need not sort their input.
func DatasetDigest(sales []domain.SaleLogEntry) string {
	lines := make([]string, 0, len(sales))
	for _, s := range sales {
		lines = append(lines, fmt.Sprintf("%s|%s|%s|%d|%s",
			s.ProductID, s.MarketID, s.SaleDate.Format("2006-01-02"), s.QuantitySold, s.WeatherCondition))
	}
	sort.Strings(lines)

	h := sha1.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
