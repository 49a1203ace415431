package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/autopo-sim/internal/config"
	"github.com/andresuchdata/autopo-sim/internal/domain"
)

const (
	comparisonKeyPrefix = "sweep:comparison"
	scanBatchSize       = 100
)

// ComparisonCache fronts the comparison-table reads of the API. Completed
// sweeps never change, so a short TTL exists only to bound memory.
type ComparisonCache interface {
	GetComparison(ctx context.Context, sweepRunID int64) ([]domain.ComparisonRow, bool, error)
	SetComparison(ctx context.Context, sweepRunID int64, rows []domain.ComparisonRow) error
	InvalidateAll(ctx context.Context) error
}

type redisComparisonCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopComparisonCache struct{}

// NewComparisonCache returns a redis-backed cache when caching is enabled,
// or a noop cache otherwise.
func NewComparisonCache(cfg config.CacheConfig) (ComparisonCache, error) {
	if !cfg.Enabled {
		return &noopComparisonCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisComparisonCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopComparisonCache() ComparisonCache {
	return &noopComparisonCache{}
}

func (c *redisComparisonCache) GetComparison(ctx context.Context, sweepRunID int64) ([]domain.ComparisonRow, bool, error) {
	payload, err := c.client.Get(ctx, comparisonKey(sweepRunID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var rows []domain.ComparisonRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached comparison: %w", err)
	}
	return rows, true, nil
}

func (c *redisComparisonCache) SetComparison(ctx context.Context, sweepRunID int64, rows []domain.ComparisonRow) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode comparison: %w", err)
	}
	if err := c.client.Set(ctx, comparisonKey(sweepRunID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisComparisonCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, comparisonKeyPrefix, scanBatchSize)
}

func comparisonKey(sweepRunID int64) string {
	return fmt.Sprintf("%s:%d", comparisonKeyPrefix, sweepRunID)
}

func (c *noopComparisonCache) GetComparison(ctx context.Context, sweepRunID int64) ([]domain.ComparisonRow, bool, error) {
	return nil, false, nil
}

func (c *noopComparisonCache) SetComparison(ctx context.Context, sweepRunID int64, rows []domain.ComparisonRow) error {
	return nil
}

func (c *noopComparisonCache) InvalidateAll(ctx context.Context) error {
	return nil
}
