package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"pos-engine/internal/domain"
)

const cacheKey = "catalog:items"

// fillTimeout bounds a shared cache fill.
const fillTimeout = time.Minute

var errCacheMiss = errors.New("cache miss")

// CachedSource is a read-through Redis cache in front of another Source.
// Cache failures are logged and fall through to the wrapped source.
type CachedSource struct {
	next    Source
	client  *redis.Client
	baseTTL time.Duration
	logger  *zap.Logger
	sfg     singleflight.Group // collapses concurrent misses
}

func NewCachedSource(next Source, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedSource{next: next, client: client, baseTTL: ttl, logger: logger}
}

// Load shares one fill between concurrent callers. The fill is detached from
// any single caller's context so a cancelled caller cannot fail the others;
// each caller still stops waiting when its own ctx is done.
func (c *CachedSource) Load(ctx context.Context) ([]domain.Item, error) {
	ch := c.sfg.DoChan(cacheKey, func() (interface{}, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fillTimeout)
		defer cancel()

		items, err := c.get(fillCtx)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, errCacheMiss) {
			c.logger.Warn("catalog cache get failed", zap.Error(err))
		}

		items, err = c.next.Load(fillCtx)
		if err != nil {
			return nil, err
		}
		if err := c.set(fillCtx, items); err != nil {
			c.logger.Warn("catalog cache set failed", zap.Error(err))
		}
		return items, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Item), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached catalog so the next Load reads the wrapped source.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *CachedSource) get(ctx context.Context) ([]domain.Item, error) {
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return items, nil
}

func (c *CachedSource) set(ctx context.Context, items []domain.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}
	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := c.client.Set(ctx, cacheKey, data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
