package feed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube-feed/pkg/logger"
)

// IndexCacheKey 全进程共享的唯一缓存键
const IndexCacheKey = "feed:index:page1"

// RedisListingCache 多实例部署时共享首页缓存，过期交给 redis
type RedisListingCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisListingCache{client: client, key: IndexCacheKey, ttl: ttl}
}

func (c *RedisListingCache) Get(ctx context.Context) (*Listing, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("listing cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var listing Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		logger.Warn("listing cache payload corrupt", zap.Error(err))
		return nil, false
	}
	return &listing, true
}

func (c *RedisListingCache) Put(ctx context.Context, listing *Listing) {
	payload, err := json.Marshal(listing)
	if err != nil {
		logger.Warn("listing cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		logger.Warn("listing cache put failed", zap.Error(err))
	}
}

func (c *RedisListingCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		logger.Warn("listing cache invalidate failed", zap.Error(err))
	}
}
