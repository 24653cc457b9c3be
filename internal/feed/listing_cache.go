package feed

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL 首页缓存默认有效期
const DefaultCacheTTL = 20 * time.Second

// ListingCache 缓存匿名访问首页第一页的 All 列表。
// 写帖子不会主动失效缓存，TTL 内读者可能看到旧列表，存储本身始终一致。
type ListingCache interface {
	Get(ctx context.Context) (*Listing, bool)
	Put(ctx context.Context, listing *Listing)
	Invalidate(ctx context.Context)
}

// MemoryListingCache 进程内实现
type MemoryListingCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	listing   *Listing
	expiresAt time.Time
}

func NewMemoryListingCache(ttl time.Duration) *MemoryListingCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryListingCache{ttl: ttl, now: time.Now}
}

func (c *MemoryListingCache) Get(context.Context) (*Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.listing == nil || !c.now().Before(c.expiresAt) {
		return nil, false
	}
	return c.listing, true
}

func (c *MemoryListingCache) Put(_ context.Context, listing *Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing = listing
	c.expiresAt = c.now().Add(c.ttl)
}

func (c *MemoryListingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing = nil
	c.expiresAt = time.Time{}
}

// NopListingCache 关闭缓存
type NopListingCache struct{}

func (NopListingCache) Get(context.Context) (*Listing, bool) { return nil, false }
func (NopListingCache) Put(context.Context, *Listing)        {}
func (NopListingCache) Invalidate(context.Context)           {}
