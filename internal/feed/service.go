package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube-feed/internal/metrics"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/pkg/logger"
	"github.com/d60-Lab/yatube-feed/pkg/pagination"
)

// Service 对外暴露四种列表查询，page 为原始查询参数
type Service interface {
	ListAll(ctx context.Context, viewer model.Viewer, page string) (*Listing, error)
	ListByGroup(ctx context.Context, slug string, viewer model.Viewer, page string) (*Listing, error)
	ListByAuthor(ctx context.Context, username string, viewer model.Viewer, page string) (*Listing, error)
	ListFollowed(ctx context.Context, viewer model.Viewer, page string) (*Listing, error)
	// InvalidateIndex 管理操作：清空首页缓存
	InvalidateIndex(ctx context.Context)
}

type service struct {
	resolver *Resolver
	cache    ListingCache
	now      func() time.Time
}

func NewService(resolver *Resolver, cache ListingCache) Service {
	if cache == nil {
		cache = NopListingCache{}
	}
	return &service{resolver: resolver, cache: cache, now: time.Now}
}

func (s *service) ListAll(ctx context.Context, viewer model.Viewer, page string) (*Listing, error) {
	return s.list(ctx, All(), viewer, page)
}

func (s *service) ListByGroup(ctx context.Context, slug string, viewer model.Viewer, page string) (*Listing, error) {
	return s.list(ctx, ByGroup(slug), viewer, page)
}

func (s *service) ListByAuthor(ctx context.Context, username string, viewer model.Viewer, page string) (*Listing, error) {
	return s.list(ctx, ByAuthor(username), viewer, page)
}

func (s *service) ListFollowed(ctx context.Context, viewer model.Viewer, page string) (*Listing, error) {
	return s.list(ctx, FollowedBy(viewer.UserID), viewer, page)
}

func (s *service) InvalidateIndex(ctx context.Context) {
	s.cache.Invalidate(ctx)
	logger.Info("index listing cache invalidated")
}

// cacheable 只有匿名访问的 All 第一页走缓存
func cacheable(lc ListingContext, viewer model.Viewer, page string) bool {
	return lc.Kind == KindAll && !viewer.IsAuthenticated() && pagination.ParsePageNumber(page) == 1
}

func (s *service) list(ctx context.Context, lc ListingContext, viewer model.Viewer, page string) (*Listing, error) {
	useCache := cacheable(lc, viewer, page)
	if useCache {
		if listing, ok := s.cache.Get(ctx); ok {
			metrics.ListingCacheLookups.WithLabelValues("hit").Inc()
			return listing, nil
		}
		metrics.ListingCacheLookups.WithLabelValues("miss").Inc()
	}

	start := s.now()
	listing, err := s.compose(ctx, lc, viewer, page)
	if err != nil {
		return nil, err
	}
	metrics.ListingResolveDuration.WithLabelValues(string(lc.Kind)).Observe(time.Since(start).Seconds())
	logger.Debug("listing resolved",
		zap.Stringer("context", lc),
		zap.Int64("viewer", viewer.UserID),
		zap.Int("page", listing.Page.Number),
		zap.Int64("total", listing.Page.TotalCount))

	if useCache {
		s.cache.Put(ctx, listing)
	}
	return listing, nil
}

func (s *service) compose(ctx context.Context, lc ListingContext, viewer model.Viewer, page string) (*Listing, error) {
	res, err := s.resolver.Resolve(ctx, lc, viewer)
	if err != nil {
		return nil, err
	}
	p, err := pagination.Paginate(ctx, res.Posts, PostsPerPage, page)
	if err != nil {
		return nil, err
	}
	return &Listing{
		Kind:       lc.Kind,
		Page:       p,
		Group:      res.Group,
		Author:     res.Author,
		Following:  res.Following,
		PostsCount: p.TotalCount,
		ComposedAt: s.now().UTC(),
	}, nil
}
