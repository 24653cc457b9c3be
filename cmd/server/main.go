package main

//go:generate swag init -d ../.. -g cmd/server/main.go -o ../../docs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube-feed/config"
	"github.com/d60-Lab/yatube-feed/internal/api"
	"github.com/d60-Lab/yatube-feed/internal/api/handler"
	"github.com/d60-Lab/yatube-feed/internal/feed"
	"github.com/d60-Lab/yatube-feed/internal/metrics"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/internal/service"
	"github.com/d60-Lab/yatube-feed/pkg/auth"
	"github.com/d60-Lab/yatube-feed/pkg/database"
	"github.com/d60-Lab/yatube-feed/pkg/logger"
	"github.com/d60-Lab/yatube-feed/pkg/tracing"
)

// @title Yatube Feed API
// @version 1.0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer database.Close(db)

	metrics.Register()

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)

	replicator := service.NewFanReplicator(fanRepo, 10000)
	stopReplicator := replicator.Start(4)
	stopObserve := observeReplicator(replicator)

	cache, closeCache := listingCache(cfg)
	defer closeCache()

	feedService := feed.NewService(feed.NewResolver(userRepo, groupRepo, postRepo, followRepo), cache)
	postService := service.NewPostService(postRepo, groupRepo, commentRepo)
	relService := service.NewRelationshipService(userRepo, followRepo, fanRepo, replicator)
	authService := service.NewAuthService(userRepo, auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expire))

	h := handler.New(feedService, postService, relService, authService, userRepo)
	router := api.NewRouter(cfg, h, authService)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("cache", cfg.Feed.CacheBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := stopReplicator(ctx); err != nil {
		logger.Warn("replicator drain incomplete", zap.Error(err))
	}
	stopObserve()
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}
}

// listingCache 按配置选择首页缓存后端
func listingCache(cfg *config.Config) (feed.ListingCache, func()) {
	switch cfg.Feed.CacheBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, index cache will miss until it recovers", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		return feed.NewRedisListingCache(client, cfg.Feed.CacheTTL), func() { _ = client.Close() }
	case "none":
		return feed.NopListingCache{}, func() {}
	default:
		return feed.NewMemoryListingCache(cfg.Feed.CacheTTL), func() {}
	}
}

// observeReplicator 将复制延迟与队列长度导出为指标
func observeReplicator(r *service.FanReplicator) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case d := <-r.Metrics():
				metrics.FanReplicationLag.Observe(d.Seconds())
			case <-ticker.C:
				metrics.FanReplicatorQueue.Set(float64(r.QueueLen()))
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
