package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/yatube-feed/config"
	_ "github.com/d60-Lab/yatube-feed/docs"
	"github.com/d60-Lab/yatube-feed/internal/api/handler"
	"github.com/d60-Lab/yatube-feed/internal/middleware"
	"github.com/d60-Lab/yatube-feed/internal/service"
)

// NewRouter 注册全部路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler, authSvc service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(middleware.RequestID())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.OptionalAuth(authSvc))

	limit := middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	authed := middleware.RequireAuth()

	auth := v1.Group("/auth", limit)
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	v1.GET("/posts", h.ListAll)
	v1.GET("/posts/:id", h.GetPost)
	v1.POST("/posts", authed, limit, h.CreatePost)
	v1.PUT("/posts/:id", authed, limit, h.UpdatePost)
	v1.DELETE("/posts/:id", authed, limit, h.DeletePost)
	v1.POST("/posts/:id/comments", authed, limit, h.AddComment)

	v1.GET("/groups", h.ListGroups)
	v1.POST("/groups", authed, middleware.RequireStaff(), h.CreateGroup)
	v1.GET("/groups/:slug/posts", h.ListByGroup)

	profiles := v1.Group("/profiles/:username")
	{
		profiles.GET("/posts", h.ListByAuthor)
		profiles.GET("/followers", h.ListFollowers)
		profiles.GET("/following", h.ListFollowing)
		profiles.POST("/follow", authed, limit, h.Follow)
		profiles.POST("/unfollow", authed, limit, h.Unfollow)
	}

	v1.GET("/follow/posts", authed, h.ListFollowed)

	admin := v1.Group("/admin", authed, middleware.RequireStaff())
	{
		admin.POST("/cache/invalidate", h.InvalidateIndexCache)
	}

	return r
}
