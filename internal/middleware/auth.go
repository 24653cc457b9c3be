package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/service"
	"github.com/d60-Lab/yatube-feed/pkg/logger"
	"github.com/d60-Lab/yatube-feed/pkg/response"
)

const viewerKey = "viewer"

// OptionalAuth 解析 Bearer 令牌；无令牌或令牌无效时以匿名身份继续
func OptionalAuth(authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		viewer, err := authSvc.Viewer(c.Request.Context(), token)
		if err != nil && apperr.KindOf(err) != apperr.KindUnauthorized {
			logger.Error("resolve viewer failed", zap.Error(err))
		}
		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// RequireAuth 匿名访问返回 Unauthorized 并提示登录入口
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Viewer(c).IsAuthenticated() {
			response.Error(c, apperr.Unauthorized("login required"), nil)
			return
		}
		c.Next()
	}
}

// RequireStaff 需在 RequireAuth 之后使用
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Viewer(c).IsStaff {
			response.Error(c, apperr.Forbidden("staff only"), nil)
			return
		}
		c.Next()
	}
}

// Viewer 取当前访问者，未经过 OptionalAuth 时为匿名
func Viewer(c *gin.Context) model.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(model.Viewer); ok {
			return viewer
		}
	}
	return model.Anonymous()
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
