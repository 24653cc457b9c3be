package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube-feed/internal/middleware"
	"github.com/d60-Lab/yatube-feed/pkg/response"
)

// ListAll 首页列表
// @Summary 全部帖子
// @Tags 帖子
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=feed.Listing}
// @Router /api/v1/posts [get]
func (h *Handler) ListAll(c *gin.Context) {
	listing, err := h.feedService.ListAll(c.Request.Context(), middleware.Viewer(c), c.Query("page"))
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, listing)
}

// ListByGroup 分组帖子
// @Summary 分组帖子
// @Tags 帖子
// @Produce json
// @Param slug path string true "分组 slug"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=feed.Listing}
// @Failure 404 {object} response.Response
// @Router /api/v1/groups/{slug}/posts [get]
func (h *Handler) ListByGroup(c *gin.Context) {
	listing, err := h.feedService.ListByGroup(c.Request.Context(), c.Param("slug"), middleware.Viewer(c), c.Query("page"))
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, listing)
}

// ListByAuthor 作者主页
// @Summary 作者帖子
// @Tags 帖子
// @Produce json
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=feed.Listing}
// @Failure 404 {object} response.Response
// @Router /api/v1/profiles/{username}/posts [get]
func (h *Handler) ListByAuthor(c *gin.Context) {
	listing, err := h.feedService.ListByAuthor(c.Request.Context(), c.Param("username"), middleware.Viewer(c), c.Query("page"))
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, listing)
}

// ListFollowed 关注流
// @Summary 关注作者的帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=feed.Listing}
// @Failure 401 {object} response.Response
// @Router /api/v1/follow/posts [get]
func (h *Handler) ListFollowed(c *gin.Context) {
	listing, err := h.feedService.ListFollowed(c.Request.Context(), middleware.Viewer(c), c.Query("page"))
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, listing)
}

// InvalidateIndexCache 清空首页缓存
// @Summary 清空首页缓存
// @Tags 管理
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/cache/invalidate [post]
func (h *Handler) InvalidateIndexCache(c *gin.Context) {
	h.feedService.InvalidateIndex(c.Request.Context())
	response.Success(c, nil)
}
