package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube-feed/internal/middleware"
	"github.com/d60-Lab/yatube-feed/internal/service"
	"github.com/d60-Lab/yatube-feed/pkg/response"
)

// Follow 关注作者（粉丝表异步冗余）
// @Summary 关注作者
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param username path string true "作者用户名"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/profiles/{username}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	author, err := h.userRepo.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	if err := h.relService.Follow(c.Request.Context(), middleware.Viewer(c).UserID, author.ID); err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, gin.H{"username": author.Username, "following": true})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param username path string true "作者用户名"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/profiles/{username}/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	author, err := h.userRepo.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	if err := h.relService.Unfollow(c.Request.Context(), middleware.Viewer(c).UserID, author.ID); err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, gin.H{"username": author.Username, "following": false})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量（上限 100）" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/profiles/{username}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	user, err := h.userRepo.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	page, pageSize := relationPage(c)
	list, err := h.relService.ListFollowing(c.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表（来自冗余表）
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量（上限 100）" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/profiles/{username}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	user, err := h.userRepo.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	page, pageSize := relationPage(c)
	list, err := h.relService.ListFollowers(c.Request.Context(), user.ID, page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	total, err := h.relService.FollowerCount(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "total": total, "list": list})
}

// relationPage 解析并规整分页参数，响应中回显实际使用的值
func relationPage(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return service.NormalizePage(page, pageSize)
}
