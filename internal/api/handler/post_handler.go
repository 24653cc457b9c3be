package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/internal/middleware"
	"github.com/d60-Lab/yatube-feed/internal/service"
	"github.com/d60-Lab/yatube-feed/pkg/response"
)

// DetailPath 帖子只读详情地址
func DetailPath(postID int64) string {
	return fmt.Sprintf("/api/v1/posts/%d", postID)
}

// GetPost 帖子详情
// @Summary 帖子详情（含评论与作者帖子数）
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=service.PostDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	detail, err := h.postService.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, detail)
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PostInput true "帖子内容"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var in service.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postService.Create(c.Request.Context(), middleware.Viewer(c), in)
	if err != nil {
		response.Error(c, err, in)
		return
	}
	response.Created(c, post)
}

// UpdatePost 编辑帖子；非作者被重定向到只读详情
// @Summary 编辑帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Param request body service.PostInput true "帖子内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Success 303 "非作者，跳转至详情"
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	var in service.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postService.Update(c.Request.Context(), middleware.Viewer(c), id, in)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindForbidden {
			c.Redirect(http.StatusSeeOther, DetailPath(id))
			c.Abort()
			return
		}
		response.Error(c, err, in)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除帖子（级联删除评论）
// @Summary 删除帖子
// @Tags 帖子
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	if err := h.postService.Delete(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, gin.H{"deleted": id})
}

// AddComment 评论
// @Summary 发表评论
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Param request body service.CommentInput true "评论内容"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	var in service.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.postService.AddComment(c.Request.Context(), middleware.Viewer(c), id, in)
	if err != nil {
		response.Error(c, err, in)
		return
	}
	response.Created(c, comment)
}

// ListGroups 分组列表
// @Summary 分组列表
// @Tags 分组
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Group}
// @Router /api/v1/groups [get]
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.postService.ListGroups(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, groups)
}

// CreateGroup 创建分组，仅限管理员
// @Summary 创建分组
// @Tags 分组
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.GroupInput true "分组"
// @Success 201 {object} response.Response{data=model.Group}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/groups [post]
func (h *Handler) CreateGroup(c *gin.Context) {
	var in service.GroupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	group, err := h.postService.CreateGroup(c.Request.Context(), middleware.Viewer(c), in)
	if err != nil {
		response.Error(c, err, in)
		return
	}
	response.Created(c, group)
}
