package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube-feed/internal/service"
	"github.com/d60-Lab/yatube-feed/pkg/response"
)

// Register 注册
// @Summary 注册账号
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		in.Password = ""
		response.Error(c, err, in)
		return
	}
	response.Created(c, user)
}

// Login 登录并签发令牌
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "登录信息"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.authService.Login(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	response.Success(c, gin.H{"token": token, "user": user})
}
