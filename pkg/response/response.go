package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// LoginPath 未登录时提示客户端跳转的登录入口
const LoginPath = "/api/v1/auth/login"

var kindStatus = map[apperr.Kind]int{
	apperr.KindNotFound:         http.StatusNotFound,
	apperr.KindUnauthorized:     http.StatusUnauthorized,
	apperr.KindForbidden:        http.StatusForbidden,
	apperr.KindInvalidOperation: http.StatusBadRequest,
	apperr.KindInternal:         http.StatusInternalServerError,
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: msg})
}

func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: "internal server error"})
}

// Error 按错误分类输出；校验失败时回传原始输入以便修改后重新提交
func Error(c *gin.Context, err error, input interface{}) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindInternal {
		InternalError(c, err)
		return
	}
	status := kindStatus[appErr.Kind]
	resp := Response{Code: status, Message: appErr.Message}
	switch appErr.Kind {
	case apperr.KindUnauthorized:
		c.Header("Location", LoginPath)
		resp.Data = gin.H{"login": LoginPath}
	case apperr.KindInvalidOperation:
		if len(appErr.Fields) > 0 {
			resp.Errors = appErr.Fields
		}
		if input != nil {
			resp.Data = gin.H{"input": input}
		}
	}
	c.AbortWithStatusJSON(status, resp)
}
